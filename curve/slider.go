package curve

import (
	"fmt"

	"osbgen/osb"
)

// Kind is the curve-type letter of a slider path.
type Kind byte

const (
	KindBezier  Kind = 'B'
	KindLinear  Kind = 'L'
	KindCatmull Kind = 'C'
	KindPerfect Kind = 'P'
)

func (k Kind) String() string { return string(rune(k)) }

func ParseKind(s string) (Kind, error) {
	if len(s) == 1 {
		switch k := Kind(s[0]); k {
		case KindBezier, KindLinear, KindCatmull, KindPerfect:
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown curve type %q", s)
}

// New builds the curve for a full point list (slider head first). nominal
// is the expected path length used to size the sample tables; zero
// estimates it from the control points.
//
// Perfect paths need exactly three points forming a proper arc and
// otherwise fall back to Bezier. Bezier paths split into a Composite at
// repeated points.
func New(kind Kind, points []osb.Vector2, nominal float64) (Curve, error) {
	if len(points) == 0 {
		return nil, ErrDegenerate
	}
	switch kind {
	case KindLinear:
		return NewLinear(points), nil
	case KindCatmull:
		return NewCatmull(points, nominal), nil
	case KindPerfect:
		if len(points) == 3 {
			if arc, ok := NewCircle(points[0], points[1], points[2]); ok {
				return arc, nil
			}
		}
		return newBezierPath(points, nominal), nil
	case KindBezier:
		return newBezierPath(points, nominal), nil
	}
	return nil, fmt.Errorf("unknown curve type %q", string(rune(kind)))
}

func newBezierPath(points []osb.Vector2, nominal float64) Curve {
	segs := splitAnchors(points)
	if len(segs) == 1 {
		return NewBezier(segs[0], nominal)
	}
	total := 0.0
	for _, s := range segs {
		total += polygonLength(s)
	}
	parts := make([]Curve, len(segs))
	for i, s := range segs {
		share := 0.0
		if nominal > 0 && total > 0 {
			share = nominal * polygonLength(s) / total
		}
		parts[i] = NewBezier(s, share)
	}
	return NewComposite(parts...)
}
