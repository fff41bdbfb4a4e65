// Package curve evaluates slider paths by arclength.
//
// Every curve is sampled once on construction into a table of cumulative
// distance and position; queries scan the table and interpolate linearly
// between the bracketing entries.
package curve

import (
	"fmt"
	"math"

	"osbgen/osb"
)

var ErrDegenerate = fmt.Errorf("%w: curve needs at least one point", osb.ErrGeometry)

type Curve interface {
	// Length is the arclength of the sampled path.
	Length() float64
	// PositionAtDistance returns the point d along the path. Distances
	// past the end continue in the direction of the last segment.
	PositionAtDistance(d float64) osb.Vector2
	// PositionAtDelta returns the point at fraction t of Length.
	PositionAtDelta(t float64) osb.Vector2
}

type table struct {
	dist []float64
	pos  []osb.Vector2
}

// newTable accumulates distances along pts, dropping zero-length steps.
func newTable(pts []osb.Vector2) table {
	t := table{
		dist: make([]float64, 0, len(pts)),
		pos:  make([]osb.Vector2, 0, len(pts)),
	}
	for i, p := range pts {
		if i == 0 {
			t.dist = append(t.dist, 0)
			t.pos = append(t.pos, p)
			continue
		}
		last := t.pos[len(t.pos)-1]
		step := last.Distance(p)
		if step == 0 {
			continue
		}
		t.dist = append(t.dist, t.dist[len(t.dist)-1]+step)
		t.pos = append(t.pos, p)
	}
	return t
}

func (t *table) Length() float64 { return t.dist[len(t.dist)-1] }

func (t *table) PositionAtDelta(d float64) osb.Vector2 {
	return t.PositionAtDistance(clamp(d, 0, 1) * t.Length())
}

func (t *table) PositionAtDistance(d float64) osb.Vector2 {
	n := len(t.pos)
	if n == 1 || d <= 0 {
		return t.pos[0]
	}
	for i := 1; i < n; i++ {
		if d <= t.dist[i] {
			lo, hi := t.dist[i-1], t.dist[i]
			return t.pos[i-1].Lerp(t.pos[i], (d-lo)/(hi-lo))
		}
	}
	// extrapolate along the last segment
	lo, hi := t.dist[n-2], t.dist[n-1]
	return t.pos[n-2].Lerp(t.pos[n-1], (d-lo)/(hi-lo))
}

// Points exposes the sampled polyline.
func (t *table) Points() []osb.Vector2 { return t.pos }

// Linear is a polyline through its control points.
type Linear struct{ table }

func NewLinear(points []osb.Vector2) *Linear {
	mustPoints(points)
	return &Linear{newTable(points)}
}

// polygonLength is the length of the control polygon, an upper bound for
// the Bezier arclength.
func polygonLength(points []osb.Vector2) float64 {
	l := 0.0
	for i := 1; i < len(points); i++ {
		l += points[i-1].Distance(points[i])
	}
	return l
}

// maxSamples bounds a lookup table. Longer paths interpolate linearly
// between coarser samples.
const maxSamples = 1 << 14

// samplesFor is the table size for a path of nominal length l.
func samplesFor(l float64) int {
	if !(l < maxSamples) {
		return maxSamples
	}
	return max(1, int(math.Ceil(l)))
}

func mustPoints(points []osb.Vector2) {
	if len(points) == 0 {
		panic(ErrDegenerate)
	}
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
