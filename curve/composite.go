package curve

import "osbgen/osb"

// Composite chains independent curves end to end.
type Composite struct {
	Segments []Curve
	length   float64
}

func NewComposite(segments ...Curve) *Composite {
	if len(segments) == 0 {
		panic(ErrDegenerate)
	}
	c := &Composite{Segments: segments}
	for _, s := range segments {
		c.length += s.Length()
	}
	return c
}

func (c *Composite) Length() float64 { return c.length }

func (c *Composite) PositionAtDelta(t float64) osb.Vector2 {
	return c.PositionAtDistance(clamp(t, 0, 1) * c.length)
}

// PositionAtDistance walks the segments in order, consuming each one's
// length, and delegates to the segment holding d. Distances past the end
// extrapolate along the last segment.
func (c *Composite) PositionAtDistance(d float64) osb.Vector2 {
	last := len(c.Segments) - 1
	for i, s := range c.Segments {
		if d <= s.Length() || i == last {
			return s.PositionAtDistance(d)
		}
		d -= s.Length()
	}
	panic("unreachable")
}
