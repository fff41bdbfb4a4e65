package curve

import (
	"math"

	"osbgen/osb"
)

// Circle is the circular arc from Start through Mid to End.
type Circle struct {
	table
	Start, Mid, End osb.Vector2
	Centre          osb.Vector2
	Radius          float64
	// StartAngle and EndAngle are ordered so the arc runs from one to the
	// other with the mid-point strictly between them.
	StartAngle, EndAngle float64
}

// CircleValid reports whether three points define an arc: no duplicates
// and not collinear.
func CircleValid(a, b, c osb.Vector2) bool {
	if a == b || b == c || a == c {
		return false
	}
	return math.Abs(b.Sub(a).Cross(c.Sub(b))) >= 1e-6
}

// NewCircle builds the arc through a, b and c. ok is false when the points
// are degenerate; callers fall back to another curve type.
func NewCircle(a, b, c osb.Vector2) (arc *Circle, ok bool) {
	if !CircleValid(a, b, c) {
		return nil, false
	}
	centre, ok := circumcenter(a, b, c)
	if !ok {
		return nil, false
	}
	r := centre.Distance(a)
	start := math.Atan2(a.Y-centre.Y, a.X-centre.X)
	mid := math.Atan2(b.Y-centre.Y, b.X-centre.X)
	end := math.Atan2(c.Y-centre.Y, c.X-centre.X)
	end = orderAngles(start, mid, end)

	arcLen := r * math.Abs(end-start)
	n := max(2, samplesFor(arcLen*0.125))
	pts := make([]osb.Vector2, n+1)
	for i := 0; i <= n; i++ {
		ang := start + (end-start)*float64(i)/float64(n)
		pts[i] = osb.Vector2{X: centre.X + r*math.Cos(ang), Y: centre.Y + r*math.Sin(ang)}
	}
	pts[0], pts[n] = a, c

	return &Circle{
		table:      newTable(pts),
		Start:      a,
		Mid:        b,
		End:        c,
		Centre:     centre,
		Radius:     r,
		StartAngle: start,
		EndAngle:   end,
	}, true
}

// orderAngles shifts end by multiples of 2π so that mid lies strictly
// between start and end on the swept side.
func orderAngles(start, mid, end float64) float64 {
	// counter-clockwise: mid and end both at or above start
	m, e := mid, end
	for m < start {
		m += 2 * math.Pi
	}
	for e < start {
		e += 2 * math.Pi
	}
	if m < e {
		return e
	}
	// clockwise: both at or below start
	e = end
	for e > start {
		e -= 2 * math.Pi
	}
	return e
}

func circumcenter(a, b, c osb.Vector2) (osb.Vector2, bool) {
	d := 2 * (a.X*(b.Y-c.Y) + b.X*(c.Y-a.Y) + c.X*(a.Y-b.Y))
	if math.Abs(d) < 1e-8 {
		return osb.Vector2{}, false
	}
	a2 := a.LengthSq()
	b2 := b.LengthSq()
	c2 := c.LengthSq()
	return osb.Vector2{
		X: (a2*(b.Y-c.Y) + b2*(c.Y-a.Y) + c2*(a.Y-b.Y)) / d,
		Y: (a2*(c.X-b.X) + b2*(a.X-c.X) + c2*(b.X-a.X)) / d,
	}, true
}
