package curve

import "osbgen/osb"

// Catmull is a uniform Catmull-Rom spline through its control points.
type Catmull struct {
	table
	Control []osb.Vector2
}

// NewCatmull spreads ceil(nominal) samples evenly over the spline's
// segments.
func NewCatmull(points []osb.Vector2, nominal float64) *Catmull {
	mustPoints(points)
	n := len(points)
	if n == 1 {
		return &Catmull{table: newTable(points), Control: points}
	}
	if nominal <= 0 {
		nominal = polygonLength(points)
	}
	segs := n - 1
	per := max(1, (samplesFor(nominal)+segs-1)/segs)

	pts := make([]osb.Vector2, 0, segs*per+1)
	pts = append(pts, points[0])
	for i := 0; i < segs; i++ {
		p0 := points[max(i-1, 0)]
		p1 := points[i]
		p2 := points[i+1]
		p3 := points[min(i+2, n-1)]
		for s := 1; s <= per; s++ {
			pts = append(pts, catmullPoint(p0, p1, p2, p3, float64(s)/float64(per)))
		}
	}
	pts[len(pts)-1] = points[n-1]
	return &Catmull{table: newTable(pts), Control: points}
}

func catmullPoint(p0, p1, p2, p3 osb.Vector2, t float64) osb.Vector2 {
	t2 := t * t
	t3 := t2 * t
	return osb.Vector2{
		X: 0.5 * ((2 * p1.X) + (-p0.X+p2.X)*t + (2*p0.X-5*p1.X+4*p2.X-p3.X)*t2 + (-p0.X+3*p1.X-3*p2.X+p3.X)*t3),
		Y: 0.5 * ((2 * p1.Y) + (-p0.Y+p2.Y)*t + (2*p0.Y-5*p1.Y+4*p2.Y-p3.Y)*t2 + (-p0.Y+3*p1.Y-3*p2.Y+p3.Y)*t3),
	}
}
