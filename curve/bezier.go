package curve

import "osbgen/osb"

// Bezier is a single Bezier curve of any degree.
type Bezier struct {
	table
	Control []osb.Vector2
}

// NewBezier samples ceil(nominal) points along the curve. A non-positive
// nominal length falls back to the control polygon length.
func NewBezier(points []osb.Vector2, nominal float64) *Bezier {
	mustPoints(points)
	if nominal <= 0 {
		nominal = polygonLength(points)
	}
	n := samplesFor(nominal)
	pts := make([]osb.Vector2, n+1)
	buf := make([]osb.Vector2, len(points))
	for i := 0; i <= n; i++ {
		pts[i] = bezierPoint(points, float64(i)/float64(n), buf)
	}
	pts[0], pts[n] = points[0], points[len(points)-1]
	return &Bezier{table: newTable(pts), Control: points}
}

// bezierPoint evaluates the curve at t by de Casteljau reduction in buf.
func bezierPoint(cp []osb.Vector2, t float64, buf []osb.Vector2) osb.Vector2 {
	copy(buf, cp)
	for r := len(cp) - 1; r > 0; r-- {
		for i := 0; i < r; i++ {
			buf[i] = buf[i].Lerp(buf[i+1], t)
		}
	}
	return buf[0]
}

// splitAnchors breaks a Bezier control list at repeated points (red
// anchors) into independent segments sharing their joining point.
func splitAnchors(pts []osb.Vector2) [][]osb.Vector2 {
	var segs [][]osb.Vector2
	cur := []osb.Vector2{pts[0]}
	for i := 1; i < len(pts); i++ {
		p := pts[i]
		if p == cur[len(cur)-1] {
			if len(cur) >= 2 {
				segs = append(segs, cur)
			}
			cur = []osb.Vector2{p}
			continue
		}
		cur = append(cur, p)
	}
	if len(cur) >= 2 {
		segs = append(segs, cur)
	}
	if len(segs) == 0 {
		segs = [][]osb.Vector2{{pts[0], pts[0]}}
	}
	return segs
}
