package curve

import (
	"errors"
	"math"
	"testing"

	"osbgen/osb"
)

const eps = 1e-6

func near(a, b osb.Vector2, tol float64) bool { return a.AlmostEqual(b, tol) }

func TestCurveEndpoints(t *testing.T) {
	pts := []osb.Vector2{osb.Vec(0, 0), osb.Vec(100, 200), osb.Vec(250, 50), osb.Vec(300, 300)}
	curves := map[string]Curve{
		"bezier":  NewBezier(pts, 0),
		"catmull": NewCatmull(pts, 0),
		"linear":  NewLinear(pts),
	}
	for name, c := range curves {
		if !near(c.PositionAtDistance(0), pts[0], eps) {
			t.Errorf("%s: start %v, want %v", name, c.PositionAtDistance(0), pts[0])
		}
		if !near(c.PositionAtDistance(c.Length()), pts[len(pts)-1], eps) {
			t.Errorf("%s: end %v, want %v", name, c.PositionAtDistance(c.Length()), pts[len(pts)-1])
		}
		if !near(c.PositionAtDelta(1), pts[len(pts)-1], eps) {
			t.Errorf("%s: delta 1 %v", name, c.PositionAtDelta(1))
		}
	}
}

func TestLinearExact(t *testing.T) {
	l := NewLinear([]osb.Vector2{osb.Vec(0, 0), osb.Vec(100, 0), osb.Vec(100, 50)})
	if l.Length() != 150 {
		t.Fatalf("expected length 150, got %f", l.Length())
	}
	if p := l.PositionAtDistance(125); !near(p, osb.Vec(100, 25), eps) {
		t.Errorf("unexpected position %v", p)
	}
	// past the end continues along the last segment
	if p := l.PositionAtDistance(170); !near(p, osb.Vec(100, 70), eps) {
		t.Errorf("unexpected extrapolation %v", p)
	}
	if p := l.PositionAtDistance(-5); p != osb.Vec(0, 0) {
		t.Errorf("negative distance not clamped: %v", p)
	}
}

func TestBezierStraightLine(t *testing.T) {
	b := NewBezier([]osb.Vector2{osb.Vec(0, 0), osb.Vec(50, 0), osb.Vec(100, 0)}, 100)
	if math.Abs(b.Length()-100) > eps {
		t.Fatalf("expected length 100, got %f", b.Length())
	}
	if p := b.PositionAtDelta(0.5); !near(p, osb.Vec(50, 0), eps) {
		t.Errorf("unexpected midpoint %v", p)
	}
	if len(b.Points()) != 101 {
		t.Errorf("expected ceil(100)+1 samples, got %d", len(b.Points()))
	}
}

func TestCircleArc(t *testing.T) {
	a, m, c := osb.Vec(100, 0), osb.Vec(0, 100), osb.Vec(-100, 0)
	arc, ok := NewCircle(a, m, c)
	if !ok {
		t.Fatalf("expected valid arc")
	}
	if !near(arc.Centre, osb.Vec(0, 0), eps) || math.Abs(arc.Radius-100) > eps {
		t.Fatalf("unexpected circle %v r=%f", arc.Centre, arc.Radius)
	}
	if math.Abs(arc.Length()-100*math.Pi) > 1 {
		t.Errorf("expected half circumference, got %f", arc.Length())
	}
	if p := arc.PositionAtDelta(0.5); !near(p, m, 0.5) {
		t.Errorf("arc midpoint %v does not pass through %v", p, m)
	}
	if !near(arc.PositionAtDistance(arc.Length()), c, eps) {
		t.Errorf("arc end %v", arc.PositionAtDistance(arc.Length()))
	}

	// same endpoints, mid on the other side: clockwise
	cw, ok := NewCircle(a, osb.Vec(0, -100), c)
	if !ok {
		t.Fatalf("expected valid arc")
	}
	if cw.EndAngle >= cw.StartAngle {
		t.Errorf("expected clockwise sweep, got %f -> %f", cw.StartAngle, cw.EndAngle)
	}
	if p := cw.PositionAtDelta(0.5); !near(p, osb.Vec(0, -100), 0.5) {
		t.Errorf("clockwise midpoint %v", p)
	}
}

func TestCircleMidBetweenWrappedAngles(t *testing.T) {
	// start just below the negative x axis, end just above it: the short
	// arc crosses the ±π seam.
	r := 50.0
	pt := func(deg float64) osb.Vector2 {
		rad := deg * math.Pi / 180
		return osb.Vec(r*math.Cos(rad), r*math.Sin(rad))
	}
	arc, ok := NewCircle(pt(-170), pt(180), pt(170))
	if !ok {
		t.Fatalf("expected valid arc")
	}
	want := r * 20 * math.Pi / 180
	if math.Abs(arc.Length()-want) > 0.5 {
		t.Errorf("expected short arc %f, got %f", want, arc.Length())
	}
	lo, hi := min(arc.StartAngle, arc.EndAngle), max(arc.StartAngle, arc.EndAngle)
	if mid := math.Pi; !(mid > lo && mid < hi) && !(mid-2*math.Pi > lo && mid-2*math.Pi < hi) {
		t.Errorf("mid angle outside sweep %f..%f", lo, hi)
	}
}

func TestCircleInvalid(t *testing.T) {
	if _, ok := NewCircle(osb.Vec(0, 0), osb.Vec(1, 1), osb.Vec(2, 2)); ok {
		t.Errorf("collinear points accepted")
	}
	if _, ok := NewCircle(osb.Vec(0, 0), osb.Vec(0, 0), osb.Vec(2, 5)); ok {
		t.Errorf("duplicate points accepted")
	}
}

func TestNewFallbacks(t *testing.T) {
	c, err := New(KindPerfect, []osb.Vector2{osb.Vec(0, 0), osb.Vec(50, 50), osb.Vec(100, 100)}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(*Bezier); !ok {
		t.Errorf("collinear perfect curve should fall back to Bezier, got %T", c)
	}
	c, err = New(KindPerfect, []osb.Vector2{osb.Vec(0, 0), osb.Vec(50, 50), osb.Vec(100, 0), osb.Vec(150, 50)}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(*Bezier); !ok {
		t.Errorf("four-point perfect curve should fall back to Bezier, got %T", c)
	}
	if _, err := New(KindBezier, nil, 0); !errors.Is(err, osb.ErrGeometry) {
		t.Errorf("expected geometry error, got %v", err)
	}
}

func TestCompositeBezier(t *testing.T) {
	pts := []osb.Vector2{osb.Vec(0, 0), osb.Vec(100, 0), osb.Vec(100, 0), osb.Vec(100, 100)}
	c, err := New(KindBezier, pts, 200)
	if err != nil {
		t.Fatal(err)
	}
	comp, ok := c.(*Composite)
	if !ok {
		t.Fatalf("expected composite, got %T", c)
	}
	if len(comp.Segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(comp.Segments))
	}
	sum := comp.Segments[0].Length() + comp.Segments[1].Length()
	if math.Abs(sum-comp.Length()) > eps || math.Abs(comp.Length()-200) > eps {
		t.Fatalf("unexpected lengths: sum %f composite %f", sum, comp.Length())
	}
	if p := comp.PositionAtDistance(150); !near(p, osb.Vec(100, 50), eps) {
		t.Errorf("unexpected position %v", p)
	}
	if !near(comp.PositionAtDistance(comp.Length()), osb.Vec(100, 100), eps) {
		t.Errorf("unexpected end %v", comp.PositionAtDistance(comp.Length()))
	}
}

func TestParseKind(t *testing.T) {
	for _, s := range []string{"B", "L", "C", "P"} {
		k, err := ParseKind(s)
		if err != nil || k.String() != s {
			t.Errorf("ParseKind(%q) = %v, %v", s, k, err)
		}
	}
	if _, err := ParseKind("X"); err == nil {
		t.Errorf("expected error for X")
	}
}

func TestSampleTablesBounded(t *testing.T) {
	pts := []osb.Vector2{osb.Vec(0, 0), osb.Vec(100, 0), osb.Vec(200, 50)}
	b := NewBezier(pts, 1e15)
	if n := len(b.Points()); n > maxSamples+1 {
		t.Errorf("bezier table has %d entries", n)
	}
	c := NewCatmull(pts, math.Inf(1))
	if n := len(c.Points()); n > maxSamples+len(pts) {
		t.Errorf("catmull table has %d entries", n)
	}
	arc, ok := NewCircle(osb.Vec(0, 0), osb.Vec(1e9, 1e9), osb.Vec(2e9, 0))
	if !ok {
		t.Fatal("expected a valid arc")
	}
	if n := len(arc.Points()); n > maxSamples+1 {
		t.Errorf("arc table has %d entries", n)
	}
	if got := b.PositionAtDistance(0); got != pts[0] {
		t.Errorf("bezier head = %v", got)
	}
}
