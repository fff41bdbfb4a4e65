package osb

import (
	"math"
	"strconv"
	"strings"
)

// Vector2 is an immutable 2D point or offset.
type Vector2 struct{ X, Y float64 }

func Vec(x, y float64) Vector2 { return Vector2{X: x, Y: y} }

func (v Vector2) Add(o Vector2) Vector2      { return Vector2{v.X + o.X, v.Y + o.Y} }
func (v Vector2) Sub(o Vector2) Vector2      { return Vector2{v.X - o.X, v.Y - o.Y} }
func (v Vector2) Scale(s float64) Vector2    { return Vector2{v.X * s, v.Y * s} }
func (v Vector2) Mul(o Vector2) Vector2      { return Vector2{v.X * o.X, v.Y * o.Y} }
func (v Vector2) Dot(o Vector2) float64      { return v.X*o.X + v.Y*o.Y }
func (v Vector2) Cross(o Vector2) float64    { return v.X*o.Y - v.Y*o.X }
func (v Vector2) Length() float64            { return math.Hypot(v.X, v.Y) }
func (v Vector2) LengthSq() float64          { return v.X*v.X + v.Y*v.Y }
func (v Vector2) Distance(o Vector2) float64 { return math.Hypot(v.X-o.X, v.Y-o.Y) }

// Lerp returns the point a fraction t of the way from v to o.
func (v Vector2) Lerp(o Vector2, t float64) Vector2 {
	return Vector2{v.X + (o.X-v.X)*t, v.Y + (o.Y-v.Y)*t}
}

// Div divides both components by s. Dividing by zero is an error.
func (v Vector2) Div(s float64) (Vector2, error) {
	if s == 0 {
		return Vector2{}, geometryErrorf("division of %s by zero", v)
	}
	return Vector2{v.X / s, v.Y / s}, nil
}

// Angle is the direction of v in radians. The zero vector has no angle.
func (v Vector2) Angle() (float64, error) {
	if v.X == 0 && v.Y == 0 {
		return 0, geometryErrorf("angle of zero vector")
	}
	return math.Atan2(v.Y, v.X), nil
}

func (v Vector2) Normalize() (Vector2, error) {
	return v.Div(v.Length())
}

// Rotate turns v around the origin by rad radians.
func (v Vector2) Rotate(rad float64) Vector2 {
	s, c := math.Sincos(rad)
	return Vector2{v.X*c - v.Y*s, v.X*s + v.Y*c}
}

func (v Vector2) Equal(o Vector2) bool { return v.X == o.X && v.Y == o.Y }

// AlmostEqual compares componentwise within eps.
func (v Vector2) AlmostEqual(o Vector2, eps float64) bool {
	return math.Abs(v.X-o.X) <= eps && math.Abs(v.Y-o.Y) <= eps
}

func (v Vector2) String() string {
	return formatFloat(v.X) + "," + formatFloat(v.Y)
}

// ParseVector2 reads "x,y".
func ParseVector2(s string) (Vector2, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return Vector2{}, strconv.ErrSyntax
	}
	x, err := parseFloat(xs)
	if err != nil {
		return Vector2{}, err
	}
	y, err := parseFloat(ys)
	if err != nil {
		return Vector2{}, err
	}
	return Vector2{x, y}, nil
}

func formatFloat(f float64) string {
	if f == 0 {
		return "0"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, strconv.ErrRange
	}
	return v, nil
}
