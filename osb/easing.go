package osb

import (
	"fmt"
	"strconv"
)

// Easing selects the interpolation curve between a command's start and end
// values. It round-trips by integer code only.
type Easing int

const (
	Linear Easing = iota
	EasingOut
	EasingIn
	QuadIn
	QuadOut
	QuadInOut
	CubicIn
	CubicOut
	CubicInOut
	QuartIn
	QuartOut
	QuartInOut
	QuintIn
	QuintOut
	QuintInOut
	SineIn
	SineOut
	SineInOut
	ExpoIn
	ExpoOut
	ExpoInOut
	CircIn
	CircOut
	CircInOut
	ElasticIn
	ElasticOut
	ElasticHalfOut
	ElasticQuarterOut
	ElasticInOut
	BackIn
	BackOut
	BackInOut
	BounceIn
	BounceOut
	BounceInOut

	easingCount
)

var easingNames = [easingCount]string{
	"Linear", "EasingOut", "EasingIn",
	"QuadIn", "QuadOut", "QuadInOut",
	"CubicIn", "CubicOut", "CubicInOut",
	"QuartIn", "QuartOut", "QuartInOut",
	"QuintIn", "QuintOut", "QuintInOut",
	"SineIn", "SineOut", "SineInOut",
	"ExpoIn", "ExpoOut", "ExpoInOut",
	"CircIn", "CircOut", "CircInOut",
	"ElasticIn", "ElasticOut", "ElasticHalfOut", "ElasticQuarterOut", "ElasticInOut",
	"BackIn", "BackOut", "BackInOut",
	"BounceIn", "BounceOut", "BounceInOut",
}

func (e Easing) Valid() bool { return e >= 0 && e < easingCount }

// Name is the human-readable name. It is never written to a file.
func (e Easing) Name() string {
	if !e.Valid() {
		return fmt.Sprintf("Easing(%d)", int(e))
	}
	return easingNames[e]
}

func (e Easing) String() string { return strconv.Itoa(int(e)) }

func parseEasing(s string) (Easing, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("easing %q: %w", s, err)
	}
	e := Easing(v)
	if !e.Valid() {
		return 0, fmt.Errorf("easing %d out of range [0,%d]", v, easingCount-1)
	}
	return e, nil
}
