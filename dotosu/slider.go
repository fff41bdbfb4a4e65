package dotosu

import (
	"errors"
	"fmt"
	"math"

	"osbgen/curve"
	"osbgen/osb"
)

var ErrNoTiming = errors.New("no uninherited timing point")

// StoryboardOffset maps playfield coordinates to storyboard coordinates:
// the 512x384 playfield is centred horizontally in the 640x480 storyboard
// and sits 16 pixels above vertical centre.
var StoryboardOffset = osb.Vec((640-512)/2, (480-384)*0.75-16)

// TimingContext is what slider resolution needs from a beatmap.
type TimingContext struct {
	Points           []TimingPoint
	SliderMultiplier float64
}

func (b *Beatmap) Timing() TimingContext {
	return TimingContext{Points: b.TimingPoints, SliderMultiplier: b.Difficulty.SliderMultiplier}
}

// ResolvedSlider is a slider with its curve built and its timing fixed.
type ResolvedSlider struct {
	*Slider
	Curve curve.Curve
	// BeatLength is the governing uninherited beat length in milliseconds.
	BeatLength float64
	// Velocity is the inherited slider velocity multiplier, 1 when none
	// applies.
	Velocity float64
	// Travel is the duration of one pass along the path in milliseconds.
	Travel int
}

// ResolveSlider builds the curve of s and derives its pass duration from
// the timing points in effect at its start time.
func ResolveSlider(s *Slider, tc TimingContext) (*ResolvedSlider, error) {
	red, green := TimingAt(tc.Points, float64(s.Time))
	if red == nil {
		return nil, ErrNoTiming
	}
	if tc.SliderMultiplier <= 0 {
		return nil, fmt.Errorf("slider multiplier %v must be positive", tc.SliderMultiplier)
	}
	c, err := curve.New(s.Path.Kind, s.ControlPoints(), s.Length)
	if err != nil {
		return nil, fmt.Errorf("slider at %d: %w", s.Time, err)
	}
	r := &ResolvedSlider{
		Slider:     s,
		Curve:      c,
		BeatLength: red.BeatLength,
		Velocity:   1,
	}
	if green != nil {
		r.Velocity = green.SpeedMultiplier()
	}
	r.Travel = int(math.Round(r.BeatLength * (s.Length / (tc.SliderMultiplier * r.Velocity)) / 100))
	return r, nil
}

// ResolveSliders resolves every slider of the beatmap in file order.
func (b *Beatmap) ResolveSliders() ([]*ResolvedSlider, error) {
	tc := b.Timing()
	var out []*ResolvedSlider
	for _, s := range b.Sliders() {
		r, err := ResolveSlider(s, tc)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// Duration is the total active time over all slides.
func (r *ResolvedSlider) Duration() int { return r.Travel * r.Slides }

func (r *ResolvedSlider) EndTime() int { return r.Time + r.Duration() }

// PositionAtTime returns the playfield position of the slider ball at time
// t in milliseconds. Odd passes run backwards. Times before the start give
// the head; times after the end give the final position.
func (r *ResolvedSlider) PositionAtTime(t float64) osb.Vector2 {
	elapsed := t - float64(r.Time)
	if elapsed <= 0 || r.Travel <= 0 {
		return r.Curve.PositionAtDistance(0)
	}
	passes := elapsed / float64(r.Travel)
	leg := int(passes)
	progress := passes - float64(leg)
	if leg >= r.Slides {
		leg, progress = r.Slides-1, 1
	}
	if leg%2 == 1 {
		progress = 1 - progress
	}
	return r.Curve.PositionAtDistance(progress * r.Length)
}

// StoryboardPositionAtTime is PositionAtTime in storyboard coordinates.
func (r *ResolvedSlider) StoryboardPositionAtTime(t float64) osb.Vector2 {
	return r.PositionAtTime(t).Add(StoryboardOffset)
}
