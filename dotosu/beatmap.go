// Package dotosu reads and writes .osu beatmap files.
package dotosu

import (
	"fmt"

	"osbgen/osb"
)

// FormatVersion is the only file format version the decoder accepts.
const FormatVersion = 14

type Beatmap struct {
	General      General
	Editor       Editor
	Metadata     Metadata
	Difficulty   Difficulty
	Events       Events
	TimingPoints []TimingPoint
	Colours      Colours
	HitObjects   []HitObject
}

type General struct {
	AudioFilename            string
	AudioLeadIn              int
	AudioHash                string
	PreviewTime              int
	Countdown                Countdown
	SampleSet                string
	StackLeniency            float64
	Mode                     Mode
	LetterboxInBreaks        bool
	StoryFireInFront         bool
	UseSkinSprites           bool
	AlwaysShowPlayfield      bool
	OverlayPosition          string
	SkinPreference           string
	EpilepsyWarning          bool
	CountdownOffset          int
	SpecialStyle             bool
	WidescreenStoryboard     bool
	SamplesMatchPlaybackRate bool
}

type Countdown int

const (
	CountdownNone Countdown = iota
	CountdownNormal
	CountdownHalf
	CountdownDouble
)

type Mode int

const (
	ModeOsu Mode = iota
	ModeTaiko
	ModeCatch
	ModeMania
)

type Editor struct {
	Bookmarks       []int
	DistanceSpacing float64
	BeatDivisor     int
	GridSize        int
	TimelineZoom    float64
}

type Metadata struct {
	Title, TitleUnicode     string
	Artist, ArtistUnicode   string
	Creator, Version        string
	Source, Tags            string
	BeatmapID, BeatmapSetID int
}

type Difficulty struct {
	HPDrainRate       float64
	CircleSize        float64
	OverallDifficulty float64
	ApproachRate      float64
	SliderMultiplier  float64
	SliderTickRate    float64
}

// CircleRadius is the hit circle radius in osu! pixels.
func (d Difficulty) CircleRadius() float64 { return 54.4 - 4.48*d.CircleSize }

// Preempt is how many milliseconds before its time a hit object appears.
func (d Difficulty) Preempt() float64 {
	ar := d.ApproachRate
	if ar < 5 {
		return 1200 + 120*(5-ar)
	}
	return 1200 - 150*(ar-5)
}

// HitWindows returns the +- timing windows for 300, 100 and 50 judgements.
func (d Difficulty) HitWindows() (w300, w100, w50 float64) {
	od := d.OverallDifficulty
	return 80 - 6*od, 140 - 8*od, 200 - 10*od
}

// Events keeps backgrounds, videos and breaks apart from the storyboard so
// the storyboard can be swapped out without losing them.
type Events struct {
	Backgrounds []*osb.Background
	Videos      []*osb.Video
	Breaks      []*osb.Break
	Storyboard  *osb.Container
}

// ComboColour is a ComboN entry; Index is N.
type ComboColour struct {
	Index  int
	Colour osb.Color3
}

type Colours struct {
	Combos              []ComboColour
	SliderTrackOverride *osb.Color3
	SliderBorder        *osb.Color3
}

// New returns a beatmap holding the defaults the game assumes for absent
// keys.
func New() *Beatmap {
	return &Beatmap{
		General: General{
			PreviewTime:      -1,
			Countdown:        CountdownNormal,
			SampleSet:        "Normal",
			StackLeniency:    0.7,
			StoryFireInFront: true,
			OverlayPosition:  "NoChange",
		},
		Editor: Editor{
			DistanceSpacing: 1,
			BeatDivisor:     4,
			GridSize:        4,
			TimelineZoom:    1,
		},
		Difficulty: Difficulty{
			HPDrainRate:       5,
			CircleSize:        5,
			OverallDifficulty: 5,
			ApproachRate:      5,
			SliderMultiplier:  1.4,
			SliderTickRate:    1,
		},
	}
}

// ReplaceEvents swaps the storyboard for c. Backgrounds, videos and breaks
// stay ahead of the new storyboard's events.
func (b *Beatmap) ReplaceEvents(c *osb.Container) error {
	if c != nil && c.Parent() != nil {
		return fmt.Errorf("%w: cannot use a nested container as beatmap events", osb.ErrState)
	}
	b.Events.Storyboard = c
	return nil
}

// Sliders returns the slider hit objects in file order.
func (b *Beatmap) Sliders() []*Slider {
	var out []*Slider
	for _, h := range b.HitObjects {
		if s, ok := h.(*Slider); ok {
			out = append(out, s)
		}
	}
	return out
}
