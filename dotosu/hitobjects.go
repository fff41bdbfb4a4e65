package dotosu

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"

	"osbgen/curve"
	"osbgen/osb"
)

// Type is the hit object type bitfield.
type Type int

const (
	TypeCircle   Type = 1 << 0
	TypeSlider   Type = 1 << 1
	TypeNewCombo Type = 1 << 2
	TypeSpinner  Type = 1 << 3
	TypeHold     Type = 1 << 7

	typeComboSkip = 0b111 << 4
	typeKinds     = TypeCircle | TypeSlider | TypeSpinner | TypeHold
)

func (t Type) NewCombo() bool { return t&TypeNewCombo != 0 }

// ComboSkip is the number of combo colours skipped at a new combo.
func (t Type) ComboSkip() int { return int(t&typeComboSkip) >> 4 }

type HitSound int

const (
	HitSoundNormal  HitSound = 1 << 0
	HitSoundWhistle HitSound = 1 << 1
	HitSoundFinish  HitSound = 1 << 2
	HitSoundClap    HitSound = 1 << 3
)

// HitSample is the trailing "normalSet:additionSet:index:volume:filename"
// field of a hit object.
type HitSample struct {
	NormalSet   SampleSet
	AdditionSet SampleSet
	Index       int
	Volume      int
	Filename    string
}

func (s HitSample) String() string {
	return fmt.Sprintf("%d:%d:%d:%d:%s", s.NormalSet, s.AdditionSet, s.Index, s.Volume, s.Filename)
}

func parseHitSample(s string) (*HitSample, error) {
	f := strings.SplitN(s, ":", 5)
	if len(f) < 4 {
		return nil, fmt.Errorf("hit sample %q: want 4 or 5 fields", s)
	}
	var (
		hs  HitSample
		err error
	)
	if hs.NormalSet, err = parseSampleSet(f[0]); err != nil {
		return nil, err
	}
	if hs.AdditionSet, err = parseSampleSet(f[1]); err != nil {
		return nil, err
	}
	if hs.Index, err = parseInt(f[2]); err != nil {
		return nil, fmt.Errorf("hit sample index: %w", err)
	}
	if hs.Volume, err = parseInt(f[3]); err != nil {
		return nil, fmt.Errorf("hit sample volume: %w", err)
	}
	if hs.Volume < 0 || hs.Volume > 100 {
		return nil, fmt.Errorf("hit sample volume %d outside [0,100]", hs.Volume)
	}
	if len(f) == 5 {
		hs.Filename = f[4]
	}
	return &hs, nil
}

// HitObject is one line of [HitObjects]: *Circle, *Slider, *Spinner or
// *Hold.
type HitObject interface {
	Common() *Hit
	String() string
}

// Hit holds the fields every hit object shares.
type Hit struct {
	Position osb.Vector2
	Time     int
	Type     Type
	HitSound HitSound
	Sample   *HitSample
}

func (h *Hit) Common() *Hit { return h }

func (h *Hit) prefix() string {
	return formatFloat(h.Position.X) + "," + formatFloat(h.Position.Y) + "," +
		strconv.Itoa(h.Time) + "," + strconv.Itoa(int(h.Type)) + "," + strconv.Itoa(int(h.HitSound))
}

func (h *Hit) sampleSuffix() string {
	if h.Sample == nil {
		return ""
	}
	return "," + h.Sample.String()
}

type Circle struct{ Hit }

func (c *Circle) String() string { return c.prefix() + c.sampleSuffix() }

// SliderPath is the curve type and the control points after the head.
type SliderPath struct {
	Kind   curve.Kind
	Points []osb.Vector2
}

func (p SliderPath) String() string {
	var b strings.Builder
	b.WriteString(p.Kind.String())
	for _, pt := range p.Points {
		b.WriteByte('|')
		b.WriteString(formatFloat(pt.X))
		b.WriteByte(':')
		b.WriteString(formatFloat(pt.Y))
	}
	return b.String()
}

func parseSliderPath(s string) (SliderPath, error) {
	f := strings.Split(s, "|")
	kind, err := curve.ParseKind(f[0])
	if err != nil {
		return SliderPath{}, err
	}
	if len(f) < 2 {
		return SliderPath{}, fmt.Errorf("slider path %q has no control points", s)
	}
	p := SliderPath{Kind: kind, Points: make([]osb.Vector2, 0, len(f)-1)}
	for _, tok := range f[1:] {
		xs, ys, ok := strings.Cut(tok, ":")
		if !ok {
			return SliderPath{}, fmt.Errorf("invalid control point %q", tok)
		}
		x, err := parseFloat(xs)
		if err != nil {
			return SliderPath{}, fmt.Errorf("invalid control point %q", tok)
		}
		y, err := parseFloat(ys)
		if err != nil {
			return SliderPath{}, fmt.Errorf("invalid control point %q", tok)
		}
		p.Points = append(p.Points, osb.Vec(x, y))
	}
	return p, nil
}

// EdgeSet is the normal and addition sample set of one slider edge.
type EdgeSet struct {
	NormalSet   SampleSet
	AdditionSet SampleSet
}

// Slider is the raw slider data. ResolveSlider combines it with timing to
// build its curve and duration.
type Slider struct {
	Hit
	Path   SliderPath
	Slides int
	Length float64
	// EdgeSounds and EdgeSets are nil when the line omits them.
	EdgeSounds []HitSound
	EdgeSets   []EdgeSet
}

// ControlPoints returns the full point list, head first.
func (s *Slider) ControlPoints() []osb.Vector2 {
	return append([]osb.Vector2{s.Position}, s.Path.Points...)
}

func (s *Slider) String() string {
	var b strings.Builder
	b.WriteString(s.prefix())
	b.WriteByte(',')
	b.WriteString(s.Path.String())
	b.WriteByte(',')
	b.WriteString(strconv.Itoa(s.Slides))
	b.WriteByte(',')
	b.WriteString(formatFloat(s.Length))
	if s.EdgeSounds == nil && s.EdgeSets == nil && s.Sample == nil {
		return b.String()
	}
	sounds, sets := s.EdgeSounds, s.EdgeSets
	if sounds == nil {
		sounds = make([]HitSound, s.Slides+1)
	}
	if sets == nil {
		sets = make([]EdgeSet, s.Slides+1)
	}
	b.WriteByte(',')
	for i, h := range sounds {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(strconv.Itoa(int(h)))
	}
	b.WriteByte(',')
	for i, e := range sets {
		if i > 0 {
			b.WriteByte('|')
		}
		fmt.Fprintf(&b, "%d:%d", e.NormalSet, e.AdditionSet)
	}
	b.WriteString(s.sampleSuffix())
	return b.String()
}

type Spinner struct {
	Hit
	EndTime int
}

func (s *Spinner) String() string {
	return s.prefix() + "," + strconv.Itoa(s.EndTime) + s.sampleSuffix()
}

// Hold is a mania hold note. Its end time shares a field with the hit
// sample.
type Hold struct {
	Hit
	EndTime int
}

func (h *Hold) String() string {
	s := h.prefix() + "," + strconv.Itoa(h.EndTime)
	if h.Sample != nil {
		s += ":" + h.Sample.String()
	}
	return s
}

// ParseHitObject reads a [HitObjects] line. Exactly one of the circle,
// slider, spinner and hold type bits must be set.
func ParseHitObject(line string) (HitObject, error) {
	f := strings.Split(line, ",")
	if len(f) < 5 {
		return nil, fmt.Errorf("hit object: want at least 5 fields, got %d", len(f))
	}
	var (
		h   Hit
		err error
	)
	if h.Position.X, err = parseFloat(f[0]); err != nil {
		return nil, fmt.Errorf("hit object x: %w", err)
	}
	if h.Position.Y, err = parseFloat(f[1]); err != nil {
		return nil, fmt.Errorf("hit object y: %w", err)
	}
	if h.Time, err = parseTime(f[2]); err != nil {
		return nil, fmt.Errorf("hit object time: %w", err)
	}
	t, err := parseInt(f[3])
	if err != nil || t < 0 {
		return nil, fmt.Errorf("invalid hit object type %q", f[3])
	}
	h.Type = Type(t)
	hs, err := parseInt(f[4])
	if err != nil || hs < 0 {
		return nil, fmt.Errorf("invalid hit sound %q", f[4])
	}
	h.HitSound = HitSound(hs)

	kinds := h.Type & typeKinds
	if bits.OnesCount(uint(kinds)) != 1 {
		return nil, fmt.Errorf("hit object type %d must set exactly one of the circle, slider, spinner and hold bits", t)
	}
	switch kinds {
	case TypeCircle:
		return parseCircle(h, f[5:])
	case TypeSlider:
		return parseSlider(h, f[5:])
	case TypeSpinner:
		return parseSpinner(h, f[5:])
	default:
		return parseHold(h, f[5:])
	}
}

func parseCircle(h Hit, rest []string) (*Circle, error) {
	switch len(rest) {
	case 0:
	case 1:
		s, err := parseHitSample(rest[0])
		if err != nil {
			return nil, err
		}
		h.Sample = s
	default:
		return nil, fmt.Errorf("circle: want 5 or 6 fields, got %d", len(rest)+5)
	}
	return &Circle{Hit: h}, nil
}

func parseSlider(h Hit, rest []string) (*Slider, error) {
	if len(rest) != 3 && len(rest) != 5 && len(rest) != 6 {
		return nil, fmt.Errorf("slider: want 8, 10 or 11 fields, got %d", len(rest)+5)
	}
	s := &Slider{Hit: h}
	var err error
	if s.Path, err = parseSliderPath(rest[0]); err != nil {
		return nil, err
	}
	if s.Slides, err = parseInt(rest[1]); err != nil || s.Slides < 1 {
		return nil, fmt.Errorf("invalid slide count %q", rest[1])
	}
	if s.Length, err = parseFloat(rest[2]); err != nil || s.Length < 0 {
		return nil, fmt.Errorf("invalid slider length %q", rest[2])
	}
	if len(rest) == 3 {
		return s, nil
	}

	for _, tok := range strings.Split(rest[3], "|") {
		v, err := parseInt(tok)
		if err != nil || v < 0 {
			return nil, fmt.Errorf("invalid edge sound %q", tok)
		}
		s.EdgeSounds = append(s.EdgeSounds, HitSound(v))
	}
	for _, tok := range strings.Split(rest[4], "|") {
		ns, as, ok := strings.Cut(tok, ":")
		if !ok {
			return nil, fmt.Errorf("invalid edge set %q", tok)
		}
		var e EdgeSet
		if e.NormalSet, err = parseSampleSet(ns); err != nil {
			return nil, err
		}
		if e.AdditionSet, err = parseSampleSet(as); err != nil {
			return nil, err
		}
		s.EdgeSets = append(s.EdgeSets, e)
	}
	if len(s.EdgeSounds) != s.Slides+1 || len(s.EdgeSets) != s.Slides+1 {
		return nil, fmt.Errorf("slider with %d slides needs %d edge sounds and sets, got %d and %d",
			s.Slides, s.Slides+1, len(s.EdgeSounds), len(s.EdgeSets))
	}
	if len(rest) == 6 {
		if s.Sample, err = parseHitSample(rest[5]); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func parseSpinner(h Hit, rest []string) (*Spinner, error) {
	if len(rest) != 1 && len(rest) != 2 {
		return nil, fmt.Errorf("spinner: want 6 or 7 fields, got %d", len(rest)+5)
	}
	end, err := parseTime(rest[0])
	if err != nil || end < h.Time {
		return nil, fmt.Errorf("invalid spinner end time %q", rest[0])
	}
	if len(rest) == 2 {
		if h.Sample, err = parseHitSample(rest[1]); err != nil {
			return nil, err
		}
	}
	return &Spinner{Hit: h, EndTime: end}, nil
}

func parseHold(h Hit, rest []string) (*Hold, error) {
	if len(rest) != 1 {
		return nil, fmt.Errorf("hold: want 6 fields, got %d", len(rest)+5)
	}
	endField, sample, hasSample := strings.Cut(rest[0], ":")
	end, err := parseTime(endField)
	if err != nil || end < h.Time {
		return nil, fmt.Errorf("invalid hold end time %q", endField)
	}
	if hasSample {
		if h.Sample, err = parseHitSample(sample); err != nil {
			return nil, err
		}
	}
	return &Hold{Hit: h, EndTime: end}, nil
}
