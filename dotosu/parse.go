package dotosu

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"osbgen/osb"
)

const (
	versionMarker = "osu file format v"
	maxManiaKeys  = 18
)

type section int

const (
	secNone section = iota
	secGeneral
	secEditor
	secMetadata
	secDifficulty
	secEvents
	secTimingPoints
	secColours
	secHitObjects
)

var sectionNames = map[string]section{
	"[General]":      secGeneral,
	"[Editor]":       secEditor,
	"[Metadata]":     secMetadata,
	"[Difficulty]":   secDifficulty,
	"[Events]":       secEvents,
	"[TimingPoints]": secTimingPoints,
	"[Colours]":      secColours,
	"[HitObjects]":   secHitObjects,
}

func DecodeFile(path string) (*Beatmap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	b, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// Parse decodes beatmap text.
func Parse(text string) (*Beatmap, error) {
	return Decode(strings.NewReader(text))
}

// Decode reads a v14 .osu file. Every malformed line, unknown section or
// unknown key fails with an *osb.FormatError.
func Decode(r io.Reader) (*Beatmap, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	d := &decoder{b: New(), events: osb.NewDecoder()}
	n := 0
	for sc.Scan() {
		n++
		raw := strings.TrimSuffix(sc.Text(), "\r")
		if n == 1 {
			raw = strings.TrimPrefix(raw, "\ufeff")
		}
		if err := d.decodeLine(n, raw); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if !d.versionSeen {
		return nil, &osb.FormatError{Line: n, Err: fmt.Errorf("missing %q marker", versionMarker)}
	}
	d.finishEvents()
	return d.b, nil
}

type decoder struct {
	b           *Beatmap
	sec         section
	versionSeen bool
	events      *osb.Decoder
}

func (d *decoder) decodeLine(n int, raw string) error {
	if !d.versionSeen {
		v := strings.TrimSpace(raw)
		if v == "" {
			return nil
		}
		num, ok := strings.CutPrefix(v, versionMarker)
		if !ok {
			return osb.Formatf(n, raw, "missing %q marker", versionMarker)
		}
		version, err := strconv.Atoi(num)
		if err != nil {
			return osb.Formatf(n, raw, "invalid format version %q", num)
		}
		if version != FormatVersion {
			return osb.Formatf(n, raw, "unsupported format version %d", version)
		}
		d.versionSeen = true
		return nil
	}

	if d.sec == secEvents {
		if h := strings.TrimSpace(raw); isSectionHeader(h) {
			return d.header(n, raw, h)
		}
		return d.events.DecodeLine(n, raw)
	}

	line := raw
	if d.sec != secMetadata {
		line = osb.StripComment(line)
	}
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "//") {
		return nil
	}
	if isSectionHeader(line) {
		return d.header(n, raw, line)
	}

	var err error
	switch d.sec {
	case secNone:
		err = fmt.Errorf("content outside of a section")
	case secGeneral:
		err = d.keyValue(line, d.general)
	case secEditor:
		err = d.keyValue(line, d.editor)
	case secMetadata:
		err = d.keyValue(line, d.metadata)
	case secDifficulty:
		err = d.keyValue(line, d.difficulty)
	case secColours:
		err = d.keyValue(line, d.colours)
	case secTimingPoints:
		var tp TimingPoint
		if tp, err = ParseTimingPoint(line); err == nil {
			d.b.TimingPoints = append(d.b.TimingPoints, tp)
		}
	case secHitObjects:
		var h HitObject
		if h, err = ParseHitObject(line); err == nil {
			d.b.HitObjects = append(d.b.HitObjects, h)
		}
	}
	if err != nil {
		return &osb.FormatError{Line: n, Text: raw, Err: err}
	}
	return nil
}

func isSectionHeader(s string) bool {
	return strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]")
}

func (d *decoder) header(n int, raw, name string) error {
	sec, ok := sectionNames[name]
	if !ok {
		return osb.Formatf(n, raw, "unknown section %s", name)
	}
	d.sec = sec
	return nil
}

// finishEvents moves backgrounds, videos and breaks out of the decoded
// event list. What remains is the storyboard.
func (d *decoder) finishEvents() {
	ev := &d.b.Events
	var rest []osb.Component
	for _, c := range d.events.Container().Children() {
		switch e := c.(type) {
		case *osb.Background:
			ev.Backgrounds = append(ev.Backgrounds, e)
		case *osb.Video:
			ev.Videos = append(ev.Videos, e)
		case *osb.Break:
			ev.Breaks = append(ev.Breaks, e)
		default:
			rest = append(rest, e)
		}
	}
	if len(rest) > 0 {
		// decoded elements are never containers, so Add cannot fail
		ev.Storyboard, _ = osb.NewContainer(rest...)
	}
}

func (d *decoder) keyValue(line string, set func(key, val string) error) error {
	key, val, ok := strings.Cut(line, ":")
	if !ok {
		return fmt.Errorf("want key:value")
	}
	key, val = strings.TrimSpace(key), strings.TrimSpace(val)
	if err := set(key, val); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return nil
}

func unknownKey(sec string) error { return fmt.Errorf("unknown key in [%s]", sec) }

func (d *decoder) general(key, val string) error {
	g := &d.b.General
	var err error
	switch key {
	case "AudioFilename":
		g.AudioFilename = val
	case "AudioLeadIn":
		g.AudioLeadIn, err = parseInt(val)
	case "AudioHash":
		g.AudioHash = val
	case "PreviewTime":
		g.PreviewTime, err = parseInt(val)
	case "Countdown":
		var v int
		if v, err = parseRange(val, 0, 3); err == nil {
			g.Countdown = Countdown(v)
		}
	case "SampleSet":
		switch val {
		case "Normal", "Soft", "Drum":
			g.SampleSet = val
		default:
			err = fmt.Errorf("invalid sample set %q", val)
		}
	case "StackLeniency":
		g.StackLeniency, err = parseFloatRange(val, 0, 1)
	case "Mode":
		var v int
		if v, err = parseRange(val, 0, 3); err == nil {
			g.Mode = Mode(v)
		}
	case "LetterboxInBreaks":
		g.LetterboxInBreaks, err = parseBool(val)
	case "StoryFireInFront":
		g.StoryFireInFront, err = parseBool(val)
	case "UseSkinSprites":
		g.UseSkinSprites, err = parseBool(val)
	case "AlwaysShowPlayfield":
		g.AlwaysShowPlayfield, err = parseBool(val)
	case "OverlayPosition":
		switch val {
		case "NoChange", "Below", "Above":
			g.OverlayPosition = val
		default:
			err = fmt.Errorf("invalid overlay position %q", val)
		}
	case "SkinPreference":
		g.SkinPreference = val
	case "EpilepsyWarning":
		g.EpilepsyWarning, err = parseBool(val)
	case "CountdownOffset":
		g.CountdownOffset, err = parseInt(val)
	case "SpecialStyle":
		g.SpecialStyle, err = parseBool(val)
	case "WidescreenStoryboard":
		g.WidescreenStoryboard, err = parseBool(val)
	case "SamplesMatchPlaybackRate":
		g.SamplesMatchPlaybackRate, err = parseBool(val)
	default:
		err = unknownKey("General")
	}
	return err
}

func (d *decoder) editor(key, val string) error {
	e := &d.b.Editor
	var err error
	switch key {
	case "Bookmarks":
		e.Bookmarks = nil
		if val == "" {
			return nil
		}
		for _, p := range strings.Split(val, ",") {
			v, err := parseInt(p)
			if err != nil {
				return err
			}
			e.Bookmarks = append(e.Bookmarks, v)
		}
	case "DistanceSpacing":
		e.DistanceSpacing, err = parseFloatRange(val, 0, math.MaxFloat64)
	case "BeatDivisor":
		e.BeatDivisor, err = parseRange(val, 1, 16)
	case "GridSize":
		e.GridSize, err = parseRange(val, 1, 32)
	case "TimelineZoom":
		e.TimelineZoom, err = parseFloatRange(val, 0, math.MaxFloat64)
	default:
		err = unknownKey("Editor")
	}
	return err
}

func (d *decoder) metadata(key, val string) error {
	m := &d.b.Metadata
	var err error
	switch key {
	case "Title":
		m.Title = val
	case "TitleUnicode":
		m.TitleUnicode = val
	case "Artist":
		m.Artist = val
	case "ArtistUnicode":
		m.ArtistUnicode = val
	case "Creator":
		m.Creator = val
	case "Version":
		m.Version = val
	case "Source":
		m.Source = val
	case "Tags":
		m.Tags = val
	case "BeatmapID":
		m.BeatmapID, err = parseInt(val)
	case "BeatmapSetID":
		m.BeatmapSetID, err = parseInt(val)
	default:
		err = unknownKey("Metadata")
	}
	return err
}

func (d *decoder) difficulty(key, val string) error {
	diff := &d.b.Difficulty
	var err error
	switch key {
	case "HPDrainRate":
		diff.HPDrainRate, err = parseFloatRange(val, 0, 10)
	case "CircleSize":
		maxCS := 10.0
		if d.b.General.Mode == ModeMania {
			maxCS = maxManiaKeys
		}
		diff.CircleSize, err = parseFloatRange(val, 0, maxCS)
	case "OverallDifficulty":
		diff.OverallDifficulty, err = parseFloatRange(val, 0, 10)
	case "ApproachRate":
		diff.ApproachRate, err = parseFloatRange(val, 0, 10)
	case "SliderMultiplier":
		diff.SliderMultiplier, err = parseFloatRange(val, 0.4, 3.6)
	case "SliderTickRate":
		diff.SliderTickRate, err = parseFloatRange(val, 0.5, 8)
	default:
		err = unknownKey("Difficulty")
	}
	return err
}

func (d *decoder) colours(key, val string) error {
	c := &d.b.Colours
	col, err := osb.ParseColor3(val)
	if err != nil {
		return err
	}
	switch key {
	case "SliderTrackOverride":
		c.SliderTrackOverride = &col
	case "SliderBorder":
		c.SliderBorder = &col
	default:
		idx, ok := strings.CutPrefix(key, "Combo")
		if !ok {
			return unknownKey("Colours")
		}
		i, err := strconv.Atoi(idx)
		if err != nil || i < 1 {
			return unknownKey("Colours")
		}
		c.Combos = append(c.Combos, ComboColour{Index: i, Colour: col})
	}
	return nil
}

func parseInt(s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", s)
	}
	return v, nil
}

func parseRange(s string, lo, hi int) (int, error) {
	v, err := parseInt(s)
	if err != nil {
		return 0, err
	}
	if v < lo || v > hi {
		return 0, fmt.Errorf("%d outside [%d,%d]", v, lo, hi)
	}
	return v, nil
}

func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return v, nil
}

func parseFloatRange(s string, lo, hi float64) (float64, error) {
	v, err := parseFloat(s)
	if err != nil {
		return 0, err
	}
	if v < lo || v > hi {
		return 0, fmt.Errorf("%v outside [%v,%v]", v, lo, hi)
	}
	return v, nil
}

// parseTime reads a millisecond time; fractional values are truncated.
func parseTime(s string) (int, error) {
	if v, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		return v, nil
	}
	v, err := parseFloat(s)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

func parseBool(s string) (bool, error) {
	switch strings.TrimSpace(s) {
	case "0":
		return false, nil
	case "1":
		return true, nil
	}
	return false, fmt.Errorf("want 0 or 1, got %q", s)
}

func formatFloat(f float64) string {
	if f == 0 {
		return "0"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
