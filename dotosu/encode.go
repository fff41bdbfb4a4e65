package dotosu

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"osbgen/osb"
)

// String renders the beatmap as a v14 .osu file.
func (b *Beatmap) String() string {
	var w strings.Builder
	w.WriteString("osu file format v" + strconv.Itoa(FormatVersion) + "\n")
	b.writeGeneral(&w)
	b.writeEditor(&w)
	b.writeMetadata(&w)
	b.writeDifficulty(&w)
	b.writeEvents(&w)
	b.writeTimingPoints(&w)
	b.writeColours(&w)
	b.writeHitObjects(&w)
	return w.String()
}

func (b *Beatmap) Encode(w io.Writer) error {
	_, err := io.WriteString(w, b.String())
	return err
}

func sectionHeader(w *strings.Builder, name string) {
	w.WriteString("\n[" + name + "]\n")
}

func keyValue(w *strings.Builder, sep, key, val string) {
	w.WriteString(key + sep + val + "\n")
}

func boolString(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

// writeGeneral always writes the keys the editor always writes, and the
// rest only when they differ from the defaults.
func (b *Beatmap) writeGeneral(w *strings.Builder) {
	g := &b.General
	sectionHeader(w, "General")
	kv := func(k, v string) { keyValue(w, ": ", k, v) }
	kv("AudioFilename", g.AudioFilename)
	kv("AudioLeadIn", strconv.Itoa(g.AudioLeadIn))
	if g.AudioHash != "" {
		kv("AudioHash", g.AudioHash)
	}
	kv("PreviewTime", strconv.Itoa(g.PreviewTime))
	kv("Countdown", strconv.Itoa(int(g.Countdown)))
	kv("SampleSet", g.SampleSet)
	kv("StackLeniency", formatFloat(g.StackLeniency))
	kv("Mode", strconv.Itoa(int(g.Mode)))
	kv("LetterboxInBreaks", boolString(g.LetterboxInBreaks))
	if !g.StoryFireInFront {
		kv("StoryFireInFront", "0")
	}
	if g.UseSkinSprites {
		kv("UseSkinSprites", "1")
	}
	if g.AlwaysShowPlayfield {
		kv("AlwaysShowPlayfield", "1")
	}
	if g.OverlayPosition != "" && g.OverlayPosition != "NoChange" {
		kv("OverlayPosition", g.OverlayPosition)
	}
	if g.SkinPreference != "" {
		kv("SkinPreference", g.SkinPreference)
	}
	if g.EpilepsyWarning {
		kv("EpilepsyWarning", "1")
	}
	if g.CountdownOffset != 0 {
		kv("CountdownOffset", strconv.Itoa(g.CountdownOffset))
	}
	if g.SpecialStyle {
		kv("SpecialStyle", "1")
	}
	kv("WidescreenStoryboard", boolString(g.WidescreenStoryboard))
	if g.SamplesMatchPlaybackRate {
		kv("SamplesMatchPlaybackRate", "1")
	}
}

func (b *Beatmap) writeEditor(w *strings.Builder) {
	e := &b.Editor
	sectionHeader(w, "Editor")
	if len(e.Bookmarks) > 0 {
		marks := make([]string, len(e.Bookmarks))
		for i, m := range e.Bookmarks {
			marks[i] = strconv.Itoa(m)
		}
		keyValue(w, ": ", "Bookmarks", strings.Join(marks, ","))
	}
	keyValue(w, ": ", "DistanceSpacing", formatFloat(e.DistanceSpacing))
	keyValue(w, ": ", "BeatDivisor", strconv.Itoa(e.BeatDivisor))
	keyValue(w, ": ", "GridSize", strconv.Itoa(e.GridSize))
	keyValue(w, ": ", "TimelineZoom", formatFloat(e.TimelineZoom))
}

func (b *Beatmap) writeMetadata(w *strings.Builder) {
	m := &b.Metadata
	sectionHeader(w, "Metadata")
	for _, kv := range [][2]string{
		{"Title", m.Title},
		{"TitleUnicode", m.TitleUnicode},
		{"Artist", m.Artist},
		{"ArtistUnicode", m.ArtistUnicode},
		{"Creator", m.Creator},
		{"Version", m.Version},
		{"Source", m.Source},
		{"Tags", m.Tags},
		{"BeatmapID", strconv.Itoa(m.BeatmapID)},
		{"BeatmapSetID", strconv.Itoa(m.BeatmapSetID)},
	} {
		keyValue(w, ":", kv[0], kv[1])
	}
}

func (b *Beatmap) writeDifficulty(w *strings.Builder) {
	d := &b.Difficulty
	sectionHeader(w, "Difficulty")
	keyValue(w, ":", "HPDrainRate", formatFloat(d.HPDrainRate))
	keyValue(w, ":", "CircleSize", formatFloat(d.CircleSize))
	keyValue(w, ":", "OverallDifficulty", formatFloat(d.OverallDifficulty))
	keyValue(w, ":", "ApproachRate", formatFloat(d.ApproachRate))
	keyValue(w, ":", "SliderMultiplier", formatFloat(d.SliderMultiplier))
	keyValue(w, ":", "SliderTickRate", formatFloat(d.SliderTickRate))
}

// writeEvents puts backgrounds, videos and breaks ahead of whatever media
// the storyboard itself holds, then the storyboard layers.
func (b *Beatmap) writeEvents(w *strings.Builder) {
	ev := &b.Events
	sectionHeader(w, "Events")
	var layers osb.Layers
	if ev.Storyboard != nil {
		layers = ev.Storyboard.Layers()
	}
	media := make([]osb.Element, 0, len(ev.Backgrounds)+len(ev.Videos)+len(ev.Breaks))
	for _, e := range ev.Backgrounds {
		media = append(media, e)
	}
	for _, e := range ev.Videos {
		media = append(media, e)
	}
	for _, e := range ev.Breaks {
		media = append(media, e)
	}
	layers.PrependMedia(media...)
	w.WriteString(layers.String())
}

func (b *Beatmap) writeTimingPoints(w *strings.Builder) {
	sectionHeader(w, "TimingPoints")
	for _, tp := range b.TimingPoints {
		w.WriteString(tp.String() + "\n")
	}
}

func (b *Beatmap) writeColours(w *strings.Builder) {
	c := &b.Colours
	if len(c.Combos) == 0 && c.SliderTrackOverride == nil && c.SliderBorder == nil {
		return
	}
	sectionHeader(w, "Colours")
	for _, combo := range c.Combos {
		keyValue(w, " : ", fmt.Sprintf("Combo%d", combo.Index), combo.Colour.String())
	}
	if c.SliderTrackOverride != nil {
		keyValue(w, " : ", "SliderTrackOverride", c.SliderTrackOverride.String())
	}
	if c.SliderBorder != nil {
		keyValue(w, " : ", "SliderBorder", c.SliderBorder.String())
	}
}

func (b *Beatmap) writeHitObjects(w *strings.Builder) {
	sectionHeader(w, "HitObjects")
	for _, h := range b.HitObjects {
		w.WriteString(h.String() + "\n")
	}
}
