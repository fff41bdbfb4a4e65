package dotosu

import (
	"bytes"
	"strings"
	"testing"

	"osbgen/osb"
)

func TestEncodeRoundTrip(t *testing.T) {
	b, err := Parse(sampleMap)
	if err != nil {
		t.Fatal(err)
	}
	first := b.String()
	again, err := Parse(first)
	if err != nil {
		t.Fatalf("re-parse: %v\n%s", err, first)
	}
	if second := again.String(); second != first {
		t.Fatalf("encoding is not stable:\n%s\n---\n%s", first, second)
	}
	for _, want := range []string{
		"osu file format v14\n",
		"SampleSet: Soft\n",
		"Title:Song // with slashes\n",
		"136,300,4,2,1,50,1,0\n",
		"5000,-50,4,2,0,60,0,1\n",
		"Combo2 : 0,128,255\n",
		"100,100,1000,6,2,B|200:100|200:200,1,150,2|0,0:0|1:2,0:0:0:0:\n",
		"256,192,6000,12,0,8000,0:0:0:0:\n",
	} {
		if !strings.Contains(first, want) {
			t.Errorf("encoded beatmap lacks %q", want)
		}
	}
}

func TestReplaceEvents(t *testing.T) {
	b, err := Parse(sampleMap)
	if err != nil {
		t.Fatal(err)
	}
	c, err := osb.NewContainer(osb.NewSprite("sb/dot.png", osb.LayerForeground, osb.Centre, osb.Vec(320, 240)))
	if err != nil {
		t.Fatal(err)
	}
	if err := b.ReplaceEvents(c); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := b.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	start := strings.Index(out, "[Events]\n")
	end := strings.Index(out, "\n[TimingPoints]")
	if start < 0 || end < 0 {
		t.Fatalf("missing sections:\n%s", out)
	}
	want := `[Events]
//Background and Video events
0,0,"bg.jpg",0,0
Video,500,"intro.mp4",0,0
2,10000,15000
//Storyboard Layer 0 (Background)
//Storyboard Layer 1 (Fail)
//Storyboard Layer 2 (Pass)
//Storyboard Layer 3 (Foreground)
Sprite,Foreground,Centre,"sb/dot.png",320,240
//Storyboard Layer 4 (Overlay)
//Storyboard Sound Samples
`
	if got := out[start : end+1]; got != want {
		t.Errorf("events:\n%s\nwant:\n%s", got, want)
	}
}

func TestReplaceEventsRejectsNested(t *testing.T) {
	inner, _ := osb.NewContainer()
	if _, err := osb.NewContainer(inner); err != nil {
		t.Fatal(err)
	}
	b := New()
	if err := b.ReplaceEvents(inner); err == nil {
		t.Fatal("expected error for nested container")
	}
}

func TestEncodeNewBeatmap(t *testing.T) {
	b := New()
	b.Metadata.Title = "t"
	b.TimingPoints = append(b.TimingPoints, TimingPoint{Time: 0, BeatLength: 400, Meter: 4, Volume: 80, Uninherited: true})
	b.HitObjects = append(b.HitObjects, &Circle{Hit{Position: osb.Vec(256, 192), Time: 100, Type: TypeCircle}})
	got, err := Parse(b.String())
	if err != nil {
		t.Fatalf("parse encoded beatmap: %v\n%s", err, b.String())
	}
	if got.Metadata.Title != "t" || len(got.TimingPoints) != 1 || len(got.HitObjects) != 1 {
		t.Errorf("decoded %+v", got)
	}
	if got.Events.Storyboard != nil {
		t.Error("empty events should decode without a storyboard")
	}
}
