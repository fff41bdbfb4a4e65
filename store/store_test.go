package store

import (
	"context"
	"testing"
	"time"

	"osbgen/dotosu"
	"osbgen/osb"
)

func openMemory(t *testing.T) *Index {
	t.Helper()
	ix, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { ix.Close() })
	return ix
}

func TestBeatmapRecords(t *testing.T) {
	ctx := context.Background()
	ix := openMemory(t)

	b, err := dotosu.Parse(`osu file format v14
[Metadata]
Title:Song
Artist:Band
Creator:mapper
Version:Hard
BeatmapID:11
BeatmapSetID:7
[TimingPoints]
0,500,4,1,0,100,1,0
[HitObjects]
256,192,500,1,0
0,0,1000,2,0,L|100:0,1,100
`)
	if err != nil {
		t.Fatal(err)
	}
	rec := BeatmapRecordOf("7/hard.osu", b)
	if rec.HitObjects != 2 || rec.Sliders != 1 || rec.TimingPoints != 1 {
		t.Fatalf("record = %+v", rec)
	}
	if err := ix.RecordBeatmap(ctx, rec); err != nil {
		t.Fatal(err)
	}
	if err := ix.RecordBeatmap(ctx, BeatmapRecord{Path: "9/easy.osu", SetID: 9, Version: "Easy"}); err != nil {
		t.Fatal(err)
	}

	rec.Version = "Insane"
	if err := ix.RecordBeatmap(ctx, rec); err != nil {
		t.Fatal(err)
	}

	all, err := ix.Beatmaps(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("got %d records, want 2", len(all))
	}
	if all[0].Path != "7/hard.osu" || all[0].Version != "Insane" || all[0].BeatmapID != 11 {
		t.Errorf("first record = %+v", all[0])
	}
	if all[0].IndexedAt.IsZero() {
		t.Error("indexed time should be set")
	}

	set, err := ix.Beatmaps(ctx, 9)
	if err != nil {
		t.Fatal(err)
	}
	if len(set) != 1 || set[0].Version != "Easy" {
		t.Errorf("set 9 = %+v", set)
	}
}

func TestStoryboardRecords(t *testing.T) {
	ctx := context.Background()
	ix := openMemory(t)

	s := osb.NewSprite("sb/dot.png", osb.LayerForeground, osb.Centre, osb.Vec(320, 240))
	s.Fade(1000, 2000, 0, 1)
	if err := s.StartLoopGroup(3000, 2); err != nil {
		t.Fatal(err)
	}
	s.Scale(0, 500, 1, 2)
	s.EndGroup()
	c, err := osb.NewContainer(s, osb.NewSample("hit.wav", 1500, osb.SampleLayer(0), 80))
	if err != nil {
		t.Fatal(err)
	}

	rec := StoryboardRecordOf("out.osb", "map.osu", c)
	if rec.Sprites != 1 || rec.Samples != 1 || rec.Commands != 2 {
		t.Fatalf("record = %+v", rec)
	}
	if rec.Start != 1000 || rec.End != 4000 {
		t.Errorf("span = %v..%v", rec.Start, rec.End)
	}

	old := rec
	old.Path = "old.osb"
	old.WrittenAt = time.Unix(100, 0)
	for _, r := range []StoryboardRecord{old, rec} {
		if err := ix.RecordStoryboard(ctx, r); err != nil {
			t.Fatal(err)
		}
	}
	got, err := ix.Storyboards(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Path != "out.osb" || got[1].Path != "old.osb" {
		t.Fatalf("storyboards = %+v", got)
	}
	if got[0].Start != 1000 || got[0].End != 4000 || got[0].Beatmap != "map.osu" {
		t.Errorf("round trip = %+v", got[0])
	}
}
