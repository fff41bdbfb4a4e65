package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, data := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(data), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestDecodeSet(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"easy.osu":      "osu file format v14\n[Metadata]\nTitle:Song\nVersion:Easy\n",
		"hard.osu":      "osu file format v14\n[Metadata]\nTitle:Song\nVersion:Hard\n",
		"sub/extra.osu": "osu file format v14\n[Metadata]\nVersion:Extra\n",
		"song.osb":      "[Events]\nSprite,Foreground,Centre,\"sb/a.png\",320,240\n F,0,0,1000,0,1\n",
		"audio.mp3":     "not parsed",
	})

	set, err := decodeSet(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(set.Beatmaps) != 3 || len(set.Paths) != 3 {
		t.Fatalf("got %d beatmaps, want 3", len(set.Beatmaps))
	}
	if got := set.Beatmaps[0].Metadata.Version; got != "Easy" {
		t.Errorf("beatmaps should be in path order, first is %q", got)
	}
	sb, ok := set.Storyboards[filepath.Join(dir, "song.osb")]
	if !ok || len(sb.Flatten()) != 1 {
		t.Errorf("storyboards = %v", set.Storyboards)
	}
}

func TestDecodeSetReportsFailures(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"good.osu":   "osu file format v14\n",
		"broken.osu": "osu file format v9\n",
		"bad.osb":    "[Events]\nSprite,Nowhere,Centre,\"a.png\",0,0\n",
	})

	set, err := decodeSet(context.Background(), dir)
	if err == nil {
		t.Fatal("expected error")
	}
	if set == nil || len(set.Beatmaps) != 1 || len(set.Storyboards) != 0 {
		t.Fatalf("good files should still decode, got %+v", set)
	}
	if !strings.Contains(err.Error(), "decoded 1/3 files") {
		t.Errorf("error = %v", err)
	}
}

func TestDecodeSetMissingDir(t *testing.T) {
	set, err := decodeSet(context.Background(), filepath.Join(t.TempDir(), "none"))
	if err == nil || set != nil {
		t.Fatalf("got %v, %v", set, err)
	}
}
