package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg != defaultConfig() {
		t.Errorf("got %+v, want defaults", cfg)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "osbgen.yaml")
	data := "beatmap: maps/hard.osu\ninject: true\nhighlight:\n  step: 25\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Beatmap != "maps/hard.osu" || !cfg.Inject || cfg.Highlight.Step != 25 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	def := defaultConfig()
	if cfg.Highlight.Sprite != def.Highlight.Sprite || cfg.Mirror != def.Mirror || cfg.Database != def.Database {
		t.Errorf("unset keys should keep defaults: %+v", cfg)
	}
}

func TestWriteConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "osbgen.yaml")
	want := defaultConfig()
	want.Beatmap = "x.osu"
	want.Highlight.Scale = 0.25
	if err := writeConfig(want, path); err != nil {
		t.Fatal(err)
	}
	got, err := loadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	for name, data := range map[string]string{
		"yaml":   "highlight: [",
		"step":   "highlight:\n  step: 0\n",
		"mirror": "mirror: https://example.com/download\n",
		"sprite": "highlight:\n  sprite: \"\"\n",
	} {
		path := filepath.Join(t.TempDir(), "osbgen.yaml")
		if err := os.WriteFile(path, []byte(data), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := loadConfig(path); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}
