package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const defaultConfigPath = "osbgen.yaml"

type Config struct {
	// Beatmap is the difficulty whose timing and hit objects drive the
	// generated storyboard.
	Beatmap    string `yaml:"beatmap"`
	Storyboard string `yaml:"storyboard"`
	// Inject writes the storyboard into the beatmap's [Events] section
	// instead of a separate .osb file.
	Inject   bool   `yaml:"inject"`
	Database string `yaml:"database"`
	SongsDir string `yaml:"songs_dir"`
	// Mirror is a download URL pattern with one %d for the set id.
	Mirror    string          `yaml:"mirror"`
	Session   string          `yaml:"session"`
	Highlight HighlightConfig `yaml:"highlight"`
}

type HighlightConfig struct {
	Sprite string  `yaml:"sprite"`
	Scale  float64 `yaml:"scale"`
	// Step is the sampling interval along the slider path in milliseconds.
	Step int `yaml:"step"`
	// Fade is the fade-in and fade-out duration in milliseconds.
	Fade int `yaml:"fade"`
}

func defaultConfig() Config {
	return Config{
		Storyboard: "storyboard.osb",
		Database:   "osbgen.db",
		SongsDir:   "songs",
		Mirror:     "https://osu.ppy.sh/beatmapsets/%d/download",
		Highlight: HighlightConfig{
			Sprite: "sb/dot.png",
			Scale:  0.5,
			Step:   50,
			Fade:   200,
		},
	}
}

// loadConfig reads path over the defaults. A missing file gives the
// defaults.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func writeConfig(cfg Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c Config) validate() error {
	if strings.Count(c.Mirror, "%d") != 1 {
		return fmt.Errorf("mirror %q needs exactly one %%d", c.Mirror)
	}
	if c.Highlight.Step <= 0 {
		return fmt.Errorf("highlight step %d must be positive", c.Highlight.Step)
	}
	if c.Highlight.Fade < 0 {
		return fmt.Errorf("highlight fade %d must not be negative", c.Highlight.Fade)
	}
	if c.Highlight.Sprite == "" {
		return fmt.Errorf("highlight sprite is empty")
	}
	return nil
}
