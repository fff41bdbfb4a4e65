package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"osbgen/dotosu"
	"osbgen/osb"
	"osbgen/store"
)

var logger = log.New(os.Stderr, "", log.LstdFlags)

const usageText = `usage: osbgen [-config osbgen.yaml] <command> [flags] [args]

commands:
  init        write a default config file
  info        print a beatmap summary
  fmt         re-emit a .osu or .osb file in canonical form
  highlight   generate slider-follow sprites for a beatmap
  index       decode mapset directories into the database
  list        list indexed beatmaps and written storyboards
  fetch       download beatmapsets by id
`

func main() {
	configPath := flag.String("config", defaultConfigPath, "project config file")
	flag.Usage = func() { fmt.Fprint(flag.CommandLine.Output(), usageText) }
	flag.Parse()
	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*configPath, flag.Arg(0), flag.Args()[1:]); err != nil {
		logger.Fatalf("[-] %s: %v", flag.Arg(0), err)
	}
}

func run(configPath, cmd string, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if cmd == "init" {
		return runInit(configPath)
	}
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	switch cmd {
	case "info":
		return runInfo(cfg, args)
	case "fmt":
		return runFmt(args)
	case "highlight":
		return runHighlight(ctx, cfg, args)
	case "index":
		return runIndex(ctx, cfg, args)
	case "list":
		return runList(ctx, cfg, args)
	case "fetch":
		return runFetch(ctx, cfg, args)
	}
	flag.Usage()
	return fmt.Errorf("unknown command %q", cmd)
}

func runInit(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if err := writeConfig(defaultConfig(), path); err != nil {
		return err
	}
	logger.Printf("[+] wrote %s", path)
	return nil
}

func runInfo(cfg Config, args []string) error {
	flags := flag.NewFlagSet("info", flag.ExitOnError)
	path := flags.String("beatmap", cfg.Beatmap, "beatmap to describe")
	flags.Parse(args)
	if *path == "" {
		return errors.New("no beatmap given")
	}

	b, err := dotosu.DecodeFile(*path)
	if err != nil {
		return err
	}
	m := b.Metadata
	fmt.Printf("%s - %s [%s] by %s\n", m.Artist, m.Title, m.Version, m.Creator)
	fmt.Printf("beatmap %d, set %d\n", m.BeatmapID, m.BeatmapSetID)
	fmt.Printf("hit objects: %d (%d sliders)\n", len(b.HitObjects), len(b.Sliders()))
	fmt.Printf("timing points: %d\n", len(b.TimingPoints))
	d := b.Difficulty
	w300, w100, w50 := d.HitWindows()
	fmt.Printf("circle radius: %.1f, preempt: %.0fms\n", d.CircleRadius(), d.Preempt())
	fmt.Printf("hit windows: %.0f/%.0f/%.0fms\n", w300, w100, w50)
	if red, _ := b.TimingAt(0); red != nil {
		fmt.Printf("bpm: %.2f\n", red.BPM())
	}
	fmt.Printf("breaks: %d\n", len(b.Events.Breaks))
	if sb := b.Events.Storyboard; sb != nil {
		l := sb.Layers()
		fmt.Printf("storyboard: %d elements\n", len(sb.Flatten()))
		for layer := osb.LayerBackground; layer <= osb.LayerOverlay; layer++ {
			if n := len(l.Layer(layer)); n > 0 {
				fmt.Printf("  %-10s %d\n", layer, n)
			}
		}
		if n := len(l.Samples()); n > 0 {
			fmt.Printf("  %-10s %d\n", "Samples", n)
		}
	}
	return nil
}

// runFmt parses a beatmap or storyboard and writes it back in canonical
// form, to -out or stdout.
func runFmt(args []string) error {
	flags := flag.NewFlagSet("fmt", flag.ExitOnError)
	out := flags.String("out", "", "output file (default stdout)")
	flags.Parse(args)
	if flags.NArg() != 1 {
		return errors.New("want exactly one input file")
	}
	in := flags.Arg(0)

	data, err := os.ReadFile(in)
	if err != nil {
		return err
	}
	var text string
	switch strings.ToLower(filepath.Ext(in)) {
	case ".osu":
		b, err := dotosu.Parse(string(data))
		if err != nil {
			return fmt.Errorf("%s: %w", in, err)
		}
		text = b.String()
	case ".osb":
		c, err := osb.ParseStoryboard(string(data))
		if err != nil {
			return fmt.Errorf("%s: %w", in, err)
		}
		if text, err = c.OsbString(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%s: not a .osu or .osb file", in)
	}

	if *out == "" {
		_, err = os.Stdout.WriteString(text)
		return err
	}
	return os.WriteFile(*out, []byte(text), 0644)
}

func runHighlight(ctx context.Context, cfg Config, args []string) error {
	flags := flag.NewFlagSet("highlight", flag.ExitOnError)
	flags.StringVar(&cfg.Beatmap, "beatmap", cfg.Beatmap, "beatmap to read sliders from")
	flags.StringVar(&cfg.Storyboard, "out", cfg.Storyboard, "storyboard to write")
	flags.BoolVar(&cfg.Inject, "inject", cfg.Inject, "replace the beatmap's own events instead")
	flags.StringVar(&cfg.Highlight.Sprite, "sprite", cfg.Highlight.Sprite, "sprite image path")
	flags.IntVar(&cfg.Highlight.Step, "step", cfg.Highlight.Step, "sampling step in milliseconds")
	flags.Parse(args)
	if cfg.Beatmap == "" {
		return errors.New("no beatmap given")
	}

	b, err := dotosu.DecodeFile(cfg.Beatmap)
	if err != nil {
		return err
	}
	c, err := buildHighlight(b, cfg.Highlight)
	if err != nil {
		return err
	}

	target := cfg.Storyboard
	if cfg.Inject {
		target = cfg.Beatmap
		if err := b.ReplaceEvents(c); err != nil {
			return err
		}
		err = os.WriteFile(target, []byte(b.String()), 0644)
	} else {
		var text string
		if text, err = c.OsbString(); err == nil {
			err = os.WriteFile(target, []byte(text), 0644)
		}
	}
	if err != nil {
		return err
	}
	logger.Printf("[+] wrote %d sprites to %s", len(c.Children()), target)

	ix, err := store.Open(cfg.Database)
	if err != nil {
		return err
	}
	defer ix.Close()
	return ix.RecordStoryboard(ctx, store.StoryboardRecordOf(target, cfg.Beatmap, c))
}

// runIndex decodes each mapset directory given, or every directory under
// songs_dir, and records what it finds.
func runIndex(ctx context.Context, cfg Config, args []string) error {
	flags := flag.NewFlagSet("index", flag.ExitOnError)
	flags.StringVar(&cfg.Database, "db", cfg.Database, "database path")
	flags.Parse(args)

	dirs := flags.Args()
	if len(dirs) == 0 {
		entries, err := os.ReadDir(cfg.SongsDir)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if e.IsDir() {
				dirs = append(dirs, filepath.Join(cfg.SongsDir, e.Name()))
			}
		}
	}

	ix, err := store.Open(cfg.Database)
	if err != nil {
		return err
	}
	defer ix.Close()

	for _, dir := range dirs {
		set, err := decodeSet(ctx, dir)
		if set == nil {
			return err
		}
		if err != nil {
			logger.Printf("[!] %s: %v", dir, err)
		}
		for i, b := range set.Beatmaps {
			if err := ix.RecordBeatmap(ctx, store.BeatmapRecordOf(set.Paths[i], b)); err != nil {
				return err
			}
		}
		for path, c := range set.Storyboards {
			if err := ix.RecordStoryboard(ctx, store.StoryboardRecordOf(path, "", c)); err != nil {
				return err
			}
		}
		logger.Printf("[+] %s: %d beatmaps, %d storyboards", dir, len(set.Beatmaps), len(set.Storyboards))
	}
	return nil
}

func runList(ctx context.Context, cfg Config, args []string) error {
	flags := flag.NewFlagSet("list", flag.ExitOnError)
	setID := flags.Int("set", 0, "only list this beatmapset")
	storyboards := flags.Bool("storyboards", false, "list written storyboards instead")
	flags.Parse(args)

	ix, err := store.Open(cfg.Database)
	if err != nil {
		return err
	}
	defer ix.Close()

	if *storyboards {
		recs, err := ix.Storyboards(ctx)
		if err != nil {
			return err
		}
		for _, r := range recs {
			fmt.Printf("%s\t%d sprites\t%d samples\t%s-%s\t%s\n",
				r.Path, r.Sprites, r.Samples, r.Start.Clock(), r.End.Clock(), r.WrittenAt.Format("2006-01-02 15:04"))
		}
		return nil
	}
	recs, err := ix.Beatmaps(ctx, *setID)
	if err != nil {
		return err
	}
	for _, r := range recs {
		fmt.Printf("%d\t%d\t%s - %s [%s]\t%d objects\t%d sliders\t%d sb\n",
			r.SetID, r.BeatmapID, r.Artist, r.Title, r.Version, r.HitObjects, r.Sliders, r.StoryboardElements)
	}
	return nil
}

func runFetch(ctx context.Context, cfg Config, args []string) error {
	flags := flag.NewFlagSet("fetch", flag.ExitOnError)
	flags.StringVar(&cfg.SongsDir, "dir", cfg.SongsDir, "directory to extract sets into")
	flags.Parse(args)
	if flags.NArg() == 0 {
		return errors.New("no beatmapset ids given")
	}
	ids := make([]int, 0, flags.NArg())
	for _, a := range flags.Args() {
		id, err := strconv.Atoi(a)
		if err != nil || id <= 0 {
			return fmt.Errorf("invalid beatmapset id %q", a)
		}
		ids = append(ids, id)
	}
	if err := os.MkdirAll(cfg.SongsDir, 0755); err != nil {
		return err
	}

	d := newDownloader(cfg)
	defer d.throttle.stop()
	return d.fetchSets(ctx, cfg.SongsDir, ids)
}
