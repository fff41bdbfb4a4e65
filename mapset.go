package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"osbgen/dotosu"
	"osbgen/osb"
)

// mapset is a decoded beatmapset directory.
type mapset struct {
	Dir         string
	Paths       []string
	Beatmaps    []*dotosu.Beatmap
	Storyboards map[string]*osb.Container
}

// findFiles lists files under dir with the given extension, sorted.
func findFiles(dir, ext string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", dir)
	}
	var paths []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(d.Name()), ext) {
			paths = append(paths, path)
		}
		return nil
	})
	sort.Strings(paths)
	return paths, err
}

// decodeSet decodes every .osu and .osb file under dir concurrently. Files
// that fail to decode are skipped; the returned error then reports how many
// decoded and the first failure.
func decodeSet(ctx context.Context, dir string) (*mapset, error) {
	paths, err := findFiles(dir, ".osu")
	if err != nil {
		return nil, err
	}
	sbPaths, err := findFiles(dir, ".osb")
	if err != nil {
		return nil, err
	}

	beatmaps := make([]*dotosu.Beatmap, len(paths))
	storyboards := make([]*osb.Container, len(sbPaths))
	errs := make([]error, len(paths)+len(sbPaths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			beatmaps[i], errs[i] = dotosu.DecodeFile(p)
			return nil
		})
	}
	for i, p := range sbPaths {
		i, p := i, p
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			storyboards[i], errs[len(paths)+i] = decodeStoryboardFile(p)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	set := &mapset{Dir: dir, Storyboards: make(map[string]*osb.Container)}
	var firstErr error
	failCount := 0
	for i, p := range paths {
		if errs[i] != nil {
			failCount++
			firstErr = cmpFirst(firstErr, errs[i])
			continue
		}
		set.Paths = append(set.Paths, p)
		set.Beatmaps = append(set.Beatmaps, beatmaps[i])
	}
	for i, p := range sbPaths {
		if err := errs[len(paths)+i]; err != nil {
			failCount++
			firstErr = cmpFirst(firstErr, err)
			continue
		}
		set.Storyboards[p] = storyboards[i]
	}
	if firstErr != nil {
		total := len(paths) + len(sbPaths)
		return set, fmt.Errorf("decoded %d/%d files; first failure: %w", total-failCount, total, firstErr)
	}
	return set, nil
}

func cmpFirst(first, err error) error {
	if first != nil {
		return first
	}
	return err
}

func decodeStoryboardFile(path string) (*osb.Container, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := osb.ParseStoryboard(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}
