package main

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

const maxDownloadAttempts = 5

var errRateLimited = errors.New("rate limited by mirror")

// downloader fetches beatmapset archives from a mirror and unpacks their
// beatmap and storyboard files.
type downloader struct {
	client   *http.Client
	mirror   string
	session  string
	throttle *throttle
	// backoff is the shortest pause after the mirror refuses a request.
	backoff time.Duration

	limitedFrom atomic.Pointer[time.Time]
}

func newDownloader(cfg Config) *downloader {
	return &downloader{
		client:   &http.Client{Timeout: time.Minute * 10},
		mirror:   cfg.Mirror,
		session:  cfg.Session,
		throttle: newThrottle(rateLimit, cooldown, maxConcurrentRequests),
		backoff:  time.Minute,
	}
}

// rateLimited returns how long to back off. Consecutive refusals back off
// for at least as long as the refusals have lasted.
func (d *downloader) rateLimited() time.Duration {
	lastLimit := d.limitedFrom.Load()
	now := time.Now()
	d.limitedFrom.CompareAndSwap(nil, &now)
	if lastLimit != nil {
		return max(d.backoff, time.Since(*lastLimit))
	}
	return d.backoff
}

// fetchSets downloads every set into songsDir/<id>, skipping sets that
// already hold a .osu file.
func (d *downloader) fetchSets(ctx context.Context, songsDir string, ids []int) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentRequests)
	for _, id := range ids {
		id := id
		dir := filepath.Join(songsDir, strconv.Itoa(id))
		if hasBeatmaps(dir) {
			logger.Printf("[*] %d already downloaded", id)
			continue
		}
		g.Go(func() error {
			files, err := d.fetchSet(ctx, id, dir)
			if err != nil {
				return fmt.Errorf("set %d: %w", id, err)
			}
			logger.Printf("[+] %d downloaded: %s", id, strings.Join(files, ", "))
			return nil
		})
	}
	return g.Wait()
}

func hasBeatmaps(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".osu") {
			return true
		}
	}
	return false
}

func (d *downloader) fetchSet(ctx context.Context, id int, dir string) ([]string, error) {
	done, err := d.throttle.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer done()

	var data []byte
	for attempt := 1; ; attempt++ {
		data, err = d.download(ctx, id)
		if err == nil {
			d.limitedFrom.Store(nil)
			break
		}
		if attempt == maxDownloadAttempts || ctx.Err() != nil {
			return nil, err
		}
		pause := d.backoff
		if errors.Is(err, errRateLimited) {
			pause = d.rateLimited()
		}
		logger.Printf("[!] set %d: %v, retrying in %s", id, err, pause)
		select {
		case <-time.After(pause):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return extractOsz(data, dir)
}

func (d *downloader) download(ctx context.Context, id int) ([]byte, error) {
	if err := d.throttle.wait(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf(d.mirror, id), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/x-osu-beatmap-archive,application/octet-stream,*/*;q=0.8")
	req.Header.Set("Referer", fmt.Sprintf("https://osu.ppy.sh/beatmapsets/%d", id))
	if d.session != "" {
		req.AddCookie(&http.Cookie{Name: "osu_session", Value: d.session})
	}

	logger.Printf("[*] downloading set %d", id)
	resp, err := d.client.Do(req)
	if err != nil {
		if strings.Contains(err.Error(), "connection refused") {
			return nil, fmt.Errorf("%w: %v", errRateLimited, err)
		}
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusTooManyRequests || bytes.Contains(body, []byte("Slow down, play more.")) {
		return nil, errRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %s", resp.Status)
	}
	return body, nil
}

// extractOsz writes the .osu and .osb files of an .osz archive into dir
// and returns their names. Entries in subdirectories are skipped.
func extractOsz(data []byte, dir string) ([]string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open osz: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	var names []string
	for _, f := range zr.File {
		ext := strings.ToLower(filepath.Ext(f.Name))
		if ext != ".osu" && ext != ".osb" {
			continue
		}
		if f.FileInfo().IsDir() || strings.ContainsAny(f.Name, `/\`) {
			logger.Printf("[!] skipping nested archive entry %q", f.Name)
			continue
		}
		if err := extractFile(f, filepath.Join(dir, f.Name)); err != nil {
			return names, err
		}
		names = append(names, f.Name)
	}
	isBeatmap := func(n string) bool { return strings.EqualFold(filepath.Ext(n), ".osu") }
	if !slices.ContainsFunc(names, isBeatmap) {
		return names, fmt.Errorf("no .osu files in archive")
	}
	return names, nil
}

func extractFile(f *zip.File, path string) error {
	r, err := f.Open()
	if err != nil {
		return fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer r.Close()

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return fmt.Errorf("extract %s: %w", f.Name, err)
	}
	return out.Close()
}
