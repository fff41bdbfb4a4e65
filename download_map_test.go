package main

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"sync/atomic"
	"testing"
	"time"
)

func buildOsz(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, data := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(data)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

var oszFiles = map[string]string{
	"a.osu":     "osu file format v14\n",
	"b.osb":     "[Events]\n",
	"sub/c.osu": "osu file format v14\n",
	"audio.mp3": "ID3",
}

func TestExtractOsz(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "123")
	names, err := extractOsz(buildOsz(t, oszFiles), dir)
	if err != nil {
		t.Fatal(err)
	}
	slices.Sort(names)
	if !slices.Equal(names, []string{"a.osu", "b.osb"}) {
		t.Errorf("names = %v", names)
	}
	if _, err := os.Stat(filepath.Join(dir, "audio.mp3")); err == nil {
		t.Error("audio should not be extracted")
	}
	if _, err := os.Stat(filepath.Join(dir, "sub")); err == nil {
		t.Error("nested entries should be skipped")
	}
	if !hasBeatmaps(dir) {
		t.Error("hasBeatmaps = false after extraction")
	}
}

func TestExtractOszWithoutBeatmaps(t *testing.T) {
	data := buildOsz(t, map[string]string{"b.osb": "[Events]\n"})
	if _, err := extractOsz(data, t.TempDir()); err == nil {
		t.Fatal("expected error")
	}
	if _, err := extractOsz([]byte("not a zip"), t.TempDir()); err == nil {
		t.Fatal("expected error for a non-zip body")
	}
}

func testDownloader(url string) *downloader {
	return &downloader{
		client:   http.DefaultClient,
		mirror:   url + "/%d",
		session:  "cookie",
		throttle: newThrottle(1000, time.Second, 2),
		backoff:  10 * time.Millisecond,
	}
}

func TestFetchSetsRetriesRateLimit(t *testing.T) {
	osz := buildOsz(t, oszFiles)
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("osu_session"); err != nil || c.Value != "cookie" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write(osz)
	}))
	defer srv.Close()

	d := testDownloader(srv.URL)
	defer d.throttle.stop()
	songs := t.TempDir()
	if err := d.fetchSets(context.Background(), songs, []int{42}); err != nil {
		t.Fatal(err)
	}
	if calls.Load() != 2 {
		t.Errorf("got %d requests, want 2", calls.Load())
	}
	if !hasBeatmaps(filepath.Join(songs, "42")) {
		t.Error("set was not extracted")
	}
	if d.limitedFrom.Load() != nil {
		t.Error("rate limit state should reset after a success")
	}

	// already present sets are skipped
	if err := d.fetchSets(context.Background(), songs, []int{42}); err != nil {
		t.Fatal(err)
	}
	if calls.Load() != 2 {
		t.Errorf("existing set was downloaded again")
	}
}

func TestFetchSetsGivesUp(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	d := testDownloader(srv.URL)
	defer d.throttle.stop()
	if err := d.fetchSets(context.Background(), t.TempDir(), []int{7}); err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != maxDownloadAttempts {
		t.Errorf("got %d requests, want %d", calls.Load(), maxDownloadAttempts)
	}
}
