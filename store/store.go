// Package store keeps an SQLite index of decoded beatmaps and of the
// storyboards written for them.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"osbgen/dotosu"
	"osbgen/osb"
)

const schema = `
CREATE TABLE IF NOT EXISTS beatmaps (
	path          TEXT PRIMARY KEY,
	beatmap_id    INTEGER NOT NULL,
	set_id        INTEGER NOT NULL,
	artist        TEXT NOT NULL,
	title         TEXT NOT NULL,
	creator       TEXT NOT NULL,
	version       TEXT NOT NULL,
	hit_objects   INTEGER NOT NULL,
	sliders       INTEGER NOT NULL,
	timing_points INTEGER NOT NULL,
	sb_elements   INTEGER NOT NULL,
	indexed_at    INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS beatmaps_set ON beatmaps(set_id);
CREATE TABLE IF NOT EXISTS storyboards (
	path       TEXT PRIMARY KEY,
	beatmap    TEXT NOT NULL,
	sprites    INTEGER NOT NULL,
	samples    INTEGER NOT NULL,
	commands   INTEGER NOT NULL,
	start_ms   INTEGER NOT NULL,
	end_ms     INTEGER NOT NULL,
	written_at INTEGER NOT NULL
);
`

type Index struct {
	db *sql.DB
}

// Open opens or creates the index at path. ":memory:" gives a private
// in-memory index.
func Open(path string) (*Index, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// one connection: sqlite has a single writer, and every connection to
	// ":memory:" would otherwise see its own empty database
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema in %s: %w", path, err)
	}
	return &Index{db: db}, nil
}

func (ix *Index) Close() error { return ix.db.Close() }

type BeatmapRecord struct {
	Path         string
	BeatmapID    int
	SetID        int
	Artist       string
	Title        string
	Creator      string
	Version      string
	HitObjects   int
	Sliders      int
	TimingPoints int
	// StoryboardElements counts the storyboard elements embedded in the
	// beatmap's own [Events] section.
	StoryboardElements int
	IndexedAt          time.Time
}

// BeatmapRecordOf summarises a decoded beatmap read from path.
func BeatmapRecordOf(path string, b *dotosu.Beatmap) BeatmapRecord {
	r := BeatmapRecord{
		Path:         path,
		BeatmapID:    b.Metadata.BeatmapID,
		SetID:        b.Metadata.BeatmapSetID,
		Artist:       b.Metadata.Artist,
		Title:        b.Metadata.Title,
		Creator:      b.Metadata.Creator,
		Version:      b.Metadata.Version,
		HitObjects:   len(b.HitObjects),
		Sliders:      len(b.Sliders()),
		TimingPoints: len(b.TimingPoints),
	}
	if b.Events.Storyboard != nil {
		r.StoryboardElements = len(b.Events.Storyboard.Flatten())
	}
	return r
}

// RecordBeatmap inserts r, replacing any earlier record for the same path.
// A zero IndexedAt is set to the current time.
func (ix *Index) RecordBeatmap(ctx context.Context, r BeatmapRecord) error {
	if r.IndexedAt.IsZero() {
		r.IndexedAt = time.Now()
	}
	_, err := ix.db.ExecContext(ctx, `
		INSERT INTO beatmaps (path, beatmap_id, set_id, artist, title, creator, version,
			hit_objects, sliders, timing_points, sb_elements, indexed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			beatmap_id = excluded.beatmap_id, set_id = excluded.set_id,
			artist = excluded.artist, title = excluded.title,
			creator = excluded.creator, version = excluded.version,
			hit_objects = excluded.hit_objects, sliders = excluded.sliders,
			timing_points = excluded.timing_points, sb_elements = excluded.sb_elements,
			indexed_at = excluded.indexed_at`,
		r.Path, r.BeatmapID, r.SetID, r.Artist, r.Title, r.Creator, r.Version,
		r.HitObjects, r.Sliders, r.TimingPoints, r.StoryboardElements, r.IndexedAt.Unix())
	if err != nil {
		return fmt.Errorf("record beatmap %s: %w", r.Path, err)
	}
	return nil
}

// Beatmaps lists indexed beatmaps ordered by set and difficulty name.
// setID 0 lists every set.
func (ix *Index) Beatmaps(ctx context.Context, setID int) ([]BeatmapRecord, error) {
	rows, err := ix.db.QueryContext(ctx, `
		SELECT path, beatmap_id, set_id, artist, title, creator, version,
			hit_objects, sliders, timing_points, sb_elements, indexed_at
		FROM beatmaps
		WHERE ? = 0 OR set_id = ?
		ORDER BY set_id, version, path`, setID, setID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BeatmapRecord
	for rows.Next() {
		var (
			r  BeatmapRecord
			at int64
		)
		if err := rows.Scan(&r.Path, &r.BeatmapID, &r.SetID, &r.Artist, &r.Title, &r.Creator, &r.Version,
			&r.HitObjects, &r.Sliders, &r.TimingPoints, &r.StoryboardElements, &at); err != nil {
			return nil, err
		}
		r.IndexedAt = time.Unix(at, 0)
		out = append(out, r)
	}
	return out, rows.Err()
}

type StoryboardRecord struct {
	Path    string
	Beatmap string
	Sprites int
	Samples int
	// Commands counts top-level instructions; a loop or trigger is one.
	Commands   int
	Start, End osb.Timestamp
	WrittenAt  time.Time
}

// StoryboardRecordOf summarises a storyboard written to path for the
// beatmap at beatmapPath.
func StoryboardRecordOf(path, beatmapPath string, c *osb.Container) StoryboardRecord {
	r := StoryboardRecord{Path: path, Beatmap: beatmapPath}
	first := true
	for _, e := range c.Flatten() {
		switch e := e.(type) {
		case *osb.Sample:
			r.Samples++
		case osb.Commandable:
			r.Sprites++
			cl := e.CommandList()
			r.Commands += len(cl.Instructions())
			start, end, ok := cl.Span()
			if !ok {
				continue
			}
			if first || start < r.Start {
				r.Start = start
			}
			if first || end > r.End {
				r.End = end
			}
			first = false
		}
	}
	return r
}

// RecordStoryboard inserts r, replacing any earlier record for the same
// path. A zero WrittenAt is set to the current time.
func (ix *Index) RecordStoryboard(ctx context.Context, r StoryboardRecord) error {
	if r.WrittenAt.IsZero() {
		r.WrittenAt = time.Now()
	}
	_, err := ix.db.ExecContext(ctx, `
		INSERT INTO storyboards (path, beatmap, sprites, samples, commands, start_ms, end_ms, written_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			beatmap = excluded.beatmap, sprites = excluded.sprites,
			samples = excluded.samples, commands = excluded.commands,
			start_ms = excluded.start_ms, end_ms = excluded.end_ms,
			written_at = excluded.written_at`,
		r.Path, r.Beatmap, r.Sprites, r.Samples, r.Commands, r.Start.Ms(), r.End.Ms(), r.WrittenAt.Unix())
	if err != nil {
		return fmt.Errorf("record storyboard %s: %w", r.Path, err)
	}
	return nil
}

// Storyboards lists recorded storyboards, newest first.
func (ix *Index) Storyboards(ctx context.Context) ([]StoryboardRecord, error) {
	rows, err := ix.db.QueryContext(ctx, `
		SELECT path, beatmap, sprites, samples, commands, start_ms, end_ms, written_at
		FROM storyboards
		ORDER BY written_at DESC, path`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StoryboardRecord
	for rows.Next() {
		var (
			r          StoryboardRecord
			start, end int
			at         int64
		)
		if err := rows.Scan(&r.Path, &r.Beatmap, &r.Sprites, &r.Samples, &r.Commands, &start, &end, &at); err != nil {
			return nil, err
		}
		r.Start, r.End = osb.Ms(start), osb.Ms(end)
		r.WrittenAt = time.Unix(at, 0)
		out = append(out, r)
	}
	return out, rows.Err()
}
