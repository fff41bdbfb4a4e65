package osb

import (
	"fmt"
	"strconv"
	"strings"
)

// Timestamp is a millisecond offset into the song.
type Timestamp int

func Ms(ms int) Timestamp { return Timestamp(ms) }

// Clock parses "mm:ss:mmm". Each component is clamped to the editor's
// range: minutes and seconds to [0,60], milliseconds to [0,999].
func Clock(s string) (Timestamp, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("clock %q: want mm:ss:mmm", s)
	}
	var c [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return 0, fmt.Errorf("clock %q: %w", s, err)
		}
		c[i] = v
	}
	m := clampInt(c[0], 0, 60)
	sec := clampInt(c[1], 0, 60)
	ms := clampInt(c[2], 0, 999)
	return Timestamp(m*60_000 + sec*1000 + ms), nil
}

// MustClock is Clock for literals; it panics on malformed input.
func MustClock(s string) Timestamp {
	t, err := Clock(s)
	if err != nil {
		panic(err)
	}
	return t
}

func (t Timestamp) Ms() int { return int(t) }

// Components splits t into minutes, seconds and milliseconds.
func (t Timestamp) Components() (minutes, seconds, ms int) {
	v := int(t)
	neg := v < 0
	if neg {
		v = -v
	}
	minutes, seconds, ms = v/60_000, v/1000%60, v%1000
	if neg {
		minutes, seconds, ms = -minutes, -seconds, -ms
	}
	return
}

// Clock formats t as "mm:ss:mmm".
func (t Timestamp) Clock() string {
	m, s, ms := t.Components()
	if t < 0 {
		return fmt.Sprintf("-%02d:%02d:%03d", -m, -s, -ms)
	}
	return fmt.Sprintf("%02d:%02d:%03d", m, s, ms)
}

func (t Timestamp) String() string { return strconv.Itoa(int(t)) }

// parseTime reads a plain millisecond field. Fractional values, which
// some editors write, are truncated.
func parseTime(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	if v, err := strconv.Atoi(s); err == nil {
		return Timestamp(v), nil
	}
	f, err := parseFloat(s)
	if err != nil {
		return 0, err
	}
	return Timestamp(int(f)), nil
}
