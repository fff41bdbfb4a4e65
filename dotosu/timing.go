package dotosu

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type SampleSet int

const (
	SampleDefault SampleSet = iota
	SampleNormal
	SampleSoft
	SampleDrum
)

func (s SampleSet) Valid() bool { return s >= SampleDefault && s <= SampleDrum }

func parseSampleSet(s string) (SampleSet, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || !SampleSet(v).Valid() {
		return 0, fmt.Errorf("invalid sample set %q", s)
	}
	return SampleSet(v), nil
}

// Effects is the timing point effect bitmask.
type Effects int

const (
	EffectKiai         Effects = 1 << 0
	EffectOmitFirstBar Effects = 1 << 3
)

// TimingPoint is one line of [TimingPoints]. Uninherited points carry the
// beat length in milliseconds; inherited points carry a negative value
// whose inverse percentage is the slider velocity multiplier.
type TimingPoint struct {
	Time        float64
	BeatLength  float64
	Meter       int
	SampleSet   SampleSet
	SampleIndex int
	Volume      int
	Uninherited bool
	Effects     Effects
}

// BPM is zero for inherited points.
func (tp *TimingPoint) BPM() float64 {
	if !tp.Uninherited || tp.BeatLength <= 0 {
		return 0
	}
	return 60000 / tp.BeatLength
}

// SpeedMultiplier is the slider velocity multiplier of an inherited point,
// clamped to [0.1, 10]. Uninherited points and NaN beat lengths give 1.
func (tp *TimingPoint) SpeedMultiplier() float64 {
	if tp.Uninherited || math.IsNaN(tp.BeatLength) || tp.BeatLength >= 0 {
		return 1
	}
	return clampFloat(100/-tp.BeatLength, 0.1, 10)
}

func (tp *TimingPoint) Kiai() bool         { return tp.Effects&EffectKiai != 0 }
func (tp *TimingPoint) OmitFirstBar() bool { return tp.Effects&EffectOmitFirstBar != 0 }

func (tp *TimingPoint) SetKiai(on bool)         { tp.setEffect(EffectKiai, on) }
func (tp *TimingPoint) SetOmitFirstBar(on bool) { tp.setEffect(EffectOmitFirstBar, on) }

func (tp *TimingPoint) setEffect(e Effects, on bool) {
	if on {
		tp.Effects |= e
	} else {
		tp.Effects &^= e
	}
}

func (tp TimingPoint) String() string {
	uninherited := "0"
	if tp.Uninherited {
		uninherited = "1"
	}
	return strings.Join([]string{
		formatFloat(tp.Time),
		formatFloat(tp.BeatLength),
		strconv.Itoa(tp.Meter),
		strconv.Itoa(int(tp.SampleSet)),
		strconv.Itoa(tp.SampleIndex),
		strconv.Itoa(tp.Volume),
		uninherited,
		strconv.Itoa(int(tp.Effects)),
	}, ",")
}

// ParseTimingPoint reads a v14 [TimingPoints] line, which always carries
// all eight fields.
func ParseTimingPoint(line string) (TimingPoint, error) {
	f := strings.Split(line, ",")
	if len(f) != 8 {
		return TimingPoint{}, fmt.Errorf("timing point: want 8 fields, got %d", len(f))
	}
	var (
		tp  TimingPoint
		err error
	)
	if tp.Time, err = parseFloat(f[0]); err != nil {
		return tp, fmt.Errorf("timing point time: %w", err)
	}
	bl, err := strconv.ParseFloat(strings.TrimSpace(f[1]), 64)
	if err != nil {
		return tp, fmt.Errorf("timing point beat length: invalid number %q", f[1])
	}
	tp.BeatLength = bl
	if tp.Meter, err = parseInt(f[2]); err != nil {
		return tp, fmt.Errorf("timing point meter: %w", err)
	}
	if tp.SampleSet, err = parseSampleSet(f[3]); err != nil {
		return tp, err
	}
	if tp.SampleIndex, err = parseInt(f[4]); err != nil {
		return tp, fmt.Errorf("timing point sample index: %w", err)
	}
	if tp.SampleIndex < 0 {
		return tp, fmt.Errorf("negative sample index %d", tp.SampleIndex)
	}
	if tp.Volume, err = parseInt(f[5]); err != nil {
		return tp, fmt.Errorf("timing point volume: %w", err)
	}
	if tp.Volume < 0 || tp.Volume > 100 {
		return tp, fmt.Errorf("volume %d outside [0,100]", tp.Volume)
	}
	if tp.Uninherited, err = parseBool(f[6]); err != nil {
		return tp, fmt.Errorf("timing point uninherited flag: %w", err)
	}
	e, err := parseInt(f[7])
	if err != nil || e < 0 {
		return tp, fmt.Errorf("invalid effects %q", f[7])
	}
	tp.Effects = Effects(e)

	if tp.Uninherited {
		if !(tp.BeatLength > 0) || math.IsInf(tp.BeatLength, 0) {
			return tp, fmt.Errorf("uninherited timing point needs a positive beat length, got %q", f[1])
		}
		if tp.Meter <= 0 {
			return tp, fmt.Errorf("meter %d must be positive", tp.Meter)
		}
	}
	return tp, nil
}

// TimingAt returns the uninherited point governing time t and the inherited
// point in effect, if any. The uninherited point is the latest one at or
// before t, or the first one when t precedes them all. The inherited point
// is the latest one at or before t that is not older than that uninherited
// point. Ties on time go to the later line.
func TimingAt(points []TimingPoint, t float64) (uninherited, inherited *TimingPoint) {
	var first *TimingPoint
	for i := range points {
		p := &points[i]
		if !p.Uninherited {
			continue
		}
		if first == nil || p.Time < first.Time {
			first = p
		}
		if p.Time <= t && (uninherited == nil || p.Time >= uninherited.Time) {
			uninherited = p
		}
	}
	if uninherited == nil {
		uninherited = first
	}
	if uninherited == nil {
		return nil, nil
	}
	for i := range points {
		p := &points[i]
		if p.Uninherited || p.Time > t || p.Time < uninherited.Time {
			continue
		}
		if inherited == nil || p.Time >= inherited.Time {
			inherited = p
		}
	}
	return uninherited, inherited
}

func (b *Beatmap) TimingAt(t float64) (uninherited, inherited *TimingPoint) {
	return TimingAt(b.TimingPoints, t)
}

func clampFloat(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
