package osb

import (
	"errors"
	"testing"
)

func TestTimestampClock(t *testing.T) {
	ts, err := Clock("01:02:003")
	if err != nil {
		t.Fatalf("Clock failed: %v", err)
	}
	if ts.String() != "62003" {
		t.Fatalf("expected 62003, got %s", ts)
	}
	m, s, ms := Ms(62003).Components()
	if m != 1 || s != 2 || ms != 3 {
		t.Fatalf("expected 1:2:3, got %d:%d:%d", m, s, ms)
	}
	if Ms(62003).Clock() != "01:02:003" {
		t.Errorf("expected 01:02:003, got %s", Ms(62003).Clock())
	}
}

func TestTimestampClockClamps(t *testing.T) {
	ts := MustClock("99:75:1500")
	if ts != Timestamp(60*60_000+60*1000+999) {
		t.Fatalf("expected clamped components, got %d", ts)
	}
	if _, err := Clock("1:2"); err == nil {
		t.Fatalf("expected error for two components")
	}
	if _, err := Clock("aa:00:000"); err == nil {
		t.Fatalf("expected error for non-numeric minutes")
	}
}

func TestColor3(t *testing.T) {
	c, err := Hex("#FF8040")
	if err != nil {
		t.Fatalf("Hex failed: %v", err)
	}
	if c != (Color3{R: 255, G: 128, B: 64}) {
		t.Fatalf("expected 255,128,64, got %+v", c)
	}
	if c.String() != "255,128,64" {
		t.Errorf("unexpected string %q", c.String())
	}
	if c.Hex() != "#FF8040" {
		t.Errorf("unexpected hex %q", c.Hex())
	}
	if RGB(-5, 300, 7) != (Color3{0, 255, 7}) {
		t.Errorf("channels not clamped: %+v", RGB(-5, 300, 7))
	}
	if _, err := Hex("#12"); err == nil {
		t.Errorf("expected error for short hex")
	}
}

func TestVector2(t *testing.T) {
	v := Vec(1.5, -2).Add(Vec(0.25, 2))
	if v.String() != "1.75,0" {
		t.Fatalf("unexpected %q", v.String())
	}
	if Vec(320, 240).String() != "320,240" {
		t.Fatalf("unexpected %q", Vec(320, 240).String())
	}
	if _, err := Vec(1, 1).Div(0); !errors.Is(err, ErrGeometry) {
		t.Errorf("expected geometry error, got %v", err)
	}
	if _, err := (Vector2{}).Angle(); !errors.Is(err, ErrGeometry) {
		t.Errorf("expected geometry error, got %v", err)
	}
	p, err := ParseVector2("12.5, 7")
	if err != nil || p != Vec(12.5, 7) {
		t.Errorf("ParseVector2: %v %v", p, err)
	}
}

func TestEasingRange(t *testing.T) {
	if !BounceInOut.Valid() || int(BounceInOut) != 34 {
		t.Fatalf("expected BounceInOut == 34")
	}
	if _, err := parseEasing("35"); err == nil {
		t.Fatalf("expected error for easing 35")
	}
	if QuadOut.Name() != "QuadOut" {
		t.Errorf("unexpected name %q", QuadOut.Name())
	}
}

func TestSampleVolumeClamped(t *testing.T) {
	if s := NewSample("a.wav", 0, SampleBackground, 150); s.Volume != 100 {
		t.Errorf("expected 100, got %d", s.Volume)
	}
	if s := NewSample("a.wav", 0, SampleBackground, -3); s.Volume != 0 {
		t.Errorf("expected 0, got %d", s.Volume)
	}
}
