package osb

import (
	"errors"
	"strings"
	"testing"
)

func TestSpriteString(t *testing.T) {
	s := NewSprite("x.png", LayerBackground, Centre, Vec(320, 240))
	s.Fade(0, 1000, 0, 1)
	s.FlipH(5000, 6000)

	want := "Sprite,Background,Centre,\"x.png\",320,240\n" +
		" F,0,0,1000,0,1\n" +
		" P,0,5000,6000,H\n"
	if got := s.String(); got != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", got, want)
	}
}

func TestCommandEndValueOmission(t *testing.T) {
	same := newCommand(EventScale, Linear, 0, 100, Number(1), Number(1))
	if n := len(strings.Split(same.String(), ",")); n != 5 {
		t.Errorf("expected 5 fields for equal values, got %d: %s", n, same)
	}
	diff := newCommand(EventScale, QuadOut, 0, 100, Number(1), Number(2))
	if n := len(strings.Split(diff.String(), ",")); n != 6 {
		t.Errorf("expected 6 fields, got %d: %s", n, diff)
	}
	param := Command{Event: EventParameter, StartTime: 0, EndTime: 10, StartValue: Additive, EndValue: FlipV}
	if n := len(strings.Split(param.String(), ",")); n != 5 {
		t.Errorf("expected 5 fields for P, got %d: %s", n, param)
	}
	move := newCommand(EventMove, Linear, 0, 0, Vec(1, 2), Vec(1, 2))
	if move.String() != "M,0,0,0,1,2" {
		t.Errorf("unexpected move %q", move)
	}
}

func TestNewCommandValidation(t *testing.T) {
	if _, err := NewCommand(EventMove, Linear, 0, 1, Number(1), nil); err == nil {
		t.Errorf("expected error for number on M")
	}
	if _, err := NewCommand(EventParameter, Linear, 0, 1, FlipH, FlipV); err == nil {
		t.Errorf("expected error for P end value")
	}
	if _, err := NewCommand(EventColour, Easing(40), 0, 1, RGB(1, 2, 3), nil); err == nil {
		t.Errorf("expected error for easing 40")
	}
	c, err := NewCommand(EventColour, Linear, 0, 1, RGB(1, 2, 3), RGB(1, 2, 3))
	if err != nil {
		t.Fatalf("NewCommand failed: %v", err)
	}
	if c.EndValue != nil || c.End() != RGB(1, 2, 3) {
		t.Errorf("equal end value not normalised: %+v", c)
	}
}

func TestGroupStateMachine(t *testing.T) {
	s := NewSprite("dot.png", LayerForeground, Centre, Vec(0, 0))
	s.Fade(0, 0, 1, 1)
	if err := s.StartLoopGroup(1000, 4); err != nil {
		t.Fatalf("StartLoopGroup failed: %v", err)
	}
	s.Scale(0, 500, 1, 2)
	s.Scale(500, 1000, 2, 1)

	if err := s.StartTriggerGroup("Passing", 0, 100); !errors.Is(err, ErrState) {
		t.Fatalf("expected state error, got %v", err)
	}
	if err := s.StartLoopGroup(0, 1); !errors.Is(err, ErrState) {
		t.Fatalf("expected state error, got %v", err)
	}
	s.EndGroup()
	s.EndGroup()
	if err := s.StartTriggerGroup("HitSoundSoftClap", 2000, 3000); err != nil {
		t.Fatalf("StartTriggerGroup failed: %v", err)
	}
	s.Color(0, 100, MustHex("#FF0000"), RGB(255, 255, 255))
	s.EndGroup()
	s.Fade(5000, 6000, 1, 0)

	want := "Sprite,Foreground,Centre,\"dot.png\",0,0\n" +
		" F,0,0,0,1\n" +
		" L,1000,4\n" +
		"  S,0,0,500,1,2\n" +
		"  S,0,500,1000,2,1\n" +
		" T,HitSoundSoftClap,2000,3000\n" +
		"  C,0,0,100,255,0,0,255,255,255\n" +
		" F,0,5000,6000,1,0\n"
	if got := s.String(); got != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", got, want)
	}

	start, end, ok := s.Span()
	if !ok || start != 0 || end != 6000 {
		t.Errorf("unexpected span %d..%d (%v)", start, end, ok)
	}
}

func TestTriggerValidation(t *testing.T) {
	for _, ok := range []string{"Passing", "Failing", "HitSound", "HitSoundClap", "HitSoundDrumWhistle", "HitSoundAllSoftFinish3"} {
		if !ValidTrigger(ok) {
			t.Errorf("expected %q to be valid", ok)
		}
	}
	for _, bad := range []string{"", "Hitsound", "HitSoundClapWhistle", "Passing1"} {
		if ValidTrigger(bad) {
			t.Errorf("expected %q to be invalid", bad)
		}
	}
	s := NewSprite("a.png", LayerPass, Centre, Vec(0, 0))
	if err := s.StartTriggerGroup("Bogus", 0, 1); err == nil {
		t.Errorf("expected error for bogus trigger")
	}
	if s.GroupOpen() {
		t.Errorf("group opened despite error")
	}
}

func TestLoopSpan(t *testing.T) {
	s := NewSprite("a.png", LayerPass, Centre, Vec(0, 0))
	if err := s.StartLoopGroup(1000, 3); err != nil {
		t.Fatal(err)
	}
	s.Fade(0, 200, 0, 1)
	s.EndGroup()
	start, end, ok := s.Span()
	if !ok || start != 1000 || end != 1600 {
		t.Errorf("unexpected loop span %d..%d", start, end)
	}
}

func TestAnimationString(t *testing.T) {
	a := NewAnimation("sb/star.png", LayerOverlay, TopLeft, Vec(10.5, 20), 4, 83.5, LoopOnce)
	a.Rotate(0, 1000, 0, 3.14)
	want := "Animation,Overlay,TopLeft,\"sb/star.png\",10.5,20,4,83.5,LoopOnce\n R,0,0,1000,0,3.14\n"
	if a.String() != want {
		t.Fatalf("unexpected output:\n%s", a.String())
	}
	if a.FramePath(2) != "sb/star2.png" {
		t.Errorf("unexpected frame path %q", a.FramePath(2))
	}
}
