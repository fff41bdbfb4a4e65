package osb

import (
	"fmt"
	"regexp"
	"strings"
)

// Event is the one- or two-letter tag of a typed command.
type Event string

const (
	EventFade        Event = "F"
	EventMove        Event = "M"
	EventMoveX       Event = "MX"
	EventMoveY       Event = "MY"
	EventScale       Event = "S"
	EventVectorScale Event = "V"
	EventRotate      Event = "R"
	EventColour      Event = "C"
	EventParameter   Event = "P"
)

// arity is the number of comma-separated tokens one value of e occupies.
func (e Event) arity() int {
	switch e {
	case EventFade, EventMoveX, EventMoveY, EventScale, EventRotate, EventParameter:
		return 1
	case EventMove, EventVectorScale:
		return 2
	case EventColour:
		return 3
	}
	return 0
}

func (e Event) Valid() bool { return e.arity() > 0 }

// Value is a command operand: Number, Vector2, Color3 or Param.
type Value interface {
	String() string
	value()
}

type Number float64

func (n Number) String() string { return formatFloat(float64(n)) }

func (Number) value()  {}
func (Vector2) value() {}
func (Color3) value()  {}
func (Param) value()   {}

// Param is the operand of a P command.
type Param string

const (
	FlipH    Param = "H"
	FlipV    Param = "V"
	Additive Param = "A"
)

func (p Param) String() string { return string(p) }

// Command is a single timed transformation. EndValue is nil when the value
// does not change over [StartTime, EndTime].
type Command struct {
	Event      Event
	Easing     Easing
	StartTime  Timestamp
	EndTime    Timestamp
	StartValue Value
	EndValue   Value
}

// NewCommand checks that the operands fit the event and normalises an end
// value equal to the start value away.
func NewCommand(ev Event, ease Easing, start, end Timestamp, from, to Value) (Command, error) {
	if !ev.Valid() {
		return Command{}, fmt.Errorf("unknown command %q", string(ev))
	}
	if !ease.Valid() {
		return Command{}, fmt.Errorf("easing %d out of range", int(ease))
	}
	if err := checkValue(ev, from); err != nil {
		return Command{}, err
	}
	if to != nil {
		if ev == EventParameter {
			return Command{}, fmt.Errorf("P command takes no end value")
		}
		if err := checkValue(ev, to); err != nil {
			return Command{}, err
		}
	}
	return newCommand(ev, ease, start, end, from, to), nil
}

func newCommand(ev Event, ease Easing, start, end Timestamp, from, to Value) Command {
	if to != nil && to == from {
		to = nil
	}
	return Command{Event: ev, Easing: ease, StartTime: start, EndTime: end, StartValue: from, EndValue: to}
}

func checkValue(ev Event, v Value) error {
	ok := false
	switch v := v.(type) {
	case Number:
		ok = ev.arity() == 1 && ev != EventParameter
	case Vector2:
		ok = ev == EventMove || ev == EventVectorScale
	case Color3:
		ok = ev == EventColour
	case Param:
		ok = ev == EventParameter && (v == FlipH || v == FlipV || v == Additive)
	}
	if !ok {
		return fmt.Errorf("value %v (%T) does not fit command %s", v, v, ev)
	}
	return nil
}

// End is the value at EndTime.
func (c Command) End() Value {
	if c.EndValue == nil {
		return c.StartValue
	}
	return c.EndValue
}

func (c Command) String() string {
	var b strings.Builder
	b.WriteString(string(c.Event))
	b.WriteByte(',')
	b.WriteString(c.Easing.String())
	b.WriteByte(',')
	b.WriteString(c.StartTime.String())
	b.WriteByte(',')
	b.WriteString(c.EndTime.String())
	b.WriteByte(',')
	b.WriteString(c.StartValue.String())
	if c.Event != EventParameter && c.EndValue != nil && c.EndValue != c.StartValue {
		b.WriteByte(',')
		b.WriteString(c.EndValue.String())
	}
	return b.String()
}

// Instruction is one entry of a graphic's command list: a Command, a *Loop
// or a *Trigger. Compound entries hold only plain Commands.
type Instruction interface {
	instruction()
}

func (Command) instruction()  {}
func (*Loop) instruction()    {}
func (*Trigger) instruction() {}

type Loop struct {
	StartTime Timestamp
	Count     int
	Commands  []Command
}

func (l *Loop) add(c Command) { l.Commands = append(l.Commands, c) }

func (l *Loop) header() string {
	return "L," + l.StartTime.String() + "," + fmt.Sprint(l.Count)
}

// Trigger runs its commands when the named gameplay event fires inside
// [StartTime, EndTime].
type Trigger struct {
	Type      string
	StartTime Timestamp
	EndTime   Timestamp
	Commands  []Command
}

func (t *Trigger) add(c Command) { t.Commands = append(t.Commands, c) }

func (t *Trigger) header() string {
	return "T," + t.Type + "," + t.StartTime.String() + "," + t.EndTime.String()
}

var triggerPattern = regexp.MustCompile(`^(?:Passing|Failing|HitSound(?:All|Normal|Soft|Drum)?(?:All|Normal|Soft|Drum)?(?:Whistle|Finish|Clap)?[0-9]*)$`)

// ValidTrigger reports whether s names a trigger condition.
func ValidTrigger(s string) bool { return triggerPattern.MatchString(s) }

type group interface {
	Instruction
	add(Command)
}

type builderState uint8

const (
	stateIdle builderState = iota
	stateGroupOpen
)

// Commands accumulates a graphic's instruction list. While a loop or
// trigger group is open every new command goes into that group.
type Commands struct {
	list  []Instruction
	state builderState
	open  group
}

func (c *Commands) add(cmd Command) {
	if c.state == stateGroupOpen {
		c.open.add(cmd)
		return
	}
	c.list = append(c.list, cmd)
}

func (c *Commands) startGroup(g group) error {
	if c.state == stateGroupOpen {
		return stateErrorf("a loop or trigger group is already open")
	}
	c.list = append(c.list, g)
	c.state, c.open = stateGroupOpen, g
	return nil
}

// StartLoopGroup opens a loop repeated count times from start.
func (c *Commands) StartLoopGroup(start Timestamp, count int) error {
	if count < 1 {
		return fmt.Errorf("loop count %d must be positive", count)
	}
	return c.startGroup(&Loop{StartTime: start, Count: count})
}

// StartTriggerGroup opens a trigger group for the given condition.
func (c *Commands) StartTriggerGroup(trigger string, start, end Timestamp) error {
	if !ValidTrigger(trigger) {
		return fmt.Errorf("invalid trigger %q", trigger)
	}
	return c.startGroup(&Trigger{Type: trigger, StartTime: start, EndTime: end})
}

// EndGroup closes the open group, if any.
func (c *Commands) EndGroup() {
	c.state, c.open = stateIdle, nil
}

// GroupOpen reports whether new commands go into a loop or trigger.
func (c *Commands) GroupOpen() bool { return c.state == stateGroupOpen }

func (c *Commands) Instructions() []Instruction { return c.list }

// Append adds pre-built commands, honouring an open group.
func (c *Commands) Append(cmds ...Command) {
	for _, cmd := range cmds {
		c.add(cmd)
	}
}

func ease(e []Easing) Easing {
	if len(e) > 0 {
		return e[0]
	}
	return Linear
}

func (c *Commands) Fade(start, end Timestamp, from, to float64, easing ...Easing) {
	c.add(newCommand(EventFade, ease(easing), start, end, Number(from), Number(to)))
}

func (c *Commands) Move(start, end Timestamp, from, to Vector2, easing ...Easing) {
	c.add(newCommand(EventMove, ease(easing), start, end, from, to))
}

func (c *Commands) MoveX(start, end Timestamp, from, to float64, easing ...Easing) {
	c.add(newCommand(EventMoveX, ease(easing), start, end, Number(from), Number(to)))
}

func (c *Commands) MoveY(start, end Timestamp, from, to float64, easing ...Easing) {
	c.add(newCommand(EventMoveY, ease(easing), start, end, Number(from), Number(to)))
}

func (c *Commands) Scale(start, end Timestamp, from, to float64, easing ...Easing) {
	c.add(newCommand(EventScale, ease(easing), start, end, Number(from), Number(to)))
}

func (c *Commands) ScaleVec(start, end Timestamp, from, to Vector2, easing ...Easing) {
	c.add(newCommand(EventVectorScale, ease(easing), start, end, from, to))
}

// Rotate takes angles in radians.
func (c *Commands) Rotate(start, end Timestamp, from, to float64, easing ...Easing) {
	c.add(newCommand(EventRotate, ease(easing), start, end, Number(from), Number(to)))
}

func (c *Commands) Color(start, end Timestamp, from, to Color3, easing ...Easing) {
	c.add(newCommand(EventColour, ease(easing), start, end, from, to))
}

func (c *Commands) FlipH(start, end Timestamp) {
	c.add(newCommand(EventParameter, Linear, start, end, FlipH, nil))
}

func (c *Commands) FlipV(start, end Timestamp) {
	c.add(newCommand(EventParameter, Linear, start, end, FlipV, nil))
}

func (c *Commands) Additive(start, end Timestamp) {
	c.add(newCommand(EventParameter, Linear, start, end, Additive, nil))
}

// Span is the interval during which any command is active. Loops span
// Count repetitions of their body. ok is false with no commands.
func (c *Commands) Span() (start, end Timestamp, ok bool) {
	grow := func(s, e Timestamp) {
		if !ok {
			start, end, ok = s, e, true
			return
		}
		start, end = min(start, s), max(end, e)
	}
	for _, in := range c.list {
		switch in := in.(type) {
		case Command:
			grow(in.StartTime, in.EndTime)
		case *Loop:
			if s, e, has := commandSpan(in.Commands); has {
				grow(in.StartTime+s, in.StartTime+s+Timestamp(in.Count)*(e-s))
			}
		case *Trigger:
			grow(in.StartTime, in.EndTime)
		}
	}
	return
}

func commandSpan(cmds []Command) (start, end Timestamp, ok bool) {
	for i, c := range cmds {
		if i == 0 {
			start, end = c.StartTime, c.EndTime
			continue
		}
		start, end = min(start, c.StartTime), max(end, c.EndTime)
	}
	return start, end, len(cmds) > 0
}

func (c *Commands) writeTo(b *strings.Builder) {
	for _, in := range c.list {
		switch in := in.(type) {
		case Command:
			writeLine(b, 1, in.String())
		case *Loop:
			writeLine(b, 1, in.header())
			for _, child := range in.Commands {
				writeLine(b, 2, child.String())
			}
		case *Trigger:
			writeLine(b, 1, in.header())
			for _, child := range in.Commands {
				writeLine(b, 2, child.String())
			}
		default:
			panic(fmt.Sprintf("osb: unexpected instruction %T", in))
		}
	}
}

func writeLine(b *strings.Builder, depth int, s string) {
	for i := 0; i < depth; i++ {
		b.WriteByte(' ')
	}
	b.WriteString(s)
	b.WriteByte('\n')
}
