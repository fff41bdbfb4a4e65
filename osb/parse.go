package osb

import (
	"bufio"
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

type section int

const (
	secEvents section = iota
	secVariables
)

// Decoder turns storyboard event lines into a Container. Lines are fed one
// at a time; the decoder keeps the graphic that indented command lines
// attach to.
type Decoder struct {
	root    *Container
	current Commandable
	vars    []variable
}

type variable struct{ name, value string }

func NewDecoder() *Decoder { return &Decoder{root: &Container{}} }

// Define registers a $variable substituted into every later event line.
func (d *Decoder) Define(name, value string) {
	if !strings.HasPrefix(name, "$") {
		name = "$" + name
	}
	d.vars = append(d.vars, variable{name, value})
	slices.SortStableFunc(d.vars, func(a, b variable) int {
		return cmp.Compare(len(b.name), len(a.name))
	})
}

// Container finishes decoding and returns the root.
func (d *Decoder) Container() *Container {
	if d.current != nil {
		d.current.CommandList().EndGroup()
	}
	return d.root
}

// DecodeLine consumes one line of an [Events] section. n is the 1-based
// line number used in errors. Blank and comment lines are skipped.
func (d *Decoder) DecodeLine(n int, raw string) error {
	line := StripComment(raw)
	if strings.TrimSpace(line) == "" {
		return nil
	}
	line = d.substitute(line)

	depth := 0
	for depth < len(line) && (line[depth] == ' ' || line[depth] == '_') {
		depth++
	}
	body := strings.TrimSpace(line[depth:])

	switch depth {
	case 0:
		return d.declare(n, raw, body)
	case 1, 2:
		if d.current == nil {
			return Formatf(n, raw, "command outside of a sprite")
		}
		return d.command(n, raw, body, depth)
	}
	return Formatf(n, raw, "indentation depth %d exceeds 2", depth)
}

func (d *Decoder) substitute(line string) string {
	if len(d.vars) == 0 || !strings.Contains(line, "$") {
		return line
	}
	for _, v := range d.vars {
		line = strings.ReplaceAll(line, v.name, v.value)
	}
	return line
}

func (d *Decoder) declare(n int, raw, body string) error {
	if d.current != nil {
		d.current.CommandList().EndGroup()
		d.current = nil
	}
	f := SplitFields(body)
	var (
		e   Element
		err error
	)
	switch f[0] {
	case "Sprite", "4":
		e, err = parseSprite(f)
	case "Animation", "6":
		e, err = parseAnimation(f)
	case "Sample", "5":
		e, err = parseSample(f)
	case "Video", "1":
		e, err = parseVideo(f)
	case "Background", "0":
		e, err = parseBackground(f)
	case "Break", "2":
		e, err = parseBreak(f)
	default:
		return Formatf(n, raw, "unsupported event %q", f[0])
	}
	if err != nil {
		return &FormatError{Line: n, Text: raw, Err: err}
	}
	if c, ok := e.(Commandable); ok {
		d.current = c
	}
	d.root.children = append(d.root.children, e)
	return nil
}

func wantFields(f []string, lo, hi int) error {
	if len(f) < lo || len(f) > hi {
		if lo == hi {
			return fmt.Errorf("%s: want %d fields, got %d", f[0], lo, len(f))
		}
		return fmt.Errorf("%s: want %d to %d fields, got %d", f[0], lo, hi, len(f))
	}
	return nil
}

func parseSprite(f []string) (*Sprite, error) {
	if err := wantFields(f, 6, 6); err != nil {
		return nil, err
	}
	return spriteFields(f)
}

func spriteFields(f []string) (*Sprite, error) {
	layer, err := ParseLayer(f[1])
	if err != nil {
		return nil, err
	}
	origin, err := ParseOrigin(f[2])
	if err != nil {
		return nil, err
	}
	pos, err := vectorFields(f[4], f[5])
	if err != nil {
		return nil, err
	}
	return NewSprite(f[3], layer, origin, pos), nil
}

func parseAnimation(f []string) (*Animation, error) {
	if err := wantFields(f, 8, 9); err != nil {
		return nil, err
	}
	s, err := spriteFields(f)
	if err != nil {
		return nil, err
	}
	frames, err := strconv.Atoi(f[6])
	if err != nil || frames < 1 {
		return nil, fmt.Errorf("invalid frame count %q", f[6])
	}
	delay, err := parseFloat(f[7])
	if err != nil || delay < 0 {
		return nil, fmt.Errorf("invalid frame delay %q", f[7])
	}
	loop := LoopForever
	if len(f) == 9 {
		if loop, err = parseLoopType(f[8]); err != nil {
			return nil, err
		}
	}
	return &Animation{Sprite: *s, FrameCount: frames, FrameDelay: delay, LoopType: loop}, nil
}

func parseSample(f []string) (*Sample, error) {
	if err := wantFields(f, 4, 5); err != nil {
		return nil, err
	}
	t, err := parseTime(f[1])
	if err != nil {
		return nil, fmt.Errorf("invalid sample time %q", f[1])
	}
	layer, err := ParseSampleLayer(f[2])
	if err != nil {
		return nil, err
	}
	volume := 100
	if len(f) == 5 {
		if volume, err = strconv.Atoi(f[4]); err != nil {
			return nil, fmt.Errorf("invalid volume %q", f[4])
		}
	}
	return NewSample(f[3], t, layer, volume), nil
}

func parseVideo(f []string) (*Video, error) {
	if err := wantFields(f, 3, 5); err != nil {
		return nil, err
	}
	t, err := parseTime(f[1])
	if err != nil {
		return nil, fmt.Errorf("invalid video start %q", f[1])
	}
	off, err := optionalOffset(f)
	if err != nil {
		return nil, err
	}
	return NewVideo(f[2], t, off), nil
}

func parseBackground(f []string) (*Background, error) {
	if err := wantFields(f, 3, 5); err != nil {
		return nil, err
	}
	off, err := optionalOffset(f)
	if err != nil {
		return nil, err
	}
	return NewBackground(f[2], off), nil
}

func parseBreak(f []string) (*Break, error) {
	if err := wantFields(f, 3, 3); err != nil {
		return nil, err
	}
	start, err := parseTime(f[1])
	if err != nil {
		return nil, fmt.Errorf("invalid break start %q", f[1])
	}
	end, err := parseTime(f[2])
	if err != nil {
		return nil, fmt.Errorf("invalid break end %q", f[2])
	}
	if end < start {
		return nil, fmt.Errorf("break ends before it starts")
	}
	return &Break{Start: start, End: end}, nil
}

func optionalOffset(f []string) (Vector2, error) {
	switch len(f) {
	case 3:
		return Vector2{}, nil
	case 5:
		return vectorFields(f[3], f[4])
	}
	return Vector2{}, fmt.Errorf("%s: offset needs both x and y", f[0])
}

func vectorFields(xs, ys string) (Vector2, error) {
	x, err := parseFloat(xs)
	if err != nil {
		return Vector2{}, fmt.Errorf("invalid x %q", xs)
	}
	y, err := parseFloat(ys)
	if err != nil {
		return Vector2{}, fmt.Errorf("invalid y %q", ys)
	}
	return Vector2{x, y}, nil
}

func (d *Decoder) command(n int, raw, body string, depth int) error {
	cl := d.current.CommandList()
	f := strings.Split(body, ",")
	for i := range f {
		f[i] = strings.TrimSpace(f[i])
	}

	if depth == 1 {
		cl.EndGroup()
		switch f[0] {
		case "L":
			if len(f) != 3 {
				return Formatf(n, raw, "loop: want 3 fields, got %d", len(f))
			}
			start, err := parseTime(f[1])
			if err != nil {
				return Formatf(n, raw, "invalid loop start %q", f[1])
			}
			count, err := strconv.Atoi(f[2])
			if err != nil {
				return Formatf(n, raw, "invalid loop count %q", f[2])
			}
			if err := cl.StartLoopGroup(start, count); err != nil {
				return &FormatError{Line: n, Text: raw, Err: err}
			}
			return nil
		case "T":
			if len(f) != 4 {
				return Formatf(n, raw, "trigger: want 4 fields, got %d", len(f))
			}
			start, err := parseTime(f[2])
			if err != nil {
				return Formatf(n, raw, "invalid trigger start %q", f[2])
			}
			end, err := parseTime(f[3])
			if err != nil {
				return Formatf(n, raw, "invalid trigger end %q", f[3])
			}
			if err := cl.StartTriggerGroup(f[1], start, end); err != nil {
				return &FormatError{Line: n, Text: raw, Err: err}
			}
			return nil
		}
	} else if !cl.GroupOpen() {
		return Formatf(n, raw, "nested command outside of a loop or trigger")
	}

	cmds, err := parseCommand(f)
	if err != nil {
		return &FormatError{Line: n, Text: raw, Err: err}
	}
	cl.Append(cmds...)
	return nil
}

// parseCommand decodes "<event>,<easing>,<start>,[<end>],<values...>".
// More than two value groups is the chained shorthand: each further group
// becomes another command of the same duration.
func parseCommand(f []string) ([]Command, error) {
	ev := Event(f[0])
	if !ev.Valid() {
		return nil, fmt.Errorf("unknown command %q", f[0])
	}
	if len(f) < 5 {
		return nil, fmt.Errorf("%s: want at least 5 fields, got %d", ev, len(f))
	}
	easing, err := parseEasing(f[1])
	if err != nil {
		return nil, err
	}
	start, err := parseTime(f[2])
	if err != nil {
		return nil, fmt.Errorf("invalid start time %q", f[2])
	}
	end := start
	if f[3] != "" {
		if end, err = parseTime(f[3]); err != nil {
			return nil, fmt.Errorf("invalid end time %q", f[3])
		}
	}

	tokens, arity := f[4:], ev.arity()
	if len(tokens)%arity != 0 {
		return nil, fmt.Errorf("%s: %d value fields is not a multiple of %d", ev, len(tokens), arity)
	}
	values := make([]Value, 0, len(tokens)/arity)
	for i := 0; i < len(tokens); i += arity {
		v, err := parseValue(ev, tokens[i:i+arity])
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	if ev == EventParameter && len(values) != 1 {
		return nil, fmt.Errorf("P: want exactly one parameter, got %d", len(values))
	}

	switch len(values) {
	case 1:
		return []Command{newCommand(ev, easing, start, end, values[0], nil)}, nil
	case 2:
		return []Command{newCommand(ev, easing, start, end, values[0], values[1])}, nil
	}
	dur := end - start
	cmds := make([]Command, 0, len(values)-1)
	for i := 0; i+1 < len(values); i++ {
		s := start + Timestamp(i)*dur
		cmds = append(cmds, newCommand(ev, easing, s, s+dur, values[i], values[i+1]))
	}
	return cmds, nil
}

func parseValue(ev Event, tok []string) (Value, error) {
	switch ev {
	case EventParameter:
		p := Param(tok[0])
		if p != FlipH && p != FlipV && p != Additive {
			return nil, fmt.Errorf("unknown parameter %q", tok[0])
		}
		return p, nil
	case EventMove, EventVectorScale:
		return vectorFields(tok[0], tok[1])
	case EventColour:
		return ParseColor3(strings.Join(tok, ","))
	}
	v, err := parseFloat(tok[0])
	if err != nil {
		return nil, fmt.Errorf("%s: invalid value %q", ev, tok[0])
	}
	return Number(v), nil
}

// ParseStoryboard decodes a .osb file. The text may hold [Variables] and
// [Events] sections; lines before any section header are read as events.
func ParseStoryboard(text string) (*Container, error) {
	d := NewDecoder()
	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	sec := secEvents
	n := 0
	for sc.Scan() {
		n++
		raw := strings.TrimSuffix(sc.Text(), "\r")
		if n == 1 {
			raw = strings.TrimPrefix(raw, "\ufeff")
		}
		trimmed := strings.TrimSpace(raw)
		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			switch trimmed {
			case "[Events]":
				sec = secEvents
			case "[Variables]":
				sec = secVariables
			default:
				return nil, Formatf(n, raw, "unknown section %s", trimmed)
			}
			continue
		}
		switch sec {
		case secVariables:
			line := strings.TrimSpace(StripComment(raw))
			if line == "" {
				continue
			}
			name, value, ok := strings.Cut(line, "=")
			if !ok || !strings.HasPrefix(name, "$") || len(name) < 2 {
				return nil, Formatf(n, raw, "invalid variable definition")
			}
			d.Define(strings.TrimSpace(name), strings.TrimSpace(value))
		case secEvents:
			if err := d.DecodeLine(n, raw); err != nil {
				return nil, err
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return d.Container(), nil
}

// StripComment drops a trailing "//" comment outside double quotes.
func StripComment(line string) string {
	inQ := false
	for i := 0; i+1 < len(line); i++ {
		switch line[i] {
		case '"':
			inQ = !inQ
		case '/':
			if !inQ && line[i+1] == '/' {
				return line[:i]
			}
		}
	}
	return line
}

// SplitFields splits a comma-separated line, honouring double quotes and
// removing them from the result.
func SplitFields(line string) []string {
	var out []string
	var cur strings.Builder
	inQ := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch c {
		case '"':
			inQ = !inQ
		case ',':
			if inQ {
				cur.WriteByte(c)
			} else {
				out = append(out, strings.TrimSpace(cur.String()))
				cur.Reset()
			}
		default:
			cur.WriteByte(c)
		}
	}
	out = append(out, strings.TrimSpace(cur.String()))
	return out
}
