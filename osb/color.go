package osb

import (
	"fmt"
	"strconv"
	"strings"
)

// Color3 is an RGB colour. Channels are clamped to [0,255] on construction.
type Color3 struct{ R, G, B int }

func RGB(r, g, b int) Color3 {
	return Color3{R: clampInt(r, 0, 255), G: clampInt(g, 0, 255), B: clampInt(b, 0, 255)}
}

// Hex parses "#RRGGBB" (the leading '#' is optional).
func Hex(s string) (Color3, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 {
		return Color3{}, fmt.Errorf("invalid hex colour %q", s)
	}
	n, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color3{}, fmt.Errorf("invalid hex colour %q: %w", s, err)
	}
	return RGB(int(n>>16&0xff), int(n>>8&0xff), int(n&0xff)), nil
}

// MustHex is Hex for literals; it panics on malformed input.
func MustHex(s string) Color3 {
	c, err := Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseColor3 reads "r,g,b". Out-of-range channels are clamped.
func ParseColor3(s string) (Color3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return Color3{}, fmt.Errorf("colour %q: want 3 channels, got %d", s, len(parts))
	}
	var ch [3]int
	for i, p := range parts {
		v, err := parseFloat(p)
		if err != nil {
			return Color3{}, fmt.Errorf("colour %q: %w", s, err)
		}
		ch[i] = int(v)
	}
	return RGB(ch[0], ch[1], ch[2]), nil
}

func (c Color3) Hex() string { return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B) }

func (c Color3) String() string {
	return strconv.Itoa(c.R) + "," + strconv.Itoa(c.G) + "," + strconv.Itoa(c.B)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
