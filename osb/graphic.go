package osb

import (
	"strconv"
	"strings"
)

// Component is a node of a storyboard tree: a *Container or an Element.
type Component interface {
	component()
}

// Element is a placeable storyboard object.
type Element interface {
	Component
	// String renders the declaration line followed by its command lines.
	String() string
	bucket() bucket
}

// Commandable is implemented by elements that own a command list.
type Commandable interface {
	Element
	CommandList() *Commands
}

type bucket int

const (
	bucketMedia bucket = iota
	bucketBackground
	bucketFail
	bucketPass
	bucketForeground
	bucketOverlay
	bucketSamples

	bucketCount
)

var bucketHeaders = [bucketCount]string{
	"//Background and Video events",
	"//Storyboard Layer 0 (Background)",
	"//Storyboard Layer 1 (Fail)",
	"//Storyboard Layer 2 (Pass)",
	"//Storyboard Layer 3 (Foreground)",
	"//Storyboard Layer 4 (Overlay)",
	"//Storyboard Sound Samples",
}

func layerBucket(l Layer) bucket { return bucketBackground + bucket(l) }

type Sprite struct {
	Commands
	Path     string
	Layer    Layer
	Origin   Origin
	Position Vector2
}

func NewSprite(path string, layer Layer, origin Origin, pos Vector2) *Sprite {
	return &Sprite{Path: path, Layer: layer, Origin: origin, Position: pos}
}

func (*Sprite) component()               {}
func (s *Sprite) bucket() bucket         { return layerBucket(s.Layer) }
func (s *Sprite) CommandList() *Commands { return &s.Commands }

func (s *Sprite) header() string {
	return "Sprite," + s.Layer.String() + "," + s.Origin.String() + "," + quote(s.Path) + "," + s.Position.String()
}

func (s *Sprite) String() string {
	var b strings.Builder
	writeLine(&b, 0, s.header())
	s.writeTo(&b)
	return b.String()
}

// Animation is a sprite cycling through Path with the frame index inserted
// before the extension.
type Animation struct {
	Sprite
	FrameCount int
	FrameDelay float64
	LoopType   LoopType
}

func NewAnimation(path string, layer Layer, origin Origin, pos Vector2, frames int, delay float64, loop LoopType) *Animation {
	return &Animation{
		Sprite:     Sprite{Path: path, Layer: layer, Origin: origin, Position: pos},
		FrameCount: frames,
		FrameDelay: delay,
		LoopType:   loop,
	}
}

func (a *Animation) String() string {
	var b strings.Builder
	writeLine(&b, 0, "Animation,"+a.Layer.String()+","+a.Origin.String()+","+quote(a.Path)+","+a.Position.String()+
		","+strconv.Itoa(a.FrameCount)+","+formatFloat(a.FrameDelay)+","+a.LoopType.String())
	a.writeTo(&b)
	return b.String()
}

// FramePath is the file shown for frame i.
func (a *Animation) FramePath(i int) string {
	dot := strings.LastIndexByte(a.Path, '.')
	if dot < 0 {
		return a.Path + strconv.Itoa(i)
	}
	return a.Path[:dot] + strconv.Itoa(i) + a.Path[dot:]
}

type Video struct {
	Commands
	StartTime Timestamp
	Path      string
	Offset    Vector2
}

func NewVideo(path string, start Timestamp, offset Vector2) *Video {
	return &Video{Path: path, StartTime: start, Offset: offset}
}

func (*Video) component()               {}
func (*Video) bucket() bucket           { return bucketMedia }
func (v *Video) CommandList() *Commands { return &v.Commands }

func (v *Video) String() string {
	var b strings.Builder
	writeLine(&b, 0, "Video,"+v.StartTime.String()+","+quote(v.Path)+","+v.Offset.String())
	v.writeTo(&b)
	return b.String()
}

// Background is the beatmap's static background image.
type Background struct {
	Commands
	Path   string
	Offset Vector2
}

func NewBackground(path string, offset Vector2) *Background {
	return &Background{Path: path, Offset: offset}
}

func (*Background) component()               {}
func (*Background) bucket() bucket           { return bucketMedia }
func (g *Background) CommandList() *Commands { return &g.Commands }

func (g *Background) String() string {
	var b strings.Builder
	writeLine(&b, 0, "0,0,"+quote(g.Path)+","+g.Offset.String())
	g.writeTo(&b)
	return b.String()
}

// Sample plays an audio file once at Time.
type Sample struct {
	Time   Timestamp
	Layer  SampleLayer
	Path   string
	Volume int
}

// NewSample clamps volume to [0,100].
func NewSample(path string, t Timestamp, layer SampleLayer, volume int) *Sample {
	return &Sample{Time: t, Layer: layer, Path: path, Volume: clampInt(volume, 0, 100)}
}

func (*Sample) component()     {}
func (*Sample) bucket() bucket { return bucketSamples }

func (s *Sample) String() string {
	return "Sample," + s.Time.String() + "," + s.Layer.String() + "," + quote(s.Path) + "," + strconv.Itoa(s.Volume) + "\n"
}

// Break is a gameplay break period. It lives in the Events section next to
// the background and video.
type Break struct {
	Start, End Timestamp
}

func (*Break) component()     {}
func (*Break) bucket() bucket { return bucketMedia }

func (b *Break) String() string {
	return "2," + b.Start.String() + "," + b.End.String() + "\n"
}

func quote(p string) string { return `"` + p + `"` }
