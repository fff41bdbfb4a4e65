package osb

import (
	"fmt"
	"strconv"
)

// Layer is the z-ordered bucket a graphic is drawn in.
type Layer uint8

const (
	LayerBackground Layer = iota
	LayerFail
	LayerPass
	LayerForeground
	LayerOverlay

	layerCount
)

var layerNames = [layerCount]string{"Background", "Fail", "Pass", "Foreground", "Overlay"}

func (l Layer) String() string {
	if l >= layerCount {
		return fmt.Sprintf("Layer(%d)", uint8(l))
	}
	return layerNames[l]
}

// ParseLayer accepts a layer name or its numeric index.
func ParseLayer(s string) (Layer, error) {
	for i, n := range layerNames {
		if n == s {
			return Layer(i), nil
		}
	}
	if v, err := strconv.Atoi(s); err == nil && v >= 0 && v < int(layerCount) {
		return Layer(v), nil
	}
	return 0, fmt.Errorf("unknown layer %q", s)
}

// SampleLayer numbers the layers an audio sample can play on. It has no
// Overlay member and is written numerically.
type SampleLayer uint8

const (
	SampleBackground SampleLayer = iota
	SampleFail
	SamplePass
	SampleForeground

	sampleLayerCount
)

func (l SampleLayer) String() string { return strconv.Itoa(int(l)) }

func (l SampleLayer) Name() string {
	if l >= sampleLayerCount {
		return fmt.Sprintf("SampleLayer(%d)", uint8(l))
	}
	return layerNames[l]
}

func ParseSampleLayer(s string) (SampleLayer, error) {
	if v, err := strconv.Atoi(s); err == nil && v >= 0 && v < int(sampleLayerCount) {
		return SampleLayer(v), nil
	}
	for i := SampleLayer(0); i < sampleLayerCount; i++ {
		if layerNames[i] == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown sample layer %q", s)
}

// Origin is the anchor point of a graphic relative to its position.
type Origin uint8

const (
	TopLeft Origin = iota
	Centre
	CentreLeft
	TopRight
	BottomCentre
	TopCentre
	_ // Custom, unsupported
	CentreRight
	BottomLeft
	BottomRight

	originCount
)

var originNames = map[Origin]string{
	TopLeft:      "TopLeft",
	Centre:       "Centre",
	CentreLeft:   "CentreLeft",
	TopRight:     "TopRight",
	BottomCentre: "BottomCentre",
	TopCentre:    "TopCentre",
	CentreRight:  "CentreRight",
	BottomLeft:   "BottomLeft",
	BottomRight:  "BottomRight",
}

func (o Origin) Valid() bool {
	_, ok := originNames[o]
	return ok
}

func (o Origin) String() string {
	if n, ok := originNames[o]; ok {
		return n
	}
	return fmt.Sprintf("Origin(%d)", uint8(o))
}

// ParseOrigin accepts an origin name or its numeric code.
func ParseOrigin(s string) (Origin, error) {
	for o, n := range originNames {
		if n == s {
			return o, nil
		}
	}
	if v, err := strconv.Atoi(s); err == nil && v >= 0 && v < int(originCount) && Origin(v).Valid() {
		return Origin(v), nil
	}
	return 0, fmt.Errorf("unknown origin %q", s)
}

// LoopType controls whether an animation repeats.
type LoopType uint8

const (
	LoopForever LoopType = iota
	LoopOnce
)

func (t LoopType) String() string {
	if t == LoopOnce {
		return "LoopOnce"
	}
	return "LoopForever"
}

func parseLoopType(s string) (LoopType, error) {
	switch s {
	case "LoopForever", "0":
		return LoopForever, nil
	case "LoopOnce", "1":
		return LoopOnce, nil
	}
	return 0, fmt.Errorf("unknown loop type %q", s)
}
