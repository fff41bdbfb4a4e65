package osb

import (
	"fmt"
	"io"
	"slices"
	"strings"
)

// Container groups components. A container may be attached to at most one
// parent, and only a root container can be serialized.
type Container struct {
	children []Component
	parent   *Container
}

func NewContainer(children ...Component) (*Container, error) {
	c := &Container{}
	if err := c.Add(children...); err != nil {
		return nil, err
	}
	return c, nil
}

func (*Container) component() {}

// Add appends children in order. Attaching a container that already has a
// parent, or one that would create a cycle, is a state error; a failed call
// leaves c unchanged.
func (c *Container) Add(children ...Component) error {
	var nested []*Container
	for _, child := range children {
		switch child := child.(type) {
		case *Container:
			if child == nil {
				return stateErrorf("nil component")
			}
			if child.parent != nil || slices.Contains(nested, child) {
				return stateErrorf("container is already nested")
			}
			for p := c; p != nil; p = p.parent {
				if p == child {
					return stateErrorf("container cannot contain itself")
				}
			}
			nested = append(nested, child)
		case Element:
		case nil:
			return stateErrorf("nil component")
		}
	}
	for _, child := range nested {
		child.parent = c
	}
	c.children = append(c.children, children...)
	return nil
}

func (c *Container) Children() []Component { return c.children }

// Parent is nil for a root container.
func (c *Container) Parent() *Container { return c.parent }

// Flatten returns every element in depth-first, left-to-right order.
func (c *Container) Flatten() []Element {
	var out []Element
	c.flattenInto(&out)
	return out
}

func (c *Container) flattenInto(out *[]Element) {
	for _, child := range c.children {
		switch child := child.(type) {
		case *Container:
			child.flattenInto(out)
		case Element:
			*out = append(*out, child)
		}
	}
}

// Layers splits the flattened elements into their emission buckets,
// keeping registration order inside each bucket.
func (c *Container) Layers() Layers {
	var l Layers
	for _, e := range c.Flatten() {
		b := e.bucket()
		l[b] = append(l[b], e)
	}
	return l
}

// Layers holds elements bucketed by emission section.
type Layers [bucketCount][]Element

func (l *Layers) Media() []Element            { return l[bucketMedia] }
func (l *Layers) Layer(layer Layer) []Element { return l[layerBucket(layer)] }
func (l *Layers) Samples() []Element          { return l[bucketSamples] }

// PrependMedia puts backgrounds, videos and breaks ahead of the media
// section's current contents.
func (l *Layers) PrependMedia(els ...Element) {
	for _, e := range els {
		if e.bucket() != bucketMedia {
			panic(fmt.Sprintf("osb: %T is not a media element", e))
		}
	}
	l[bucketMedia] = append(slices.Clone(els), l[bucketMedia]...)
}

// String renders the body of an [Events] section: every section comment
// in fixed order, each followed by its elements.
func (l *Layers) String() string {
	var b strings.Builder
	for i, header := range bucketHeaders {
		b.WriteString(header)
		b.WriteByte('\n')
		for _, e := range l[i] {
			b.WriteString(e.String())
		}
	}
	return b.String()
}

// EventLines renders the container as the body of an [Events] section.
func (c *Container) EventLines() (string, error) {
	if c.parent != nil {
		return "", stateErrorf("cannot serialize a nested container")
	}
	l := c.Layers()
	return l.String(), nil
}

// OsbString renders a complete .osb file.
func (c *Container) OsbString() (string, error) {
	lines, err := c.EventLines()
	if err != nil {
		return "", err
	}
	return "[Events]\n" + lines, nil
}

func (c *Container) WriteOsb(w io.Writer) error {
	s, err := c.OsbString()
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, s)
	return err
}
