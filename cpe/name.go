package cpe

import (
	"strings"
)

// Element is one system description: an attribute-to-component mapping.
// Attributes absent from the map are Undefined.
type Element map[Attribute]Component

// Name is a parsed CPE name: a version tag plus one or more elements. Only
// 1.1 names hold more than one element.
type Name struct {
	version Version
	source  string
	elems   []Element
}

// Version returns the grammar revision the name was parsed against.
func (n *Name) Version() Version { return n.version }

// String returns the source text the name was parsed from.
func (n *Name) String() string { return n.source }

// Get returns the component values of att across every element of the name.
// The slice has one entry per element; attributes never provided come back
// Undefined.
func (n *Name) Get(att Attribute) ([]Component, error) {
	if !att.Valid() {
		return nil, &InvalidAttributeError{Name: string(att)}
	}
	out := make([]Component, 0, len(n.elems))
	for _, e := range n.elems {
		c, ok := e[att]
		if !ok {
			c = NewUndefined()
		}
		out = append(out, c)
	}
	return out, nil
}

// Elements returns the number of system elements the name describes.
func (n *Name) Elements() int { return len(n.elems) }

// At returns the component of att in element i, Undefined when absent.
func (n *Name) At(i int, att Attribute) Component {
	if i < 0 || i >= len(n.elems) {
		return NewUndefined()
	}
	c, ok := n.elems[i][att]
	if !ok {
		return NewUndefined()
	}
	return c
}

func (n *Name) isPart(want string) bool {
	for _, e := range n.elems {
		c, ok := e[AttPart]
		if !ok || c.IsLogical() {
			// An unconstrained part could describe any system class.
			return true
		}
		if strings.EqualFold(c.Standard(), want) {
			return true
		}
	}
	return false
}

// IsHardware reports whether any element of the name may describe hardware.
func (n *Name) IsHardware() bool { return n.isPart(PartHardware) }

// IsOperatingSystem reports whether any element may describe an OS.
func (n *Name) IsOperatingSystem() bool { return n.isPart(PartOperatingSystem) }

// IsApplication reports whether any element may describe an application.
func (n *Name) IsApplication() bool { return n.isPart(PartApplication) }

// Equal reports encoding-agnostic equality: both names lift to the same WFN.
// Names that cannot lift (multi-element 1.1) compare element-wise instead.
func (n *Name) Equal(o *Name) bool {
	lw, le := Lift(n)
	rw, re := Lift(o)
	if le == nil && re == nil {
		for _, att := range attributes11 {
			if !lw.elems[0][att].Equal(rw.elems[0][att]) {
				return false
			}
		}
		return true
	}
	if le != nil && re != nil {
		if len(n.elems) != len(o.elems) {
			return false
		}
		for i := range n.elems {
			for _, att := range attributes11 {
				lc, ok := n.elems[i][att]
				if !ok {
					lc = NewUndefined()
				}
				rc, ok := o.elems[i][att]
				if !ok {
					rc = NewUndefined()
				}
				if !lc.Equal(rc) {
					return false
				}
			}
		}
		return true
	}
	return false
}
