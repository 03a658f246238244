// Package renderstate describes how each identifier is drawn.
//
// The placement engine asks a [Lookup] for the state of every identifier.
// Only two bits influence geometry: whether a glyph is drawn (the label
// moves outside the satellite) and whether text is drawn (the label has a
// width). Everything else is carried through to the renderer.
package renderstate

import (
	"strings"

	"github.com/bdekoz/izzi/pkg/errors"
)

// Kind is a set of visible layers.
type Kind uint32

const (
	Vector Kind = 1 << iota // vector glyph: circle and ray
	Text                    // identifier label
	Glyph                   // satellite marker
	Image                   // inserted raster artwork
	SVG                     // inserted vector artwork
	Echo                    // echo ring behind the satellite
	Legend                  // legend entry

	None Kind = 0
	All       = Vector | Text | Glyph | Image | SVG | Echo | Legend
)

var kindNames = []struct {
	name string
	kind Kind
}{
	{"vector", Vector},
	{"text", Text},
	{"glyph", Glyph},
	{"image", Image},
	{"svg", SVG},
	{"echo", Echo},
	{"legend", Legend},
}

// Has reports whether every bit in k2 is set.
func (k Kind) Has(k2 Kind) bool { return k&k2 == k2 }

// String lists the set bits joined by "|".
func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case All:
		return "all"
	}
	var parts []string
	for _, kn := range kindNames {
		if k.Has(kn.kind) {
			parts = append(parts, kn.name)
		}
	}
	return strings.Join(parts, "|")
}

// MarshalText encodes the kind as its "|"-joined names.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText decodes any form accepted by [ParseKind].
func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// ParseKind parses names joined by "|" or ",", or "all" / "none".
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "none":
		return None, nil
	case "all":
		return All, nil
	}
	var k Kind
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == '|' || r == ',' }) {
		part = strings.TrimSpace(part)
		found := false
		for _, kn := range kindNames {
			if kn.name == part {
				k |= kn.kind
				found = true
				break
			}
		}
		if !found {
			return None, errors.New(errors.ErrCodeInvalidStyle, "unknown render kind %q", part)
		}
	}
	return k, nil
}

// State is the render bundle for one identifier.
type State struct {
	Visible Kind    `json:"visible"`
	Style   string  `json:"style,omitempty"`
	Scale   float64 `json:"scale,omitempty"`
	Rotate  float64 `json:"rotate,omitempty"`
}

// Default draws the glyph, its ray and its label.
func Default() State {
	return State{Visible: Vector | Text | Glyph, Scale: 1}
}

// IsVisible reports whether kind is drawn.
func (s State) IsVisible(kind Kind) bool { return s.Visible.Has(kind) }

// Lookup maps an identifier to its render state. Implementations must be
// pure: the same id always yields the same state.
type Lookup interface {
	StateFor(id string) State
}

// LookupFunc adapts a function to [Lookup].
type LookupFunc func(id string) State

func (f LookupFunc) StateFor(id string) State { return f(id) }

// Uniform returns the same state for every identifier.
type Uniform State

func (u Uniform) StateFor(string) State { return State(u) }

// Table overrides the fallback state per identifier.
type Table struct {
	Fallback State
	ByID     map[string]State
}

func (t Table) StateFor(id string) State {
	if s, ok := t.ByID[id]; ok {
		return s
	}
	return t.Fallback
}
