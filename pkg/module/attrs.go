package module

import (
	"maps"
	"slices"
	"strings"

	"github.com/vango-dev/vpatch/pkg/host"
	"github.com/vango-dev/vpatch/pkg/vdom"
)

// isElement reports whether v carries a live element the platform
// modules may touch.
func isElement(v *vdom.VNode) bool {
	return v != nil && v.Kind == vdom.KindElement && v.Elm.Valid()
}

func dataOf(v *vdom.VNode) *vdom.Data {
	if v == nil || v.Data == nil {
		return &vdom.Data{}
	}
	return v.Data
}

// sortedKeys returns map keys in a stable order so the emitted host
// operations are deterministic.
func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}

// Attrs patches plain attributes.
type Attrs struct {
	ops host.AttrOps
}

// NewAttrs creates the attributes module.
func NewAttrs(ops host.AttrOps) *Attrs {
	return &Attrs{ops: ops}
}

// Create implements CreateHook.
func (m *Attrs) Create(old, v *vdom.VNode) { m.Update(old, v) }

// Update implements UpdateHook.
func (m *Attrs) Update(old, v *vdom.VNode) {
	if !isElement(v) {
		return
	}
	prev, next := dataOf(old).Attrs, dataOf(v).Attrs
	if len(prev) == 0 && len(next) == 0 {
		return
	}
	for _, name := range sortedKeys(next) {
		if cur, ok := prev[name]; !ok || cur != next[name] {
			m.ops.SetAttribute(v.Elm, name, next[name])
		}
	}
	for _, name := range sortedKeys(prev) {
		if _, ok := next[name]; !ok {
			m.ops.RemoveAttribute(v.Elm, name)
		}
	}
}

// Class renders the class set into the "class" attribute.
type Class struct {
	ops host.AttrOps
}

// NewClass creates the class module.
func NewClass(ops host.AttrOps) *Class {
	return &Class{ops: ops}
}

// Create implements CreateHook.
func (m *Class) Create(old, v *vdom.VNode) { m.Update(old, v) }

// Update implements UpdateHook.
func (m *Class) Update(old, v *vdom.VNode) {
	if !isElement(v) {
		return
	}
	prev, next := ClassString(dataOf(old).Class), ClassString(dataOf(v).Class)
	if prev == next {
		return
	}
	if next == "" {
		m.ops.RemoveAttribute(v.Elm, "class")
		return
	}
	m.ops.SetAttribute(v.Elm, "class", next)
}

// ClassString joins the enabled classes in sorted order.
func ClassString(set map[string]bool) string {
	names := make([]string, 0, len(set))
	for _, name := range sortedKeys(set) {
		if set[name] {
			names = append(names, name)
		}
	}
	return strings.Join(names, " ")
}

// Style patches inline style properties one by one.
type Style struct {
	ops host.StyleOps
}

// NewStyle creates the style module.
func NewStyle(ops host.StyleOps) *Style {
	return &Style{ops: ops}
}

// Create implements CreateHook.
func (m *Style) Create(old, v *vdom.VNode) { m.Update(old, v) }

// Update implements UpdateHook.
func (m *Style) Update(old, v *vdom.VNode) {
	if !isElement(v) {
		return
	}
	prev, next := dataOf(old).Style, dataOf(v).Style
	for _, prop := range sortedKeys(prev) {
		if _, ok := next[prop]; !ok {
			m.ops.RemoveStyle(v.Elm, prop)
		}
	}
	for _, prop := range sortedKeys(next) {
		if cur, ok := prev[prop]; !ok || cur != next[prop] {
			m.ops.SetStyle(v.Elm, prop, next[prop])
		}
	}
}
