package module

import (
	"github.com/vango-dev/vpatch/pkg/host"
	"github.com/vango-dev/vpatch/pkg/vdom"
)

// Refs maps Data.Ref names to live objects. It is a base module and runs
// after the platform modules.
type Refs struct {
	refs map[string]vdom.Handle
}

// NewRefs creates the refs module.
func NewRefs() *Refs {
	return &Refs{refs: make(map[string]vdom.Handle)}
}

// Get returns the live object registered under name.
func (m *Refs) Get(name string) (vdom.Handle, bool) {
	h, ok := m.refs[name]
	return h, ok
}

// Len returns the number of registered refs.
func (m *Refs) Len() int { return len(m.refs) }

// Create implements CreateHook.
func (m *Refs) Create(_, v *vdom.VNode) {
	if name := dataOf(v).Ref; name != "" && v.Elm.Valid() {
		m.refs[name] = v.Elm
	}
}

// Update implements UpdateHook.
func (m *Refs) Update(old, v *vdom.VNode) {
	prev, next := dataOf(old).Ref, dataOf(v).Ref
	if prev != next {
		m.release(prev, old.Elm)
	}
	if next != "" && v.Elm.Valid() {
		m.refs[next] = v.Elm
	}
}

// Destroy implements DestroyHook.
func (m *Refs) Destroy(v *vdom.VNode) {
	m.release(dataOf(v).Ref, v.Elm)
}

// release drops name only while it still points at elm, so a ref that was
// already taken over by a newer node survives.
func (m *Refs) release(name string, elm vdom.Handle) {
	if name == "" {
		return
	}
	if cur, ok := m.refs[name]; ok && cur == elm {
		delete(m.refs, name)
	}
}

// Defaults returns a registry holding every built-in module for target:
// attrs, class, style and events as platform modules, refs as a base
// module.
func Defaults(target host.Target) (*Registry, *Refs) {
	refs := NewRefs()
	r := NewRegistry().
		Platform(
			NewAttrs(target),
			NewClass(target),
			NewStyle(target),
			NewEvents(target),
		).
		Base(refs)
	return r, refs
}
