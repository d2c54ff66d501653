package module

import (
	"github.com/vango-dev/vpatch/pkg/host"
	"github.com/vango-dev/vpatch/pkg/vdom"
)

// invoker is the stable listener bound on the host. Swapping fn changes
// the handler without touching the host binding.
type invoker struct {
	fn vdom.Listener
}

func (i *invoker) call(payload any) {
	if i.fn != nil {
		i.fn(payload)
	}
}

// Events binds listeners from Data.On.
type Events struct {
	ops   host.EventOps
	bound map[vdom.Handle]map[string]*invoker
}

// NewEvents creates the events module.
func NewEvents(ops host.EventOps) *Events {
	return &Events{
		ops:   ops,
		bound: make(map[vdom.Handle]map[string]*invoker),
	}
}

// Create implements CreateHook.
func (m *Events) Create(old, v *vdom.VNode) { m.Update(old, v) }

// Update implements UpdateHook.
func (m *Events) Update(old, v *vdom.VNode) {
	if !isElement(v) {
		return
	}
	next := dataOf(v).On
	current := m.bound[v.Elm]
	if len(next) == 0 && len(current) == 0 {
		return
	}
	if current == nil {
		current = make(map[string]*invoker, len(next))
		m.bound[v.Elm] = current
	}
	for _, event := range sortedKeys(next) {
		if inv, ok := current[event]; ok {
			inv.fn = next[event]
			continue
		}
		inv := &invoker{fn: next[event]}
		current[event] = inv
		m.ops.SetListener(v.Elm, event, inv.call)
	}
	for _, event := range sortedKeys(current) {
		if _, ok := next[event]; !ok {
			m.ops.RemoveListener(v.Elm, event)
			delete(current, event)
		}
	}
	if len(current) == 0 {
		delete(m.bound, v.Elm)
	}
}

// Destroy implements DestroyHook.
func (m *Events) Destroy(v *vdom.VNode) {
	if !isElement(v) {
		return
	}
	current, ok := m.bound[v.Elm]
	if !ok {
		return
	}
	for _, event := range sortedKeys(current) {
		m.ops.RemoveListener(v.Elm, event)
	}
	delete(m.bound, v.Elm)
}

// Bound returns the number of elements with at least one listener.
func (m *Events) Bound() int { return len(m.bound) }
