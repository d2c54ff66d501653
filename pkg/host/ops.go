package host

import "github.com/vango-dev/vpatch/pkg/vdom"

// NodeOps is the primitive capability the patcher drives. Implementations
// report failures (unknown handle, detached parent) by panicking; the
// patcher does not recover them.
type NodeOps interface {
	CreateElement(tag string) vdom.Handle
	CreateText(text string) vdom.Handle
	CreateComment(text string) vdom.Handle

	// InsertBefore inserts node into parent before ref, or appends it when
	// ref is vdom.NoHandle. An attached node is moved.
	InsertBefore(parent, node, ref vdom.Handle)
	RemoveChild(parent, node vdom.Handle)
	SetTextContent(node vdom.Handle, text string)

	ParentNode(node vdom.Handle) vdom.Handle
	NextSibling(node vdom.Handle) vdom.Handle
	TagName(node vdom.Handle) string
}

// AttrOps sets and removes element attributes.
type AttrOps interface {
	SetAttribute(node vdom.Handle, name, value string)
	RemoveAttribute(node vdom.Handle, name string)
}

// StyleOps sets and removes inline style properties.
type StyleOps interface {
	SetStyle(node vdom.Handle, prop, value string)
	RemoveStyle(node vdom.Handle, prop string)
}

// EventOps binds at most one listener per node and event name.
type EventOps interface {
	SetListener(node vdom.Handle, event string, fn vdom.Listener)
	RemoveListener(node vdom.Handle, event string)
}

// Target is a host that supports every built-in module.
type Target interface {
	NodeOps
	AttrOps
	StyleOps
	EventOps
}

// Releaser is implemented by hosts that can free a removed object. The
// patcher releases a subtree after it was removed and its destroy hooks
// ran; the handle is never used again.
type Releaser interface {
	Release(node vdom.Handle)
}
