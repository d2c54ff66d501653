package host

import (
	"maps"
	"slices"

	"github.com/vango-dev/vpatch/pkg/vdom"
)

// NodeKind is the kind of a live object in a Tree.
type NodeKind uint8

const (
	NodeDocument NodeKind = iota
	NodeElement
	NodeText
	NodeComment
)

// String returns the string representation of the NodeKind.
func (k NodeKind) String() string {
	switch k {
	case NodeDocument:
		return "Document"
	case NodeElement:
		return "Element"
	case NodeText:
		return "Text"
	case NodeComment:
		return "Comment"
	default:
		return "Unknown"
	}
}

type node struct {
	kind      NodeKind
	tag       string
	text      string
	parent    vdom.Handle
	children  []vdom.Handle
	attrs     map[string]string
	style     map[string]string
	listeners map[string]vdom.Listener
}

// Tree is an in-memory render target. Live objects live in an arena and
// are addressed by vdom.Handle; handles are never reused. Released
// objects leave the arena, so its size follows the live tree.
//
// A Tree is not safe for concurrent use.
type Tree struct {
	nodes map[vdom.Handle]*node
	last  vdom.Handle
	doc   vdom.Handle
}

var (
	_ Target   = (*Tree)(nil)
	_ Releaser = (*Tree)(nil)
)

// NewTree creates an empty tree with a document root.
func NewTree() *Tree {
	t := &Tree{nodes: make(map[vdom.Handle]*node)}
	t.doc = t.alloc(&node{kind: NodeDocument, tag: "#document"})
	return t
}

// Document returns the root container of the tree.
func (t *Tree) Document() vdom.Handle { return t.doc }

// Len returns the number of objects in the arena, the document included.
func (t *Tree) Len() int { return len(t.nodes) }

// Allocated returns the number of handles ever issued.
func (t *Tree) Allocated() int { return int(t.last) }

func (t *Tree) alloc(n *node) vdom.Handle {
	t.last++
	t.nodes[t.last] = n
	return t.last
}

func (t *Tree) get(op string, h vdom.Handle) *node {
	n, ok := t.nodes[h]
	if !ok {
		fail(op, h, "unknown handle")
	}
	return n
}

// Contains reports whether h is in the arena.
func (t *Tree) Contains(h vdom.Handle) bool {
	_, ok := t.nodes[h]
	return ok
}

// Release drops the detached object h and its subtree from the arena.
// Their handles become unknown and are not reissued.
func (t *Tree) Release(h vdom.Handle) {
	n := t.get("Release", h)
	if n.kind == NodeDocument {
		fail("Release", h, "document cannot be released")
	}
	if n.parent != vdom.NoHandle {
		fail("Release", h, "still attached to %d", n.parent)
	}
	t.release(h)
}

func (t *Tree) release(h vdom.Handle) {
	n := t.nodes[h]
	for _, c := range n.children {
		t.release(c)
	}
	delete(t.nodes, h)
}

func (t *Tree) element(op string, h vdom.Handle) *node {
	n := t.get(op, h)
	if n.kind != NodeElement {
		fail(op, h, "not an element (%s)", n.kind)
	}
	return n
}

// CreateElement implements NodeOps.
func (t *Tree) CreateElement(tag string) vdom.Handle {
	return t.alloc(&node{kind: NodeElement, tag: tag})
}

// CreateText implements NodeOps.
func (t *Tree) CreateText(text string) vdom.Handle {
	return t.alloc(&node{kind: NodeText, text: text})
}

// CreateComment implements NodeOps.
func (t *Tree) CreateComment(text string) vdom.Handle {
	return t.alloc(&node{kind: NodeComment, text: text})
}

// InsertBefore implements NodeOps.
func (t *Tree) InsertBefore(parent, child, ref vdom.Handle) {
	p := t.get("InsertBefore", parent)
	if p.kind != NodeElement && p.kind != NodeDocument {
		fail("InsertBefore", parent, "cannot hold children (%s)", p.kind)
	}
	c := t.get("InsertBefore", child)
	if c.kind == NodeDocument {
		fail("InsertBefore", child, "document cannot be inserted")
	}
	for a := parent; a != vdom.NoHandle; a = t.nodes[a].parent {
		if a == child {
			fail("InsertBefore", child, "would create a cycle under %d", parent)
		}
	}
	if ref != vdom.NoHandle && t.get("InsertBefore", ref).parent != parent {
		fail("InsertBefore", ref, "reference is not a child of %d", parent)
	}
	if ref == child {
		return
	}
	if c.parent != vdom.NoHandle {
		t.detach(c.parent, child)
	}
	c.parent = parent
	if ref == vdom.NoHandle {
		p.children = append(p.children, child)
		return
	}
	i := slices.Index(p.children, ref)
	p.children = slices.Insert(p.children, i, child)
}

// RemoveChild implements NodeOps.
func (t *Tree) RemoveChild(parent, child vdom.Handle) {
	t.get("RemoveChild", parent)
	c := t.get("RemoveChild", child)
	if c.parent != parent {
		fail("RemoveChild", child, "not a child of %d", parent)
	}
	t.detach(parent, child)
	c.parent = vdom.NoHandle
}

func (t *Tree) detach(parent, child vdom.Handle) {
	p := t.nodes[parent]
	if i := slices.Index(p.children, child); i >= 0 {
		p.children = slices.Delete(p.children, i, i+1)
	}
}

// SetTextContent implements NodeOps. On an element it replaces all
// children with a single text node.
func (t *Tree) SetTextContent(h vdom.Handle, text string) {
	n := t.get("SetTextContent", h)
	switch n.kind {
	case NodeText, NodeComment:
		n.text = text
	default:
		for _, c := range n.children {
			t.nodes[c].parent = vdom.NoHandle
		}
		n.children = nil
		if text != "" {
			t.InsertBefore(h, t.CreateText(text), vdom.NoHandle)
		}
	}
}

// ParentNode implements NodeOps.
func (t *Tree) ParentNode(h vdom.Handle) vdom.Handle {
	return t.get("ParentNode", h).parent
}

// NextSibling implements NodeOps.
func (t *Tree) NextSibling(h vdom.Handle) vdom.Handle {
	n := t.get("NextSibling", h)
	if n.parent == vdom.NoHandle {
		return vdom.NoHandle
	}
	siblings := t.nodes[n.parent].children
	i := slices.Index(siblings, h)
	if i < 0 || i+1 >= len(siblings) {
		return vdom.NoHandle
	}
	return siblings[i+1]
}

// TagName implements NodeOps. Non-elements report "#text", "#comment"
// or "#document".
func (t *Tree) TagName(h vdom.Handle) string {
	n := t.get("TagName", h)
	switch n.kind {
	case NodeText:
		return "#text"
	case NodeComment:
		return "#comment"
	default:
		return n.tag
	}
}

// SetAttribute implements AttrOps.
func (t *Tree) SetAttribute(h vdom.Handle, name, value string) {
	n := t.element("SetAttribute", h)
	if n.attrs == nil {
		n.attrs = make(map[string]string)
	}
	n.attrs[name] = value
}

// RemoveAttribute implements AttrOps.
func (t *Tree) RemoveAttribute(h vdom.Handle, name string) {
	delete(t.element("RemoveAttribute", h).attrs, name)
}

// SetStyle implements StyleOps.
func (t *Tree) SetStyle(h vdom.Handle, prop, value string) {
	n := t.element("SetStyle", h)
	if n.style == nil {
		n.style = make(map[string]string)
	}
	n.style[prop] = value
}

// RemoveStyle implements StyleOps.
func (t *Tree) RemoveStyle(h vdom.Handle, prop string) {
	delete(t.element("RemoveStyle", h).style, prop)
}

// SetListener implements EventOps.
func (t *Tree) SetListener(h vdom.Handle, event string, fn vdom.Listener) {
	n := t.element("SetListener", h)
	if n.listeners == nil {
		n.listeners = make(map[string]vdom.Listener)
	}
	n.listeners[event] = fn
}

// RemoveListener implements EventOps.
func (t *Tree) RemoveListener(h vdom.Handle, event string) {
	delete(t.element("RemoveListener", h).listeners, event)
}

// Kind returns the kind of the live object.
func (t *Tree) Kind(h vdom.Handle) NodeKind { return t.get("Kind", h).kind }

// Text returns the content of a text or comment node.
func (t *Tree) Text(h vdom.Handle) string { return t.get("Text", h).text }

// Children returns a copy of the node's child handles.
func (t *Tree) Children(h vdom.Handle) []vdom.Handle {
	return slices.Clone(t.get("Children", h).children)
}

// Attr returns one attribute value.
func (t *Tree) Attr(h vdom.Handle, name string) (string, bool) {
	v, ok := t.get("Attr", h).attrs[name]
	return v, ok
}

// Attrs returns a copy of the node's attributes.
func (t *Tree) Attrs(h vdom.Handle) map[string]string {
	return maps.Clone(t.get("Attrs", h).attrs)
}

// Styles returns a copy of the node's inline style properties.
func (t *Tree) Styles(h vdom.Handle) map[string]string {
	return maps.Clone(t.get("Styles", h).style)
}

// HasListener reports whether a listener is bound for event.
func (t *Tree) HasListener(h vdom.Handle, event string) bool {
	_, ok := t.get("HasListener", h).listeners[event]
	return ok
}

// Listeners returns the events with a bound listener, sorted.
func (t *Tree) Listeners(h vdom.Handle) []string {
	return slices.Sorted(maps.Keys(t.get("Listeners", h).listeners))
}

// Dispatch calls the listener bound for event, if any.
func (t *Tree) Dispatch(h vdom.Handle, event string, payload any) bool {
	fn, ok := t.get("Dispatch", h).listeners[event]
	if !ok {
		return false
	}
	fn(payload)
	return true
}
