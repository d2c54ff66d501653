package host

import (
	"fmt"

	"github.com/vango-dev/vpatch/pkg/vdom"
)

// OpKind is the type of a recorded host operation.
type OpKind uint8

const (
	OpCreateElement  OpKind = 0x01
	OpCreateText     OpKind = 0x02
	OpCreateComment  OpKind = 0x03
	OpInsert         OpKind = 0x04 // Insert of a detached node
	OpMove           OpKind = 0x05 // Insert of an attached node
	OpRemove         OpKind = 0x06
	OpSetText        OpKind = 0x07
	OpSetAttr        OpKind = 0x08
	OpRemoveAttr     OpKind = 0x09
	OpSetStyle       OpKind = 0x0A
	OpRemoveStyle    OpKind = 0x0B
	OpSetListener    OpKind = 0x0C
	OpRemoveListener OpKind = 0x0D
)

// String returns the string representation of the OpKind.
func (k OpKind) String() string {
	switch k {
	case OpCreateElement:
		return "CreateElement"
	case OpCreateText:
		return "CreateText"
	case OpCreateComment:
		return "CreateComment"
	case OpInsert:
		return "Insert"
	case OpMove:
		return "Move"
	case OpRemove:
		return "Remove"
	case OpSetText:
		return "SetText"
	case OpSetAttr:
		return "SetAttr"
	case OpRemoveAttr:
		return "RemoveAttr"
	case OpSetStyle:
		return "SetStyle"
	case OpRemoveStyle:
		return "RemoveStyle"
	case OpSetListener:
		return "SetListener"
	case OpRemoveListener:
		return "RemoveListener"
	default:
		return "Unknown"
	}
}

// Op is one mutation applied to a host.
type Op struct {
	Kind   OpKind
	Node   vdom.Handle // Target node
	Parent vdom.Handle // For Insert/Move/Remove
	Ref    vdom.Handle // For Insert/Move
	Name   string      // Tag, attribute, style property or event name
	Value  string      // Text, attribute or style value
}

// String returns a compact, human-readable form of the operation.
func (o Op) String() string {
	switch o.Kind {
	case OpCreateElement:
		return fmt.Sprintf("%s #%d <%s>", o.Kind, o.Node, o.Name)
	case OpCreateText, OpCreateComment, OpSetText:
		return fmt.Sprintf("%s #%d %q", o.Kind, o.Node, o.Value)
	case OpInsert, OpMove:
		if o.Ref == vdom.NoHandle {
			return fmt.Sprintf("%s #%d into #%d (append)", o.Kind, o.Node, o.Parent)
		}
		return fmt.Sprintf("%s #%d into #%d before #%d", o.Kind, o.Node, o.Parent, o.Ref)
	case OpRemove:
		return fmt.Sprintf("%s #%d from #%d", o.Kind, o.Node, o.Parent)
	case OpSetAttr, OpSetStyle:
		return fmt.Sprintf("%s #%d %s=%q", o.Kind, o.Node, o.Name, o.Value)
	default:
		return fmt.Sprintf("%s #%d %s", o.Kind, o.Node, o.Name)
	}
}

// Recorder forwards every operation to a Target and logs it.
// Queries (ParentNode, NextSibling, TagName) are not logged.
type Recorder struct {
	target Target
	ops    []Op
}

var _ Target = (*Recorder)(nil)

// NewRecorder wraps target.
func NewRecorder(target Target) *Recorder {
	return &Recorder{target: target}
}

// Target returns the wrapped host.
func (r *Recorder) Target() Target { return r.target }

// Ops returns the operations recorded since the last Reset.
func (r *Recorder) Ops() []Op { return r.ops }

// Reset clears the log.
func (r *Recorder) Reset() { r.ops = nil }

// Count returns how many operations of the given kinds were recorded.
func (r *Recorder) Count(kinds ...OpKind) int {
	n := 0
	for _, op := range r.ops {
		for _, k := range kinds {
			if op.Kind == k {
				n++
				break
			}
		}
	}
	return n
}

// Mutations returns the number of operations that changed the tree.
func (r *Recorder) Mutations() int { return len(r.ops) }

func (r *Recorder) record(op Op) { r.ops = append(r.ops, op) }

// CreateElement implements NodeOps.
func (r *Recorder) CreateElement(tag string) vdom.Handle {
	h := r.target.CreateElement(tag)
	r.record(Op{Kind: OpCreateElement, Node: h, Name: tag})
	return h
}

// CreateText implements NodeOps.
func (r *Recorder) CreateText(text string) vdom.Handle {
	h := r.target.CreateText(text)
	r.record(Op{Kind: OpCreateText, Node: h, Value: text})
	return h
}

// CreateComment implements NodeOps.
func (r *Recorder) CreateComment(text string) vdom.Handle {
	h := r.target.CreateComment(text)
	r.record(Op{Kind: OpCreateComment, Node: h, Value: text})
	return h
}

// InsertBefore implements NodeOps.
func (r *Recorder) InsertBefore(parent, node, ref vdom.Handle) {
	kind := OpInsert
	if r.target.ParentNode(node) != vdom.NoHandle {
		kind = OpMove
	}
	r.target.InsertBefore(parent, node, ref)
	r.record(Op{Kind: kind, Node: node, Parent: parent, Ref: ref})
}

// RemoveChild implements NodeOps.
func (r *Recorder) RemoveChild(parent, node vdom.Handle) {
	r.target.RemoveChild(parent, node)
	r.record(Op{Kind: OpRemove, Node: node, Parent: parent})
}

// SetTextContent implements NodeOps.
func (r *Recorder) SetTextContent(node vdom.Handle, text string) {
	r.target.SetTextContent(node, text)
	r.record(Op{Kind: OpSetText, Node: node, Value: text})
}

// ParentNode implements NodeOps.
func (r *Recorder) ParentNode(node vdom.Handle) vdom.Handle { return r.target.ParentNode(node) }

// NextSibling implements NodeOps.
func (r *Recorder) NextSibling(node vdom.Handle) vdom.Handle { return r.target.NextSibling(node) }

// TagName implements NodeOps.
func (r *Recorder) TagName(node vdom.Handle) string { return r.target.TagName(node) }

// SetAttribute implements AttrOps.
func (r *Recorder) SetAttribute(node vdom.Handle, name, value string) {
	r.target.SetAttribute(node, name, value)
	r.record(Op{Kind: OpSetAttr, Node: node, Name: name, Value: value})
}

// RemoveAttribute implements AttrOps.
func (r *Recorder) RemoveAttribute(node vdom.Handle, name string) {
	r.target.RemoveAttribute(node, name)
	r.record(Op{Kind: OpRemoveAttr, Node: node, Name: name})
}

// SetStyle implements StyleOps.
func (r *Recorder) SetStyle(node vdom.Handle, prop, value string) {
	r.target.SetStyle(node, prop, value)
	r.record(Op{Kind: OpSetStyle, Node: node, Name: prop, Value: value})
}

// RemoveStyle implements StyleOps.
func (r *Recorder) RemoveStyle(node vdom.Handle, prop string) {
	r.target.RemoveStyle(node, prop)
	r.record(Op{Kind: OpRemoveStyle, Node: node, Name: prop})
}

// SetListener implements EventOps.
func (r *Recorder) SetListener(node vdom.Handle, event string, fn vdom.Listener) {
	r.target.SetListener(node, event, fn)
	r.record(Op{Kind: OpSetListener, Node: node, Name: event})
}

// RemoveListener implements EventOps.
func (r *Recorder) RemoveListener(node vdom.Handle, event string) {
	r.target.RemoveListener(node, event)
	r.record(Op{Kind: OpRemoveListener, Node: node, Name: event})
}

// Release forwards to the target when it implements Releaser. Releases
// are not logged: a removal already tells receivers the object is gone.
func (r *Recorder) Release(node vdom.Handle) {
	if rel, ok := r.target.(Releaser); ok {
		rel.Release(node)
	}
}
