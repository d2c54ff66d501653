package treefile

import (
	"fmt"
	"maps"
	"slices"

	"github.com/vango-dev/vpatch/internal/errors"
	"github.com/vango-dev/vpatch/pkg/vdom"
)

// Node is one document node.
type Node struct {
	Tag      string            `json:"tag,omitempty" yaml:"tag,omitempty" cbor:"tag,omitempty"`
	Key      string            `json:"key,omitempty" yaml:"key,omitempty" cbor:"key,omitempty"`
	Text     *string           `json:"text,omitempty" yaml:"text,omitempty" cbor:"text,omitempty"`
	Comment  *string           `json:"comment,omitempty" yaml:"comment,omitempty" cbor:"comment,omitempty"`
	Attrs    map[string]string `json:"attrs,omitempty" yaml:"attrs,omitempty" cbor:"attrs,omitempty"`
	Class    []string          `json:"class,omitempty" yaml:"class,omitempty" cbor:"class,omitempty"`
	Style    map[string]string `json:"style,omitempty" yaml:"style,omitempty" cbor:"style,omitempty"`
	On       []string          `json:"on,omitempty" yaml:"on,omitempty" cbor:"on,omitempty"`
	Ref      string            `json:"ref,omitempty" yaml:"ref,omitempty" cbor:"ref,omitempty"`
	Children []*Node           `json:"children,omitempty" yaml:"children,omitempty" cbor:"children,omitempty"`
}

// El returns an element node.
func El(tag string, children ...*Node) *Node {
	return &Node{Tag: tag, Children: children}
}

// TextNode returns a text node.
func TextNode(s string) *Node { return &Node{Text: &s} }

// CommentNode returns a comment node.
func CommentNode(s string) *Node { return &Node{Comment: &s} }

// Kind returns the descriptor kind the node decodes to.
func (n *Node) Kind() vdom.VKind {
	switch {
	case n.Tag != "":
		return vdom.KindElement
	case n.Comment != nil:
		return vdom.KindComment
	default:
		return vdom.KindText
	}
}

// Validate checks that every node in the document is exactly one of
// element, text or comment, and that text and comment nodes carry no
// element fields.
func (n *Node) Validate() error {
	return n.validate("$")
}

func (n *Node) validate(path string) error {
	if n == nil {
		return bad(path, "null node")
	}
	forms := 0
	if n.Tag != "" {
		forms++
	}
	if n.Text != nil {
		forms++
	}
	if n.Comment != nil {
		forms++
	}
	switch forms {
	case 0:
		return bad(path, "node has no tag, text or comment")
	case 1:
	default:
		return bad(path, "node mixes tag, text and comment")
	}
	if n.Tag == "" && (len(n.Attrs) > 0 || len(n.Class) > 0 || len(n.Style) > 0 ||
		len(n.On) > 0 || n.Ref != "" || len(n.Children) > 0) {
		return bad(path, "only elements carry attributes or children")
	}
	for i, c := range n.Children {
		if err := c.validate(fmt.Sprintf("%s.children[%d]", path, i)); err != nil {
			return err
		}
	}
	return nil
}

func bad(path, msg string) error {
	return errors.New(errors.CodeBadDocument).WithDetailf("%s: %s", path, msg)
}

// Option configures ToVNode.
type Option func(*converter)

// ListenerFunc returns the listener bound for event on the element
// described by n.
type ListenerFunc func(n *Node, event string) vdom.Listener

// WithListener binds the event names under "on" through fn. Without it
// every event gets a listener that does nothing.
func WithListener(fn ListenerFunc) Option {
	return func(c *converter) {
		c.listener = fn
	}
}

type converter struct {
	listener ListenerFunc
}

func noop(any) {}

// ToVNode converts a validated document into a fresh descriptor tree.
func ToVNode(n *Node, opts ...Option) *vdom.VNode {
	c := &converter{}
	for _, opt := range opts {
		opt(c)
	}
	return c.convert(n)
}

func (c *converter) convert(n *Node) *vdom.VNode {
	switch n.Kind() {
	case vdom.KindText:
		return &vdom.VNode{Kind: vdom.KindText, Key: n.Key, Text: *n.Text}
	case vdom.KindComment:
		return &vdom.VNode{Kind: vdom.KindComment, Key: n.Key, Text: *n.Comment}
	}

	v := &vdom.VNode{Kind: vdom.KindElement, Tag: n.Tag, Key: n.Key}
	if len(n.Attrs) > 0 || len(n.Class) > 0 || len(n.Style) > 0 || len(n.On) > 0 || n.Ref != "" {
		d := &vdom.Data{Ref: n.Ref}
		if len(n.Attrs) > 0 {
			d.Attrs = maps.Clone(n.Attrs)
		}
		if len(n.Style) > 0 {
			d.Style = maps.Clone(n.Style)
		}
		if len(n.Class) > 0 {
			d.Class = make(map[string]bool, len(n.Class))
			for _, name := range n.Class {
				d.Class[name] = true
			}
		}
		if len(n.On) > 0 {
			d.On = make(map[string]vdom.Listener, len(n.On))
			for _, event := range n.On {
				fn := vdom.Listener(noop)
				if c.listener != nil {
					if l := c.listener(n, event); l != nil {
						fn = l
					}
				}
				d.On[event] = fn
			}
		}
		v.Data = d
	}
	if len(n.Children) > 0 {
		v.Children = make([]*vdom.VNode, len(n.Children))
		for i, child := range n.Children {
			v.Children[i] = c.convert(child)
		}
	}
	return v
}

// FromVNode converts a descriptor tree into a document. Components are
// replaced by their mounted root, or rendered when not mounted yet. Nil
// children are dropped.
func FromVNode(v *vdom.VNode) *Node {
	if v == nil {
		return nil
	}
	switch v.Kind {
	case vdom.KindText:
		return &Node{Key: v.Key, Text: &v.Text}
	case vdom.KindComment:
		return &Node{Key: v.Key, Comment: &v.Text}
	case vdom.KindComponent:
		var root *vdom.VNode
		if v.Instance != nil {
			root = v.Instance.Root
		} else if v.Comp != nil {
			root = v.Comp.Render()
		}
		if root == nil {
			return CommentNode("")
		}
		return FromVNode(root)
	}

	n := &Node{Tag: v.Tag, Key: v.Key}
	if d := v.Data; d != nil {
		n.Ref = d.Ref
		if len(d.Attrs) > 0 {
			n.Attrs = maps.Clone(d.Attrs)
		}
		if len(d.Style) > 0 {
			n.Style = maps.Clone(d.Style)
		}
		for _, name := range slices.Sorted(maps.Keys(d.Class)) {
			if d.Class[name] {
				n.Class = append(n.Class, name)
			}
		}
		n.On = slices.Sorted(maps.Keys(d.On))
	}
	for _, child := range v.Children {
		if child != nil {
			n.Children = append(n.Children, FromVNode(child))
		}
	}
	return n
}
