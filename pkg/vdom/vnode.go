package vdom

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement   VKind = iota // <div>, <button>, etc.
	KindText                   // Plain text node
	KindComment                // Comment / placeholder node
	KindComponent              // Nested component
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindComment:
		return "Comment"
	case KindComponent:
		return "Component"
	default:
		return "Unknown"
	}
}

// Handle identifies a live object in the host's arena.
// The zero value means "no live object".
type Handle uint32

// NoHandle is the absent handle.
const NoHandle Handle = 0

// Valid reports whether h refers to a live object.
func (h Handle) Valid() bool { return h != NoHandle }

// VNode describes one position of the UI tree for a single render pass.
type VNode struct {
	Kind     VKind     // Node type
	Tag      string    // Element tag, or component name for KindComponent
	Key      string    // Reconciliation key ("" = none)
	Children []*VNode  // Child nodes
	Text     string    // For KindText and KindComment
	Data     *Data     // Consumed by modules only
	Comp     Component // For KindComponent

	// Elm is the live object this descriptor represents. It is written by
	// the patcher, once, and read-only afterwards.
	Elm Handle

	// Instance is the mounted component state for KindComponent nodes.
	// It is carried forward from the previous pass's matching node.
	Instance *Instance
}

// Empty is the descriptor hooks receive in place of a missing node.
// It must never be mutated.
var Empty = &VNode{Kind: KindComment}

// IsText reports whether v is a text node.
func (v *VNode) IsText() bool { return v != nil && v.Kind == KindText }

// IsComment reports whether v is a comment node.
func (v *VNode) IsComment() bool { return v != nil && v.Kind == KindComment }

// HasChildren reports whether v carries at least one child.
func (v *VNode) HasChildren() bool {
	return v != nil && len(v.Children) > 0
}

// SameVNode reports whether a and b denote the same logical node and may
// share a live object: keys match, kinds match and tags match.
func SameVNode(a, b *VNode) bool {
	if a == nil || b == nil {
		return false
	}
	return a.Key == b.Key && a.Kind == b.Kind && a.Tag == b.Tag
}

// Data is the opaque bag consumed by modules. The patcher only forwards it.
type Data struct {
	Attrs map[string]string   // Plain attributes
	Class map[string]bool     // Class set
	Style map[string]string   // Style properties
	On    map[string]Listener // Event listeners by event name
	Ref   string              // Reference name registered by the refs module
	Hook  *Hooks              // Per-node lifecycle callbacks
	Extra map[string]any      // Free-form payload for custom modules
}

// Listener is an event callback bound through the events module.
type Listener func(payload any)

// Hooks are per-node lifecycle callbacks invoked by the patcher.
type Hooks struct {
	Create    func(v *VNode)
	Insert    func(v *VNode)
	PrePatch  func(old, v *VNode)
	Update    func(old, v *VNode)
	PostPatch func(old, v *VNode)
	Destroy   func(v *VNode)
}

// Component is anything that can render to a VNode.
type Component interface {
	Render() *VNode
}

// Unmounter is implemented by components that release resources when
// their subtree is destroyed.
type Unmounter interface {
	Unmount()
}

// Instance is the mounted state of a component node.
type Instance struct {
	Comp Component // Component that produced Root
	Root *VNode    // Last rendered root
}

// FuncComponent wraps a render function.
type FuncComponent struct {
	render func() *VNode
}

// Render implements Component.
func (f *FuncComponent) Render() *VNode {
	return f.render()
}

// Func creates a component from a render function.
func Func(render func() *VNode) Component {
	return &FuncComponent{render: render}
}
