package vdom

import "fmt"

// Text creates a text node.
func Text(content string) *VNode {
	return &VNode{
		Kind: KindText,
		Text: content,
	}
}

// Textf creates a formatted text node.
func Textf(format string, args ...any) *VNode {
	return Text(fmt.Sprintf(format, args...))
}

// Comment creates a comment node. Comments also serve as placeholders
// for conditionally absent content.
func Comment(content string) *VNode {
	return &VNode{
		Kind: KindComment,
		Text: content,
	}
}

// Comp creates a component node. The name takes part in node sameness,
// so two different components rendered at the same position are never
// patched into each other when they carry different names.
func Comp(name string, c Component, args ...Attr) *VNode {
	node := &VNode{
		Kind: KindComponent,
		Tag:  name,
		Comp: c,
	}
	for _, a := range args {
		a.apply(node)
	}
	return node
}

// If returns the node if condition is true, nil otherwise.
func If(condition bool, node *VNode) *VNode {
	if condition {
		return node
	}
	return nil
}

// IfElse returns the first node if condition is true, the second otherwise.
func IfElse(condition bool, ifTrue, ifFalse *VNode) *VNode {
	if condition {
		return ifTrue
	}
	return ifFalse
}

// Range maps a slice to VNodes.
func Range[T any](items []T, fn func(item T, index int) *VNode) []*VNode {
	result := make([]*VNode, 0, len(items))
	for i, item := range items {
		node := fn(item, i)
		if node != nil {
			result = append(result, node)
		}
	}
	return result
}

// Walk visits node and its descendants depth-first, parents first.
// Returning false from fn skips the node's children.
func Walk(node *VNode, fn func(*VNode) bool) {
	if node == nil {
		return
	}
	if !fn(node) {
		return
	}
	for _, child := range node.Children {
		Walk(child, fn)
	}
}

// Count returns the number of nodes in the tree.
func Count(node *VNode) int {
	n := 0
	Walk(node, func(*VNode) bool {
		n++
		return true
	})
	return n
}

// Clone returns a deep copy of the descriptor tree without live-object
// back-references, suitable as a fresh render of the same description.
// Data maps are shared.
func Clone(node *VNode) *VNode {
	if node == nil {
		return nil
	}
	c := &VNode{
		Kind: node.Kind,
		Tag:  node.Tag,
		Key:  node.Key,
		Text: node.Text,
		Data: node.Data,
		Comp: node.Comp,
	}
	if node.Children != nil {
		c.Children = make([]*VNode, len(node.Children))
		for i, child := range node.Children {
			c.Children[i] = Clone(child)
		}
	}
	return c
}

// DuplicateKeys returns the keys that occur more than once among children,
// in order of their second occurrence.
func DuplicateKeys(children []*VNode) []string {
	var dups []string
	seen := make(map[string]bool, len(children))
	for _, child := range children {
		if child == nil || child.Key == "" {
			continue
		}
		if seen[child.Key] {
			dups = append(dups, child.Key)
			continue
		}
		seen[child.Key] = true
	}
	return dups
}
