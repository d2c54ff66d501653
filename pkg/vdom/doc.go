// Package vdom provides the node descriptors reconciled by the patcher.
//
// A VNode describes one position of the UI tree for a single render pass.
// Descriptors are created fresh by every render, consumed once by the
// patcher, and then kept only as the "old" tree of the next pass. The
// live object a descriptor stands for is referenced by Handle, an index
// into the host's arena, rather than by pointer.
//
// # Core Types
//
// VNode is the fundamental building block representing elements, text,
// comments and components. Data holds everything modules consume
// (attributes, classes, styles, listeners, refs); the patcher never looks
// inside it.
//
// # Element API
//
// Elements are created using variadic factory functions:
//
//	Ul(ID("list"),
//	    Li(Key("a"), Class("item"), Text("A")),
//	    Li(Key("b"), Class("item"), OnClick(handler), Text("B")),
//	)
//
// # Sameness
//
// SameVNode gates every reuse decision: two descriptors share a live
// object only if their keys, kinds and tags are equal.
package vdom
