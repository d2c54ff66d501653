// Package patch reconciles node descriptor trees against a live render
// target.
//
// A Patcher is given the tree it produced for the previous render pass
// and the tree of the current pass. It reuses live objects wherever
// vdom.SameVNode holds, and otherwise creates, moves and removes them
// through host.NodeOps. Attributes, classes, styles, listeners and refs
// are left to the modules registered in a module.Registry.
//
// # Usage
//
//	tree := host.NewTree()
//	reg, _ := module.Defaults(tree)
//	p := patch.New(tree, reg)
//
//	prev := view(state)
//	tree.InsertBefore(tree.Document(), p.Patch(nil, prev), vdom.NoHandle)
//	for state := range updates {
//	    next := view(state)
//	    p.Patch(prev, next)
//	    prev = next
//	}
//
// # Children
//
// Child lists are reconciled with a two-ended scan that handles unchanged
// lists, appends, prepends, removals and swaps in constant time per node,
// falling back to a key index only for genuine reorders. Keys must be
// unique among siblings; Diagnostics controls what happens when they are
// not.
//
// # Failures
//
// Host failures surface as panics from the host and abort the call.
// SafePatch and PatchContext convert them into errors. A failed call may
// leave the live tree partially patched; the next full patch reconciles
// it again.
package patch
