package patch

import (
	"github.com/vango-dev/vpatch/internal/errors"
	"github.com/vango-dev/vpatch/pkg/vdom"
)

// updateChildren reconciles the live children of parent, described by
// oldCh, so that they match newCh in order and identity.
//
// Both lists are scanned from both ends at once. Each step first tries
// the four cheap pairings (head/head, tail/tail, head/tail, tail/head),
// which cover unchanged lists, appends, prepends, removals and swaps
// without any lookup. Only when all four fail is a key index built over
// the remaining old range, once per call. Old slots matched through the
// index are marked in consumed so the final cleanup skips them.
//
// The returned slice replaces newCh in the parent descriptor; newCh itself
// is cloned rather than written when a slot needs a detached copy.
func (p *Patcher) updateChildren(parent vdom.Handle, oldCh, newCh []*vdom.VNode) []*vdom.VNode {
	p.checkDuplicateKeys(parent, newCh)
	nc := children{s: newCh}

	oldStart, newStart := 0, 0
	oldEnd, newEnd := len(oldCh)-1, len(nc.s)-1

	var (
		keyIdx   map[string]int
		consumed []bool
	)
	isConsumed := func(i int) bool {
		return oldCh[i] == nil || (consumed != nil && consumed[i])
	}

	for oldStart <= oldEnd && newStart <= newEnd {
		switch {
		case isConsumed(oldStart):
			oldStart++

		case isConsumed(oldEnd):
			oldEnd--

		case nc.s[newStart] == nil:
			newStart++

		case nc.s[newEnd] == nil:
			newEnd--

		case vdom.SameVNode(oldCh[oldStart], nc.s[newStart]):
			p.patchVnode(oldCh[oldStart], nc.own(newStart, oldCh[oldStart]))
			oldStart++
			newStart++

		case vdom.SameVNode(oldCh[oldEnd], nc.s[newEnd]):
			p.patchVnode(oldCh[oldEnd], nc.own(newEnd, oldCh[oldEnd]))
			oldEnd--
			newEnd--

		case vdom.SameVNode(oldCh[oldStart], nc.s[newEnd]):
			// Moved to the end: place it after the current old tail.
			v := nc.own(newEnd, oldCh[oldStart])
			p.patchVnode(oldCh[oldStart], v)
			p.move(parent, v.Elm, p.ops.NextSibling(oldCh[oldEnd].Elm))
			oldStart++
			newEnd--

		case vdom.SameVNode(oldCh[oldEnd], nc.s[newStart]):
			// Moved to the front: place it before the current old head.
			v := nc.own(newStart, oldCh[oldEnd])
			p.patchVnode(oldCh[oldEnd], v)
			p.move(parent, v.Elm, oldCh[oldStart].Elm)
			oldEnd--
			newStart++

		default:
			if keyIdx == nil {
				keyIdx = buildKeyIndex(oldCh, oldStart, oldEnd)
				consumed = make([]bool, len(oldCh))
			}
			v := nc.s[newStart]
			idx, found := -1, false
			if v.Key != "" {
				idx, found = keyIdx[v.Key]
			}
			// A hit outside the live range or on a consumed slot can only
			// come from a duplicate key; treat it as a miss.
			if found && idx >= oldStart && idx <= oldEnd && !consumed[idx] &&
				vdom.SameVNode(oldCh[idx], v) {
				v = nc.own(newStart, oldCh[idx])
				p.patchVnode(oldCh[idx], v)
				consumed[idx] = true
				p.move(parent, v.Elm, oldCh[oldStart].Elm)
			} else {
				nc.set(newStart, p.createElm(v, parent, oldCh[oldStart].Elm))
			}
			newStart++
		}
	}

	if oldStart > oldEnd {
		// Everything after newEnd is placed; skip nil slots to find the
		// anchor.
		ref := vdom.NoHandle
		for _, v := range nc.s[newEnd+1:] {
			if v != nil && v.Elm.Valid() {
				ref = v.Elm
				break
			}
		}
		p.addVnodes(parent, ref, &nc, newStart, newEnd)
	} else if newStart > newEnd {
		p.removeVnodes(oldCh, oldStart, oldEnd, consumed)
	}
	return nc.s
}

// buildKeyIndex maps keys to their first index in oldCh[start..end].
func buildKeyIndex(oldCh []*vdom.VNode, start, end int) map[string]int {
	idx := make(map[string]int, end-start+1)
	for i := start; i <= end; i++ {
		v := oldCh[i]
		if v == nil || v.Key == "" {
			continue
		}
		if _, dup := idx[v.Key]; !dup {
			idx[v.Key] = i
		}
	}
	return idx
}

// move re-inserts an attached live object before ref.
func (p *Patcher) move(parent, elm, ref vdom.Handle) {
	p.ops.InsertBefore(parent, elm, ref)
	p.stats.Moved++
}

// checkDuplicateKeys reports keys used more than once among children.
func (p *Patcher) checkDuplicateKeys(parent vdom.Handle, children []*vdom.VNode) {
	if p.diag == DiagnosticsOff {
		return
	}
	for _, key := range vdom.DuplicateKeys(children) {
		p.violation(errors.New(errors.CodeDuplicateKey).
			WithDetailf("key %q under <%s>", key, p.tagOf(parent)))
	}
}

func (p *Patcher) tagOf(h vdom.Handle) string {
	if !h.Valid() {
		return "root"
	}
	return p.ops.TagName(h)
}
