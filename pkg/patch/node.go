package patch

import (
	"slices"

	"github.com/vango-dev/vpatch/internal/errors"
	"github.com/vango-dev/vpatch/pkg/vdom"
)

// createElm creates the live object for v and its subtree and inserts it
// into parent before ref. A descriptor that already owns a live object
// (reused from an earlier pass) is shallow-copied first, so Elm is never
// reassigned; the copy is returned and callers store it in place of v.
func (p *Patcher) createElm(v *vdom.VNode, parent, ref vdom.Handle) *vdom.VNode {
	if v == nil {
		return nil
	}
	if v.Elm.Valid() {
		v = detachedCopy(v)
	}

	switch v.Kind {
	case vdom.KindComponent:
		p.createComponent(v, parent, ref)
		return v

	case vdom.KindText:
		v.Elm = p.ops.CreateText(v.Text)

	case vdom.KindComment:
		v.Elm = p.ops.CreateComment(v.Text)

	default:
		if v.Tag == "" {
			p.violation(errors.New(errors.CodeMissingTag).
				WithDetailf("kind %s, key %q", v.Kind, v.Key))
			v.Elm = p.ops.CreateComment("")
			break
		}
		v.Elm = p.ops.CreateElement(v.Tag)
		p.createChildren(v)
		p.invokeCreateHooks(v)
	}

	p.stats.Created++
	p.insert(parent, v.Elm, ref)
	return v
}

// detachedCopy returns a shallow copy of v without live-object
// back-references. The children slice is copied so the copy's subtree can
// be written without touching v.
func detachedCopy(v *vdom.VNode) *vdom.VNode {
	c := *v
	c.Elm = vdom.NoHandle
	c.Instance = nil
	if v.Children != nil {
		c.Children = append([]*vdom.VNode(nil), v.Children...)
	}
	return &c
}

// children is a children slice that is cloned before its first write,
// so a slice shared with another descriptor is never modified.
type children struct {
	s      []*vdom.VNode
	cloned bool
}

func (c *children) set(i int, v *vdom.VNode) *vdom.VNode {
	if c.s[i] == v {
		return v
	}
	if !c.cloned {
		c.s = slices.Clone(c.s)
		c.cloned = true
	}
	c.s[i] = v
	return v
}

// own returns c.s[i] ready to receive old's live object. A descriptor
// already bound to another live object is replaced by a detached copy.
func (c *children) own(i int, old *vdom.VNode) *vdom.VNode {
	return c.set(i, adopt(old, c.s[i]))
}

// adopt is own for a descriptor held outside a children slice.
func adopt(old, v *vdom.VNode) *vdom.VNode {
	if v != old && v.Elm.Valid() && v.Elm != old.Elm {
		return detachedCopy(v)
	}
	return v
}

func (p *Patcher) createChildren(v *vdom.VNode) {
	p.checkDuplicateKeys(v.Elm, v.Children)
	ch := children{s: v.Children}
	for i, child := range v.Children {
		ch.set(i, p.createElm(child, v.Elm, vdom.NoHandle))
	}
	v.Children = ch.s
}

func (p *Patcher) invokeCreateHooks(v *vdom.VNode) {
	p.hooks.Create(v)
	if h := hooksOf(v); h != nil && h.Create != nil {
		h.Create(v)
	}
	p.queue = append(p.queue, v)
}

func (p *Patcher) createComponent(v *vdom.VNode, parent, ref vdom.Handle) {
	root := p.createElm(p.render(v), parent, ref)
	v.Instance = &vdom.Instance{Comp: v.Comp, Root: root}
	v.Elm = root.Elm
	if h := hooksOf(v); h != nil && h.Create != nil {
		h.Create(v)
	}
	p.queue = append(p.queue, v)
}

// render produces the component's root, substituting a comment
// placeholder when the component renders nothing.
func (p *Patcher) render(v *vdom.VNode) *vdom.VNode {
	var root *vdom.VNode
	if v.Comp != nil {
		root = v.Comp.Render()
	}
	if root == nil {
		p.violation(errors.New(errors.CodeNilRender).
			WithDetailf("component %q", v.Tag))
		root = vdom.Comment("")
	}
	return root
}

func (p *Patcher) insert(parent, elm, ref vdom.Handle) {
	if !parent.Valid() {
		return
	}
	p.ops.InsertBefore(parent, elm, ref)
}

// patchVnode reconciles two descriptors that denote the same node,
// reusing old's live object for v.
func (p *Patcher) patchVnode(old, v *vdom.VNode) {
	if old == v {
		return
	}
	if v.Kind == vdom.KindComponent {
		p.patchComponent(old, v)
		return
	}

	elm := old.Elm
	v.Elm = elm

	hooks := hooksOf(v)
	if hooks != nil && hooks.PrePatch != nil {
		hooks.PrePatch(old, v)
	}

	switch v.Kind {
	case vdom.KindText, vdom.KindComment:
		if old.Text != v.Text {
			p.ops.SetTextContent(elm, v.Text)
			p.stats.TextUpdates++
		}

	default:
		p.hooks.Update(old, v)
		if hooks != nil && hooks.Update != nil {
			hooks.Update(old, v)
		}

		oldCh, ch := old.Children, v.Children
		switch {
		case len(oldCh) > 0 && len(ch) > 0:
			if !sameSlice(oldCh, ch) {
				v.Children = p.updateChildren(elm, oldCh, ch)
			}
		case len(ch) > 0:
			p.checkDuplicateKeys(elm, ch)
			newCh := children{s: ch}
			p.addVnodes(elm, vdom.NoHandle, &newCh, 0, len(ch)-1)
			v.Children = newCh.s
		case len(oldCh) > 0:
			p.removeVnodes(oldCh, 0, len(oldCh)-1, nil)
		}
	}

	if hooks != nil && hooks.PostPatch != nil {
		hooks.PostPatch(old, v)
	}
}

// patchComponent re-renders v's component and reconciles the result
// against the root rendered for old.
func (p *Patcher) patchComponent(old, v *vdom.VNode) {
	inst := old.Instance
	if inst == nil {
		// old never mounted; nothing to reuse.
		p.replace(old, v)
		return
	}
	v.Instance = inst

	hooks := hooksOf(v)
	if hooks != nil && hooks.PrePatch != nil {
		hooks.PrePatch(old, v)
	}

	prevRoot := inst.Root
	root := p.render(v)
	inst.Comp = v.Comp
	switch {
	case root == prevRoot:
	case vdom.SameVNode(prevRoot, root):
		root = adopt(prevRoot, root)
		p.patchVnode(prevRoot, root)
	default:
		parent := p.ops.ParentNode(prevRoot.Elm)
		root = p.createElm(root, parent, p.ops.NextSibling(prevRoot.Elm))
		if parent.Valid() {
			p.removeVnodes([]*vdom.VNode{prevRoot}, 0, 0, nil)
		} else {
			p.invokeDestroyHook(prevRoot)
		}
	}
	inst.Root = root
	v.Elm = root.Elm

	if hooks != nil && hooks.Update != nil {
		hooks.Update(old, v)
	}
	if hooks != nil && hooks.PostPatch != nil {
		hooks.PostPatch(old, v)
	}
}

// sameSlice reports whether a and b are the same slice value.
func sameSlice(a, b []*vdom.VNode) bool {
	return len(a) == len(b) && len(a) > 0 && &a[0] == &b[0]
}

// addVnodes creates ch.s[start..end] and inserts them before ref.
func (p *Patcher) addVnodes(parent, ref vdom.Handle, ch *children, start, end int) {
	for i := start; i <= end; i++ {
		if v := ch.s[i]; v != nil {
			ch.set(i, p.createElm(v, parent, ref))
		}
	}
}

// removeVnodes detaches vnodes[start..end] and destroys their subtrees.
// Slots marked in consumed are skipped.
func (p *Patcher) removeVnodes(vnodes []*vdom.VNode, start, end int, consumed []bool) {
	for i := start; i <= end; i++ {
		v := vnodes[i]
		if v == nil || (consumed != nil && consumed[i]) {
			continue
		}
		p.removeNode(v.Elm)
		p.invokeDestroyHook(v)
		p.release(v.Elm)
	}
}

// release frees a removed subtree on hosts that support it.
func (p *Patcher) release(elm vdom.Handle) {
	if p.rel != nil && elm.Valid() {
		p.rel.Release(elm)
	}
}

func (p *Patcher) removeNode(elm vdom.Handle) {
	if !elm.Valid() {
		return
	}
	if parent := p.ops.ParentNode(elm); parent.Valid() {
		p.ops.RemoveChild(parent, elm)
		p.stats.Removed++
	}
}

// invokeDestroyHook runs destroy hooks over v's subtree depth-first,
// children strictly before their parent.
func (p *Patcher) invokeDestroyHook(v *vdom.VNode) {
	if v == nil {
		return
	}
	if v.Kind == vdom.KindComponent {
		if inst := v.Instance; inst != nil {
			p.invokeDestroyHook(inst.Root)
			if u, ok := inst.Comp.(vdom.Unmounter); ok {
				u.Unmount()
			}
		}
	} else {
		for _, child := range v.Children {
			p.invokeDestroyHook(child)
		}
		if v.Kind == vdom.KindElement {
			p.hooks.Destroy(v)
		}
	}
	if h := hooksOf(v); h != nil && h.Destroy != nil {
		h.Destroy(v)
	}
}
