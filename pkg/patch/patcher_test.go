package patch

import (
	"bytes"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"testing"

	"github.com/vango-dev/vpatch/pkg/host"
	"github.com/vango-dev/vpatch/pkg/module"
	"github.com/vango-dev/vpatch/pkg/vdom"
)

type fixture struct {
	tree *host.Tree
	rec  *host.Recorder
	refs *module.Refs
	p    *Patcher
	logs *bytes.Buffer
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{tree: host.NewTree(), logs: &bytes.Buffer{}}
	f.rec = host.NewRecorder(f.tree)
	var reg *module.Registry
	reg, f.refs = module.Defaults(f.rec)
	logger := slog.New(slog.NewTextHandler(f.logs, nil))
	f.p = New(f.rec, reg, append([]Option{WithLogger(logger)}, opts...)...)
	return f
}

// mount creates v under the document and clears the operation log.
func (f *fixture) mount(v *vdom.VNode) vdom.Handle {
	h := f.p.PatchInto(nil, v, f.tree.Document(), vdom.NoHandle)
	f.rec.Reset()
	return h
}

func (f *fixture) patch(old, next *vdom.VNode) vdom.Handle {
	f.rec.Reset()
	return f.p.Patch(old, next)
}

func (f *fixture) dump(h vdom.Handle) string {
	return dumpTree(f.tree, h)
}

func dumpTree(tree *host.Tree, h vdom.Handle) string {
	switch tree.Kind(h) {
	case host.NodeText:
		return strconv.Quote(tree.Text(h))
	case host.NodeComment:
		return "<!--" + tree.Text(h) + "-->"
	}
	var b strings.Builder
	b.WriteString(tree.TagName(h))
	if kids := tree.Children(h); len(kids) > 0 {
		b.WriteByte('(')
		for i, c := range kids {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(dumpTree(tree, c))
		}
		b.WriteByte(')')
	}
	return b.String()
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPatchCreatesDetachedTree(t *testing.T) {
	f := newFixture(t)
	v := vdom.Div(vdom.ID("app"), vdom.P("hello"), vdom.Comment("slot"))

	h := f.p.Patch(nil, v)

	if !h.Valid() {
		t.Fatal("Patch(nil, v) returned NoHandle")
	}
	if h != v.Elm {
		t.Errorf("returned handle %d, want v.Elm %d", h, v.Elm)
	}
	if got := f.tree.ParentNode(h); got.Valid() {
		t.Errorf("root should be detached, parent = %d", got)
	}
	if got, want := f.dump(h), `div(p("hello"),<!--slot-->)`; got != want {
		t.Errorf("tree = %s, want %s", got, want)
	}
	if id, _ := f.tree.Attr(h, "id"); id != "app" {
		t.Errorf("id = %q, want app", id)
	}
	if s := f.p.Stats(); s.Created != 4 {
		t.Errorf("Created = %d, want 4", s.Created)
	}
}

func TestPatchIdenticalTreeIsNoOp(t *testing.T) {
	view := func() *vdom.VNode {
		return vdom.Div(
			vdom.Class("card active"),
			vdom.Style("color", "red"),
			vdom.OnClick(func(any) {}),
			vdom.H1("Title"),
			vdom.Ul(vdom.Li(vdom.Key(1), "one"), vdom.Li(vdom.Key(2), "two")),
		)
	}
	f := newFixture(t)
	old := view()
	f.mount(old)

	next := view()
	f.patch(old, next)

	if n := f.rec.Mutations(); n != 0 {
		t.Errorf("Mutations = %d, want 0: %v", n, f.rec.Ops())
	}
	if next.Elm != old.Elm {
		t.Errorf("root handle changed: %d -> %d", old.Elm, next.Elm)
	}
}

func TestPatchSameDescriptor(t *testing.T) {
	f := newFixture(t)
	v := vdom.Div(vdom.Span("x"))
	f.mount(v)

	if h := f.patch(v, v); h != v.Elm {
		t.Errorf("Patch(v, v) = %d, want %d", h, v.Elm)
	}
	if n := f.rec.Mutations(); n != 0 {
		t.Errorf("Mutations = %d, want 0", n)
	}
}

func TestPatchTextUpdate(t *testing.T) {
	f := newFixture(t)
	old := vdom.Div("a", "b")
	f.mount(old)

	next := vdom.Div("a", "c")
	f.patch(old, next)

	if got := f.dump(next.Elm); got != `div("a","c")` {
		t.Errorf("tree = %s", got)
	}
	if n := f.rec.Count(host.OpSetText); n != 1 {
		t.Errorf("SetText ops = %d, want 1", n)
	}
	if n := f.rec.Count(host.OpCreateElement, host.OpCreateText, host.OpRemove); n != 0 {
		t.Errorf("create/remove ops = %d, want 0", n)
	}
	if s := f.p.Stats(); s.TextUpdates != 1 {
		t.Errorf("TextUpdates = %d, want 1", s.TextUpdates)
	}
}

func TestPatchCommentUpdate(t *testing.T) {
	f := newFixture(t)
	old := vdom.Div(vdom.Comment("a"))
	f.mount(old)

	next := vdom.Div(vdom.Comment("b"))
	f.patch(old, next)

	if got := f.dump(next.Elm); got != "div(<!--b-->)" {
		t.Errorf("tree = %s", got)
	}
}

func TestPatchReplacesDifferentTag(t *testing.T) {
	f := newFixture(t)
	old := vdom.Div(vdom.Span("x"))
	f.mount(old)
	span := old.Children[0].Elm

	next := vdom.Div(vdom.P("x"))
	f.patch(old, next)

	if got := f.dump(next.Elm); got != `div(p("x"))` {
		t.Errorf("tree = %s", got)
	}
	if next.Children[0].Elm == span {
		t.Error("p reused the span's live object")
	}
	if f.tree.Contains(span) {
		t.Error("old span was not released")
	}
	s := f.p.Stats()
	if s.Created != 2 || s.Removed != 1 {
		t.Errorf("Created=%d Removed=%d, want 2 and 1", s.Created, s.Removed)
	}
}

func TestPatchReplacesRoot(t *testing.T) {
	f := newFixture(t)
	old := vdom.Div()
	f.mount(old)
	sibling := f.tree.CreateElement("footer")
	f.tree.InsertBefore(f.tree.Document(), sibling, vdom.NoHandle)

	next := vdom.Section("new")
	h := f.patch(old, next)

	if h != next.Elm {
		t.Errorf("handle = %d, want %d", h, next.Elm)
	}
	if got := f.dump(f.tree.Document()); got != `#document(section("new"),footer)` {
		t.Errorf("tree = %s", got)
	}
}

func TestPatchNilNextDestroysOnly(t *testing.T) {
	f := newFixture(t)
	old := vdom.Div(vdom.Ref("root"), vdom.Span(vdom.Ref("child")))
	f.mount(old)
	if f.refs.Len() != 2 {
		t.Fatalf("refs = %d, want 2", f.refs.Len())
	}

	if h := f.patch(old, nil); h.Valid() {
		t.Errorf("Patch(old, nil) = %d, want NoHandle", h)
	}
	if f.refs.Len() != 0 {
		t.Errorf("refs after destroy = %d, want 0", f.refs.Len())
	}
	if n := f.rec.Count(host.OpRemove); n != 0 {
		t.Errorf("Remove ops = %d, want 0", n)
	}
	if !f.tree.ParentNode(old.Elm).Valid() {
		t.Error("Patch(old, nil) detached the live object")
	}
}

func TestPatchIntoAndRemove(t *testing.T) {
	f := newFixture(t)
	doc := f.tree.Document()
	first := vdom.P("first")
	f.p.PatchInto(nil, first, doc, vdom.NoHandle)
	second := vdom.P("second")
	f.p.PatchInto(nil, second, doc, first.Elm)

	if got := f.dump(doc); got != `#document(p("second"),p("first"))` {
		t.Fatalf("tree = %s", got)
	}

	f.p.PatchInto(second, nil, doc, vdom.NoHandle)
	if got := f.dump(doc); got != `#document(p("first"))` {
		t.Errorf("tree after removal = %s", got)
	}
	if s := f.p.Stats(); s.Removed != 1 {
		t.Errorf("Removed = %d, want 1", s.Removed)
	}
}

func TestMountReplacesHostNode(t *testing.T) {
	f := newFixture(t)
	doc := f.tree.Document()
	existing := f.tree.CreateElement("div")
	f.tree.InsertBefore(doc, existing, vdom.NoHandle)

	h := f.p.Mount(existing, vdom.Div("hi"))

	if h == existing {
		t.Error("Mount reused the host node")
	}
	if got := f.dump(doc); got != `#document(div("hi"))` {
		t.Errorf("tree = %s", got)
	}
}

func TestNodeAtNeverMatches(t *testing.T) {
	f := newFixture(t)
	text := f.tree.CreateText("x")
	placeholder := f.p.NodeAt(text)

	if placeholder.Kind != vdom.KindText {
		t.Errorf("Kind = %v, want text", placeholder.Kind)
	}
	if vdom.SameVNode(placeholder, vdom.Text("x")) {
		t.Error("placeholder matched a rendered text node")
	}
}

func TestSharedDescriptorGetsDistinctNodes(t *testing.T) {
	f := newFixture(t)
	shared := vdom.Span("x")
	v := vdom.Div(shared, shared)

	h := f.p.Patch(nil, v)

	kids := f.tree.Children(h)
	if len(kids) != 2 || kids[0] == kids[1] {
		t.Fatalf("children = %v, want two distinct nodes", kids)
	}
	if v.Children[0] == v.Children[1] {
		t.Error("second slot still holds the shared descriptor")
	}
	if shared.Elm != kids[0] {
		t.Errorf("shared.Elm = %d, want %d", shared.Elm, kids[0])
	}
	if v.Children[1].Elm != kids[1] {
		t.Errorf("copy Elm = %d, want %d", v.Children[1].Elm, kids[1])
	}
}

func TestReusedOldDescriptors(t *testing.T) {
	f := newFixture(t)
	old := list("a", "b")
	f.mount(old)
	a, b := old.Children[0], old.Children[1]
	aElm, bElm := a.Elm, b.Elm

	next := vdom.Ul(b, a)
	f.patch(old, next)

	if got := keysOf(f.tree, next.Elm); got != "b,a" {
		t.Errorf("keys = %s, want b,a", got)
	}
	if a.Elm != aElm || b.Elm != bElm {
		t.Error("reused descriptors were rebound")
	}
}

func TestAttributeAndStyleUpdates(t *testing.T) {
	f := newFixture(t)
	old := vdom.Div(vdom.ID("a"), vdom.TitleAttr("t"), vdom.Style("color", "red"), vdom.ClassIf("on", true))
	f.mount(old)

	next := vdom.Div(vdom.ID("b"), vdom.Style("margin", "0"), vdom.ClassIf("on", false))
	f.patch(old, next)

	h := next.Elm
	if got := f.tree.Attrs(h); len(got) != 1 || got["id"] != "b" {
		t.Errorf("attrs = %v, want only id=b", got)
	}
	if got := f.tree.Styles(h); len(got) != 1 || got["margin"] != "0" {
		t.Errorf("styles = %v, want only margin=0", got)
	}
}

func TestListenerSwapKeepsBinding(t *testing.T) {
	f := newFixture(t)
	var calls []string
	old := vdom.Button(vdom.OnClick(func(any) { calls = append(calls, "old") }))
	f.mount(old)

	next := vdom.Button(vdom.OnClick(func(any) { calls = append(calls, "new") }))
	f.patch(old, next)

	if n := f.rec.Count(host.OpSetListener, host.OpRemoveListener); n != 0 {
		t.Errorf("listener ops = %d, want 0", n)
	}
	f.tree.Dispatch(next.Elm, "click", nil)
	if len(calls) != 1 || calls[0] != "new" {
		t.Errorf("calls = %v, want [new]", calls)
	}

	f.patch(next, vdom.Button())
	if f.tree.HasListener(next.Elm, "click") {
		t.Error("listener still bound after removal")
	}
}
