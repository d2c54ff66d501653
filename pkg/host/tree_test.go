package host

import (
	"errors"
	"slices"
	"testing"

	"github.com/vango-dev/vpatch/pkg/vdom"
)

// expectFailure runs fn and returns the *Error it panics with.
func expectFailure(t *testing.T, fn func()) *Error {
	t.Helper()
	var got *Error
	func() {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			err, ok := r.(error)
			if !ok || !errors.As(err, &got) {
				t.Fatalf("panic value %v is not a *host.Error", r)
			}
		}()
		fn()
	}()
	if got == nil {
		t.Fatal("expected host failure, got none")
	}
	return got
}

func TestNewTree(t *testing.T) {
	tree := NewTree()
	doc := tree.Document()

	if !doc.Valid() {
		t.Fatal("document handle is NoHandle")
	}
	if tree.Kind(doc) != NodeDocument {
		t.Errorf("Kind = %v, want Document", tree.Kind(doc))
	}
	if tree.TagName(doc) != "#document" {
		t.Errorf("TagName = %q", tree.TagName(doc))
	}
	if tree.Len() != 1 {
		t.Errorf("Len = %d, want 1", tree.Len())
	}
}

func TestInsertBefore(t *testing.T) {
	tree := NewTree()
	ul := tree.CreateElement("ul")
	a, b, c := tree.CreateElement("li"), tree.CreateElement("li"), tree.CreateElement("li")

	tree.InsertBefore(ul, a, vdom.NoHandle)
	tree.InsertBefore(ul, c, vdom.NoHandle)
	tree.InsertBefore(ul, b, c)

	if got := tree.Children(ul); !slices.Equal(got, []vdom.Handle{a, b, c}) {
		t.Errorf("children = %v, want [%d %d %d]", got, a, b, c)
	}
	if tree.ParentNode(b) != ul {
		t.Errorf("ParentNode(b) = %d, want %d", tree.ParentNode(b), ul)
	}
	if tree.NextSibling(a) != b || tree.NextSibling(c).Valid() {
		t.Error("NextSibling mismatch")
	}

	// Moving an attached node.
	tree.InsertBefore(ul, c, a)
	if got := tree.Children(ul); !slices.Equal(got, []vdom.Handle{c, a, b}) {
		t.Errorf("after move children = %v", got)
	}

	// Inserting a node before itself is a no-op.
	tree.InsertBefore(ul, a, a)
	if got := tree.Children(ul); !slices.Equal(got, []vdom.Handle{c, a, b}) {
		t.Errorf("after self insert children = %v", got)
	}
}

func TestInsertBeforeAcrossParents(t *testing.T) {
	tree := NewTree()
	p1, p2 := tree.CreateElement("div"), tree.CreateElement("div")
	x := tree.CreateText("x")

	tree.InsertBefore(p1, x, vdom.NoHandle)
	tree.InsertBefore(p2, x, vdom.NoHandle)

	if len(tree.Children(p1)) != 0 {
		t.Error("node still listed under old parent")
	}
	if tree.ParentNode(x) != p2 {
		t.Errorf("ParentNode = %d, want %d", tree.ParentNode(x), p2)
	}
}

func TestInsertBeforeFailures(t *testing.T) {
	tree := NewTree()
	div := tree.CreateElement("div")
	span := tree.CreateElement("span")
	text := tree.CreateText("x")
	tree.InsertBefore(div, span, vdom.NoHandle)

	tests := []struct {
		name string
		fn   func()
		node vdom.Handle
	}{
		{"unknown parent", func() { tree.InsertBefore(99, span, vdom.NoHandle) }, 99},
		{"text parent", func() { tree.InsertBefore(text, span, vdom.NoHandle) }, text},
		{"document child", func() { tree.InsertBefore(div, tree.Document(), vdom.NoHandle) }, tree.Document()},
		{"cycle", func() { tree.InsertBefore(span, div, vdom.NoHandle) }, div},
		{"foreign ref", func() { tree.InsertBefore(div, text, div) }, div},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := expectFailure(t, tt.fn)
			if err.Op != "InsertBefore" {
				t.Errorf("Op = %q, want InsertBefore", err.Op)
			}
			if err.Node != tt.node {
				t.Errorf("Node = %d, want %d", err.Node, tt.node)
			}
		})
	}
}

func TestRemoveChild(t *testing.T) {
	tree := NewTree()
	div := tree.CreateElement("div")
	a, b := tree.CreateText("a"), tree.CreateText("b")
	tree.InsertBefore(div, a, vdom.NoHandle)
	tree.InsertBefore(div, b, vdom.NoHandle)

	tree.RemoveChild(div, a)

	if got := tree.Children(div); !slices.Equal(got, []vdom.Handle{b}) {
		t.Errorf("children = %v", got)
	}
	if tree.ParentNode(a).Valid() {
		t.Error("removed node still has a parent")
	}
	expectFailure(t, func() { tree.RemoveChild(div, a) })
}

func TestSetTextContent(t *testing.T) {
	tree := NewTree()
	text := tree.CreateText("a")
	tree.SetTextContent(text, "b")
	if tree.Text(text) != "b" {
		t.Errorf("Text = %q, want b", tree.Text(text))
	}

	div := tree.CreateElement("div")
	old := tree.CreateElement("span")
	tree.InsertBefore(div, old, vdom.NoHandle)
	tree.SetTextContent(div, "hello")

	kids := tree.Children(div)
	if len(kids) != 1 || tree.Kind(kids[0]) != NodeText || tree.Text(kids[0]) != "hello" {
		t.Errorf("children after SetTextContent = %v", kids)
	}
	if tree.ParentNode(old).Valid() {
		t.Error("replaced child still attached")
	}

	tree.SetTextContent(div, "")
	if len(tree.Children(div)) != 0 {
		t.Error("empty text content left children")
	}
}

func TestTagName(t *testing.T) {
	tree := NewTree()
	tests := []struct {
		h    vdom.Handle
		want string
	}{
		{tree.CreateElement("div"), "div"},
		{tree.CreateText("x"), "#text"},
		{tree.CreateComment("x"), "#comment"},
	}
	for _, tt := range tests {
		if got := tree.TagName(tt.h); got != tt.want {
			t.Errorf("TagName(%d) = %q, want %q", tt.h, got, tt.want)
		}
	}
}

func TestElementState(t *testing.T) {
	tree := NewTree()
	div := tree.CreateElement("div")

	tree.SetAttribute(div, "id", "a")
	tree.SetAttribute(div, "title", "t")
	tree.RemoveAttribute(div, "title")
	if got := tree.Attrs(div); len(got) != 1 || got["id"] != "a" {
		t.Errorf("Attrs = %v", got)
	}
	if v, ok := tree.Attr(div, "id"); !ok || v != "a" {
		t.Errorf("Attr(id) = %q, %v", v, ok)
	}

	tree.SetStyle(div, "color", "red")
	tree.SetStyle(div, "margin", "0")
	tree.RemoveStyle(div, "margin")
	if got := tree.Styles(div); len(got) != 1 || got["color"] != "red" {
		t.Errorf("Styles = %v", got)
	}

	var payload any
	tree.SetListener(div, "click", func(p any) { payload = p })
	if !tree.HasListener(div, "click") {
		t.Fatal("listener not bound")
	}
	if !tree.Dispatch(div, "click", 42) || payload != 42 {
		t.Errorf("Dispatch payload = %v", payload)
	}
	tree.SetListener(div, "blur", func(any) {})
	if got := tree.Listeners(div); len(got) != 2 || got[0] != "blur" || got[1] != "click" {
		t.Errorf("Listeners = %v", got)
	}
	tree.RemoveListener(div, "click")
	if tree.Dispatch(div, "click", nil) {
		t.Error("Dispatch succeeded after RemoveListener")
	}

	text := tree.CreateText("x")
	err := expectFailure(t, func() { tree.SetAttribute(text, "id", "a") })
	if err.Op != "SetAttribute" {
		t.Errorf("Op = %q", err.Op)
	}
}

func TestNodeKindString(t *testing.T) {
	if NodeComment.String() != "Comment" || NodeKind(42).String() != "Unknown" {
		t.Error("NodeKind.String mismatch")
	}
}

func TestRelease(t *testing.T) {
	tree := NewTree()
	ul := tree.CreateElement("ul")
	li := tree.CreateElement("li")
	text := tree.CreateText("a")
	tree.InsertBefore(tree.Document(), ul, vdom.NoHandle)
	tree.InsertBefore(ul, li, vdom.NoHandle)
	tree.InsertBefore(li, text, vdom.NoHandle)
	tree.SetListener(li, "click", func(any) {})

	expectFailure(t, func() { tree.Release(li) })
	expectFailure(t, func() { tree.Release(tree.Document()) })

	tree.RemoveChild(ul, li)
	tree.Release(li)

	if tree.Contains(li) || tree.Contains(text) || !tree.Contains(ul) {
		t.Error("Contains does not follow the release")
	}
	if tree.Len() != 2 {
		t.Errorf("Len = %d, want 2", tree.Len())
	}
	if tree.Allocated() != 4 {
		t.Errorf("Allocated = %d, want 4", tree.Allocated())
	}
	if e := expectFailure(t, func() { tree.Text(text) }); e.Op != "Text" {
		t.Errorf("op = %q", e.Op)
	}

	// Released handles are never reissued.
	if h := tree.CreateElement("li"); h == li || h == text {
		t.Errorf("handle %d reissued", h)
	}
}
