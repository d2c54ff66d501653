package module

import (
	"testing"

	"github.com/vango-dev/vpatch/pkg/host"
	"github.com/vango-dev/vpatch/pkg/vdom"
)

// bind gives v a live element so modules can act on it.
func bind(tree *host.Tree, v *vdom.VNode) *vdom.VNode {
	v.Elm = tree.CreateElement(v.Tag)
	return v
}

func TestAttrsModule(t *testing.T) {
	tree := host.NewTree()
	rec := host.NewRecorder(tree)
	m := NewAttrs(rec)

	v := bind(tree, vdom.Div(vdom.ID("a"), vdom.TitleAttr("t")))
	m.Create(vdom.Empty, v)
	if got := tree.Attrs(v.Elm); got["id"] != "a" || got["title"] != "t" {
		t.Errorf("attrs after create = %v", got)
	}

	rec.Reset()
	next := vdom.Div(vdom.ID("a"), vdom.Type("x"))
	next.Elm = v.Elm
	m.Update(v, next)

	if got := tree.Attrs(v.Elm); len(got) != 2 || got["type"] != "x" || got["id"] != "a" {
		t.Errorf("attrs after update = %v", got)
	}
	if n := rec.Count(host.OpSetAttr); n != 1 {
		t.Errorf("SetAttr ops = %d, want 1 (unchanged id skipped)", n)
	}
	if n := rec.Count(host.OpRemoveAttr); n != 1 {
		t.Errorf("RemoveAttr ops = %d, want 1", n)
	}
}

func TestAttrsIgnoresNonElements(t *testing.T) {
	rec := host.NewRecorder(host.NewTree())
	m := NewAttrs(rec)
	m.Update(vdom.Empty, vdom.Text("x"))
	if rec.Mutations() != 0 {
		t.Error("text node produced attribute ops")
	}
}

func TestClassModule(t *testing.T) {
	tree := host.NewTree()
	m := NewClass(tree)

	v := bind(tree, vdom.Div(vdom.Class("b a"), vdom.ClassIf("c", false)))
	m.Create(vdom.Empty, v)
	if got, _ := tree.Attr(v.Elm, "class"); got != "a b" {
		t.Errorf("class = %q, want %q", got, "a b")
	}

	next := vdom.Div(vdom.ClassIf("a", false))
	next.Elm = v.Elm
	m.Update(v, next)
	if _, ok := tree.Attr(v.Elm, "class"); ok {
		t.Error("class attribute kept after all classes were disabled")
	}
}

func TestClassString(t *testing.T) {
	got := ClassString(map[string]bool{"z": true, "a": true, "off": false})
	if got != "a z" {
		t.Errorf("ClassString = %q, want %q", got, "a z")
	}
	if ClassString(nil) != "" {
		t.Error("ClassString(nil) not empty")
	}
}

func TestStyleModule(t *testing.T) {
	tree := host.NewTree()
	m := NewStyle(tree)

	v := bind(tree, vdom.Div(vdom.Style("color", "red"), vdom.Style("margin", "0")))
	m.Create(vdom.Empty, v)

	next := vdom.Div(vdom.Style("color", "blue"))
	next.Elm = v.Elm
	m.Update(v, next)

	if got := tree.Styles(v.Elm); len(got) != 1 || got["color"] != "blue" {
		t.Errorf("styles = %v", got)
	}
}
