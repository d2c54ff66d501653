package vdom

import (
	"slices"
	"testing"
)

func TestTextAndComment(t *testing.T) {
	if n := Textf("Count: %d", 42); n.Kind != KindText || n.Text != "Count: 42" {
		t.Errorf("Textf = %+v", n)
	}
	if n := Comment("slot"); n.Kind != KindComment || n.Text != "slot" {
		t.Errorf("Comment = %+v", n)
	}
}

func TestComp(t *testing.T) {
	c := Func(func() *VNode { return Div() })
	node := Comp("card", c, Key("k"), ID("ignored-by-patcher"))

	if node.Kind != KindComponent {
		t.Errorf("Kind = %v, want KindComponent", node.Kind)
	}
	if node.Tag != "card" || node.Key != "k" {
		t.Errorf("Tag = %q Key = %q", node.Tag, node.Key)
	}
	if node.Comp != c {
		t.Error("Comp not set")
	}
}

func TestConditionals(t *testing.T) {
	a, b := Div(), Span()
	if If(true, a) != a || If(false, a) != nil {
		t.Error("If returned the wrong node")
	}
	if IfElse(true, a, b) != a || IfElse(false, a, b) != b {
		t.Error("IfElse returned the wrong node")
	}
}

func TestRange(t *testing.T) {
	items := []string{"a", "skip", "c"}
	nodes := Range(items, func(s string, i int) *VNode {
		if s == "skip" {
			return nil
		}
		return Li(Key(s), Textf("%d", i))
	})

	if len(nodes) != 2 {
		t.Fatalf("len = %d, want 2", len(nodes))
	}
	if nodes[1].Key != "c" || nodes[1].Children[0].Text != "2" {
		t.Errorf("second node = %+v", nodes[1])
	}
}

func TestWalkAndCount(t *testing.T) {
	tree := Div(Ul(Li("a"), Li("b")), P("c"))

	var tags []string
	Walk(tree, func(v *VNode) bool {
		if v.Kind == KindElement {
			tags = append(tags, v.Tag)
		}
		return v.Tag != "ul"
	})
	if want := []string{"div", "ul", "p"}; !slices.Equal(tags, want) {
		t.Errorf("visited %v, want %v", tags, want)
	}
	if n := Count(tree); n != 8 {
		t.Errorf("Count = %d, want 8", n)
	}
	if n := Count(nil); n != 0 {
		t.Errorf("Count(nil) = %d, want 0", n)
	}
}

func TestClone(t *testing.T) {
	orig := Div(Key("r"), ID("x"), Span("a"))
	orig.Elm = 5
	orig.Children[0].Elm = 6

	c := Clone(orig)

	if c == orig || c.Children[0] == orig.Children[0] {
		t.Fatal("Clone shared nodes")
	}
	if c.Elm.Valid() || c.Children[0].Elm.Valid() {
		t.Error("Clone kept live handles")
	}
	if c.Key != "r" || c.Data != orig.Data {
		t.Error("Clone lost key or data")
	}
	if c.Children[0].Children[0].Text != "a" {
		t.Error("Clone lost text")
	}
	if Clone(nil) != nil {
		t.Error("Clone(nil) != nil")
	}
}

func TestDuplicateKeys(t *testing.T) {
	children := []*VNode{
		Li(Key("a")), Li(Key("b")), Li(), Li(), nil, Li(Key("a")), Li(Key("b")), Li(Key("a")),
	}
	got := DuplicateKeys(children)
	if want := []string{"a", "b", "a"}; !slices.Equal(got, want) {
		t.Errorf("DuplicateKeys = %v, want %v", got, want)
	}
	if got := DuplicateKeys([]*VNode{Li(Key("x"))}); got != nil {
		t.Errorf("DuplicateKeys = %v, want nil", got)
	}
}
