package host

import (
	"strings"
	"testing"

	"github.com/vango-dev/vpatch/pkg/vdom"
)

func TestRecorder(t *testing.T) {
	tree := NewTree()
	r := NewRecorder(tree)

	div := r.CreateElement("div")
	text := r.CreateText("a")
	r.CreateComment("c")
	r.InsertBefore(tree.Document(), div, vdom.NoHandle)
	r.InsertBefore(div, text, vdom.NoHandle)
	r.SetTextContent(text, "b")
	r.SetAttribute(div, "id", "x")
	r.RemoveAttribute(div, "id")
	r.SetStyle(div, "color", "red")
	r.RemoveStyle(div, "color")
	r.SetListener(div, "click", func(any) {})
	r.RemoveListener(div, "click")
	r.InsertBefore(tree.Document(), div, vdom.NoHandle)
	r.RemoveChild(div, text)

	want := []OpKind{
		OpCreateElement, OpCreateText, OpCreateComment,
		OpInsert, OpInsert, OpSetText,
		OpSetAttr, OpRemoveAttr, OpSetStyle, OpRemoveStyle,
		OpSetListener, OpRemoveListener,
		OpMove, OpRemove,
	}
	ops := r.Ops()
	if len(ops) != len(want) {
		t.Fatalf("ops = %d, want %d: %v", len(ops), len(want), ops)
	}
	for i, op := range ops {
		if op.Kind != want[i] {
			t.Errorf("op %d = %v, want %v", i, op.Kind, want[i])
		}
	}
	if r.Mutations() != len(want) {
		t.Errorf("Mutations = %d", r.Mutations())
	}
	if n := r.Count(OpInsert, OpMove); n != 3 {
		t.Errorf("Count(Insert, Move) = %d, want 3", n)
	}
	if tree.Text(text) != "b" {
		t.Error("recorder did not forward SetTextContent")
	}
	if r.Target() != tree {
		t.Error("Target() does not return the wrapped host")
	}

	r.Reset()
	if r.Mutations() != 0 {
		t.Error("Reset did not clear the log")
	}
}

func TestRecorderQueriesNotLogged(t *testing.T) {
	tree := NewTree()
	r := NewRecorder(tree)
	div := tree.CreateElement("div")

	r.ParentNode(div)
	r.NextSibling(div)
	r.TagName(div)

	if r.Mutations() != 0 {
		t.Errorf("queries were logged: %v", r.Ops())
	}
}

func TestOpString(t *testing.T) {
	tests := []struct {
		op   Op
		want string
	}{
		{Op{Kind: OpCreateElement, Node: 2, Name: "div"}, "CreateElement #2 <div>"},
		{Op{Kind: OpSetText, Node: 3, Value: "hi"}, `SetText #3 "hi"`},
		{Op{Kind: OpInsert, Node: 2, Parent: 1}, "Insert #2 into #1 (append)"},
		{Op{Kind: OpMove, Node: 2, Parent: 1, Ref: 4}, "Move #2 into #1 before #4"},
		{Op{Kind: OpRemove, Node: 2, Parent: 1}, "Remove #2 from #1"},
		{Op{Kind: OpSetAttr, Node: 2, Name: "id", Value: "x"}, `SetAttr #2 id="x"`},
		{Op{Kind: OpRemoveListener, Node: 2, Name: "click"}, "RemoveListener #2 click"},
	}
	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
	if !strings.HasPrefix(OpKind(0xFF).String(), "Unknown") {
		t.Error("unknown OpKind")
	}
}
