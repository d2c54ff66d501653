package vdom

import (
	"fmt"
	"strings"
)

// attrKind selects which part of Data an Attr writes to.
type attrKind uint8

const (
	attrPlain attrKind = iota
	attrKey
	attrClass
	attrStyle
	attrRef
	attrExtra
	attrHook
)

// Attr is a single descriptor argument that is not a child.
type Attr struct {
	kind  attrKind
	Key   string
	Value any
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == "" && a.kind != attrKey
}

func (a Attr) apply(node *VNode) {
	switch a.kind {
	case attrKey:
		node.Key = fmt.Sprint(a.Value)
	case attrClass:
		if a.Key == "" {
			return
		}
		d := node.data()
		if d.Class == nil {
			d.Class = make(map[string]bool)
		}
		d.Class[a.Key] = a.Value.(bool)
	case attrStyle:
		if a.Key == "" {
			return
		}
		d := node.data()
		if d.Style == nil {
			d.Style = make(map[string]string)
		}
		d.Style[a.Key] = fmt.Sprint(a.Value)
	case attrRef:
		node.data().Ref = a.Key
	case attrHook:
		if h, ok := a.Value.(*Hooks); ok {
			node.data().Hook = h
		}
	case attrExtra:
		if a.Key == "" {
			return
		}
		d := node.data()
		if d.Extra == nil {
			d.Extra = make(map[string]any)
		}
		d.Extra[a.Key] = a.Value
	default:
		if a.Key == "" {
			return
		}
		d := node.data()
		if d.Attrs == nil {
			d.Attrs = make(map[string]string)
		}
		d.Attrs[a.Key] = attrString(a.Value)
	}
}

// attrString converts an attribute value to its string form.
func attrString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprint(v)
	}
}

// Key sets the reconciliation key.
// The key is converted to a string using fmt.Sprint.
func Key(key any) Attr { return Attr{kind: attrKey, Key: "key", Value: key} }

// A sets a plain attribute.
func A(name string, value any) Attr { return Attr{Key: name, Value: value} }

// ID sets the id attribute.
func ID(id string) Attr { return A("id", id) }

// TitleAttr sets the title attribute.
func TitleAttr(title string) Attr { return A("title", title) }

// Type sets the type attribute.
func Type(t string) Attr { return A("type", t) }

// Value sets the value attribute.
func Value(v string) Attr { return A("value", v) }

// Data_ creates a data-* attribute (named to avoid conflict with the Data type).
// Example: Data_("id", "123") → data-id="123"
func Data_(key, value string) Attr { return A("data-"+key, value) }

// Class adds classes. Space-separated entries are split.
func Class(classes ...string) []Attr {
	var out []Attr
	for _, c := range classes {
		for _, name := range strings.Fields(c) {
			out = append(out, Attr{kind: attrClass, Key: name, Value: true})
		}
	}
	return out
}

// ClassIf adds a class whose presence is toggled by on.
func ClassIf(name string, on bool) Attr {
	return Attr{kind: attrClass, Key: name, Value: on}
}

// Style sets one style property.
func Style(prop, value string) Attr {
	return Attr{kind: attrStyle, Key: prop, Value: value}
}

// Ref names the node's live object in the refs module.
func Ref(name string) Attr { return Attr{kind: attrRef, Key: name} }

// Extra sets a free-form value for custom modules.
func Extra(name string, value any) Attr {
	return Attr{kind: attrExtra, Key: name, Value: value}
}

// Hook attaches per-node lifecycle callbacks.
func Hook(h *Hooks) Attr {
	return Attr{kind: attrHook, Key: "hook", Value: h}
}
