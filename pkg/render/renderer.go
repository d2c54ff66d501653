package render

import (
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/vango-dev/vpatch/pkg/host"
	"github.com/vango-dev/vpatch/pkg/vdom"
)

// Config configures HTML serialization.
type Config struct {
	// Pretty puts block children on their own indented lines.
	Pretty bool

	// Indent is the string used for each indentation level in pretty mode.
	// Defaults to two spaces.
	Indent string

	// EventMarkers adds a data-on-<event> attribute for every bound
	// listener.
	EventMarkers bool
}

// Render serializes the subtree of tree rooted at root. Rendering the
// document renders its children in order.
func Render(tree *host.Tree, root vdom.Handle, cfg Config) string {
	var b strings.Builder
	RenderTo(&b, tree, root, cfg)
	return b.String()
}

// RenderTo is Render writing to w. It returns the first write error.
func RenderTo(w io.Writer, tree *host.Tree, root vdom.Handle, cfg Config) error {
	if cfg.Indent == "" {
		cfg.Indent = "  "
	}
	r := &renderer{w: w, tree: tree, cfg: cfg}
	if tree.Kind(root) == host.NodeDocument {
		r.children(root, 0, !cfg.Pretty)
	} else {
		r.node(root, 0, !cfg.Pretty)
	}
	return r.err
}

type renderer struct {
	w    io.Writer
	tree *host.Tree
	cfg  Config
	err  error
}

func (r *renderer) write(parts ...string) {
	for _, s := range parts {
		if r.err != nil {
			return
		}
		_, r.err = io.WriteString(r.w, s)
	}
}

// node writes h. In compact mode nothing is indented and no newline is
// added.
func (r *renderer) node(h vdom.Handle, depth int, compact bool) {
	if !compact {
		r.write(strings.Repeat(r.cfg.Indent, depth))
	}
	switch r.tree.Kind(h) {
	case host.NodeText:
		r.write(escapeHTML(r.tree.Text(h)))
	case host.NodeComment:
		r.write("<!--", escapeComment(r.tree.Text(h)), "-->")
	case host.NodeElement:
		r.element(h, depth, compact)
	case host.NodeDocument:
		r.children(h, depth, compact)
	}
	if !compact {
		r.write("\n")
	}
}

func (r *renderer) element(h vdom.Handle, depth int, compact bool) {
	tag := r.tree.TagName(h)
	r.write("<", tag)
	r.attributes(h)
	r.write(">")
	if voidElements[tag] {
		return
	}

	kids := r.tree.Children(h)
	if compact || len(kids) == 0 || !r.isBlock(tag, kids) {
		for _, c := range kids {
			r.node(c, 0, true)
		}
	} else {
		r.write("\n")
		r.children(h, depth+1, false)
		r.write(strings.Repeat(r.cfg.Indent, depth))
	}
	r.write("</", tag, ">")
}

func (r *renderer) children(h vdom.Handle, depth int, compact bool) {
	for _, c := range r.tree.Children(h) {
		r.node(c, depth, compact)
	}
}

// isBlock reports whether children go on their own lines: the element is
// not inline and holds no text.
func (r *renderer) isBlock(tag string, kids []vdom.Handle) bool {
	if inlineElements[tag] {
		return false
	}
	for _, c := range kids {
		if r.tree.Kind(c) == host.NodeText {
			return false
		}
	}
	return true
}

func (r *renderer) attributes(h vdom.Handle) {
	attrs := r.tree.Attrs(h)
	for _, name := range slices.Sorted(maps.Keys(attrs)) {
		value := attrs[name]
		if booleanAttrs[name] {
			switch value {
			case "false":
				continue
			case "", "true", name:
				r.write(" ", name)
				continue
			}
		}
		r.write(" ", name, `="`, escapeAttr(value), `"`)
	}

	if style := r.tree.Styles(h); len(style) > 0 {
		decls := make([]string, 0, len(style))
		for _, prop := range slices.Sorted(maps.Keys(style)) {
			decls = append(decls, prop+": "+style[prop])
		}
		r.write(` style="`, escapeAttr(strings.Join(decls, "; ")), `"`)
	}

	if r.cfg.EventMarkers {
		for _, event := range r.tree.Listeners(h) {
			r.write(" data-on-", event, `="true"`)
		}
	}
}
