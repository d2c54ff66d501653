// Package render serializes live host.Tree objects to HTML.
//
// Rendering reads the host, not descriptors, so the output reflects
// exactly what a patch left behind:
//
//   - Text and attribute values are escaped
//   - Attributes are written in sorted order, followed by an inline style
//     attribute built from the style properties
//   - Void elements (input, br, img, etc.) have no closing tag
//   - Boolean attributes (disabled, checked, etc.) are written bare
//
// # Usage
//
//	html := render.Render(tree, tree.Document(), render.Config{Pretty: true})
package render
