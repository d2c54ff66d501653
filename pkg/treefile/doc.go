// Package treefile reads and writes descriptor trees as documents.
//
// A document is a nested Node value stored as JSON, YAML or CBOR:
//
//	tag: ul
//	children:
//	  - tag: li
//	    key: a
//	    class: [item]
//	    on: [click]
//	    children:
//	      - text: first
//	  - comment: placeholder
//
// A node with a tag is an element, a node with a comment field is a
// comment, and a node with a text field is a text node. Event names under
// "on" are bound to the listener supplied with WithListener.
package treefile
