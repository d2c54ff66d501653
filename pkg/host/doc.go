// Package host defines the render-target capabilities the patcher drives
// and ships an in-memory reference target.
//
// NodeOps is the primitive capability: create, insert, remove and query
// live objects. AttrOps, StyleOps and EventOps are the optional
// capabilities the built-in modules need. Any value implementing them can
// serve as a render target.
//
// Tree is an arena-backed implementation used by tests, the CLI and the
// live server. Recorder decorates a Target and logs every mutation as an
// Op, which is how patch results are observed and streamed.
package host
