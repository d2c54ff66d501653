// Package server exposes the patch engine over HTTP and WebSocket.
//
// A Session owns one live host.Tree and the descriptor tree last patched
// into it. Each Apply reconciles a new descriptor tree against the old
// one and returns the host operations it caused as a protocol.Frame.
//
// Handler routes:
//
//	POST /patch    one-shot {"old": doc, "new": doc} → {"ops", "html", "stats"}
//	GET  /ws       live session: each message is a tree document (text
//	               messages JSON, binary messages CBOR); each reply is a
//	               binary op frame, or a JSON error as a text message
//	GET  /metrics  Prometheus exposition (when a registry is configured)
//	GET  /healthz  liveness probe
//
// A Session is not safe for concurrent use. The WebSocket handler drives
// each session from its connection's read loop only.
package server
