// Package protocol implements the binary op frame format used to ship
// host operations to remote renderers.
//
// A frame carries the ops recorded by host.Recorder during one patch call:
//
//	┌─────────┬──────────┬────────────┬──────────────────────┐
//	│ Version │ Seq      │ Count      │ Ops                  │
//	│ (1 byte)│ (varint) │ (varint)   │ (Count times)        │
//	└─────────┴──────────┴────────────┴──────────────────────┘
//
// Each op starts with its kind byte and its node handle, encoded as a
// ZigZag delta from the previous op's node. Patches mostly touch handles
// created in sequence, so deltas stay within one byte.
//
// # Encoding
//
//   - Varint: compact encoding for small integers (protobuf-style)
//   - ZigZag: signed deltas encoded as unsigned varints
//   - Length-prefixed: strings prefixed with their varint length
//
// Decoding is bounded by Limits. Malformed input yields a V501 error.
package protocol
