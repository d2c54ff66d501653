package protocol

import (
	"fmt"
	"math"

	"github.com/vango-dev/vpatch/internal/errors"
	"github.com/vango-dev/vpatch/pkg/host"
	"github.com/vango-dev/vpatch/pkg/vdom"
)

// Version is the op frame format version.
const Version byte = 0x01

// minOpSize is the smallest encoded op: a kind byte and a node delta.
const minOpSize = 2

// Limits bound what DecodeOps will allocate.
type Limits struct {
	MaxOps    int // Ops per frame
	MaxString int // Bytes per name or value
}

// DefaultLimits returns the default decoding limits.
func DefaultLimits() Limits {
	return Limits{MaxOps: DefaultMaxOps, MaxString: DefaultMaxString}
}

// Frame is one batch of host operations.
type Frame struct {
	Seq uint64    // Sender-assigned sequence number
	Ops []host.Op // Operations in application order
}

// EncodeOps encodes ops as a frame with sequence number 0.
func EncodeOps(ops []host.Op) []byte {
	return EncodeFrame(&Frame{Ops: ops})
}

// EncodeFrame encodes f.
//
// Layout:
//
//	[Version: 1 byte][Seq: varint][Count: varint][Op]*
//	Op: [Kind: 1 byte][Node: zigzag delta from the previous op's node][fields]
//
// Parent and ref handles are plain varints. Names and values are
// length-prefixed strings.
func EncodeFrame(f *Frame) []byte {
	e := NewEncoderWithCap(8 + len(f.Ops)*8)
	e.WriteByte(Version)
	e.WriteUvarint(f.Seq)
	e.WriteUvarint(uint64(len(f.Ops)))

	var prev vdom.Handle
	for _, op := range f.Ops {
		e.WriteByte(byte(op.Kind))
		e.WriteSvarint(int64(op.Node) - int64(prev))
		prev = op.Node

		switch op.Kind {
		case host.OpCreateElement, host.OpRemoveAttr, host.OpRemoveStyle,
			host.OpSetListener, host.OpRemoveListener:
			e.WriteString(op.Name)
		case host.OpCreateText, host.OpCreateComment, host.OpSetText:
			e.WriteString(op.Value)
		case host.OpInsert, host.OpMove:
			e.WriteUvarint(uint64(op.Parent))
			e.WriteUvarint(uint64(op.Ref))
		case host.OpRemove:
			e.WriteUvarint(uint64(op.Parent))
		case host.OpSetAttr, host.OpSetStyle:
			e.WriteString(op.Name)
			e.WriteString(op.Value)
		}
	}
	return e.Bytes()
}

// DecodeOps decodes a frame with the default limits and returns its ops.
func DecodeOps(data []byte) ([]host.Op, error) {
	f, err := DecodeFrame(data, DefaultLimits())
	if err != nil {
		return nil, err
	}
	return f.Ops, nil
}

// DecodeFrame decodes a frame. Every failure is a V501 error wrapping the
// underlying cause.
func DecodeFrame(data []byte, limits Limits) (*Frame, error) {
	d := NewDecoder(data)
	if limits.MaxString > 0 {
		d.maxString = limits.MaxString
	}
	if limits.MaxOps <= 0 {
		limits.MaxOps = DefaultMaxOps
	}

	f, err := decodeFrame(d, limits)
	if err != nil {
		return nil, errors.New(errors.CodeBadFrame).
			WithDetailf("at offset %d", d.Position()).
			Wrap(err)
	}
	if !d.EOF() {
		return nil, errors.New(errors.CodeBadFrame).
			WithDetailf("%d trailing bytes", d.Remaining())
	}
	return f, nil
}

func decodeFrame(d *Decoder, limits Limits) (*Frame, error) {
	version, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	if version != Version {
		return nil, fmt.Errorf("unsupported version %d", version)
	}
	seq, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}
	count, err := d.ReadCount(limits.MaxOps, minOpSize)
	if err != nil {
		return nil, err
	}

	f := &Frame{Seq: seq, Ops: make([]host.Op, 0, count)}
	var prev int64
	for i := 0; i < count; i++ {
		op, err := decodeOp(d, &prev)
		if err != nil {
			return nil, fmt.Errorf("op %d: %w", i, err)
		}
		f.Ops = append(f.Ops, op)
	}
	return f, nil
}

func decodeOp(d *Decoder, prev *int64) (host.Op, error) {
	var op host.Op
	kind, err := d.ReadByte()
	if err != nil {
		return op, err
	}
	op.Kind = host.OpKind(kind)

	delta, err := d.ReadSvarint()
	if err != nil {
		return op, err
	}
	node := *prev + delta
	if node < 0 || node > math.MaxUint32 {
		return op, fmt.Errorf("node handle %d out of range", node)
	}
	*prev = node
	op.Node = vdom.Handle(node)

	switch op.Kind {
	case host.OpCreateElement, host.OpRemoveAttr, host.OpRemoveStyle,
		host.OpSetListener, host.OpRemoveListener:
		op.Name, err = d.ReadString()
	case host.OpCreateText, host.OpCreateComment, host.OpSetText:
		op.Value, err = d.ReadString()
	case host.OpInsert, host.OpMove:
		if op.Parent, err = readHandle(d); err == nil {
			op.Ref, err = readHandle(d)
		}
	case host.OpRemove:
		op.Parent, err = readHandle(d)
	case host.OpSetAttr, host.OpSetStyle:
		if op.Name, err = d.ReadString(); err == nil {
			op.Value, err = d.ReadString()
		}
	default:
		return op, fmt.Errorf("unknown op kind 0x%02x", kind)
	}
	return op, err
}

func readHandle(d *Decoder) (vdom.Handle, error) {
	v, err := d.ReadUvarint()
	if err != nil {
		return vdom.NoHandle, err
	}
	if v > math.MaxUint32 {
		return vdom.NoHandle, fmt.Errorf("handle %d out of range", v)
	}
	return vdom.Handle(v), nil
}
