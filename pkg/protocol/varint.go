package protocol

// MaxVarintLen is the maximum number of bytes a uint64 varint occupies.
const MaxVarintLen = 10

// PutUvarint encodes v into buf and returns the number of bytes written.
// buf must have room for MaxVarintLen bytes. 7 bits of data per byte, the
// high bit marks continuation.
func PutUvarint(buf []byte, v uint64) int {
	i := 0
	for v >= 0x80 {
		buf[i] = byte(v) | 0x80
		v >>= 7
		i++
	}
	buf[i] = byte(v)
	return i + 1
}

// Uvarint decodes an unsigned varint from buf. It returns the value and
// the number of bytes read; n is -1 when buf ends mid-varint and -2 when
// the varint is longer than MaxVarintLen.
func Uvarint(buf []byte) (v uint64, n int) {
	var shift uint
	for i, b := range buf {
		if i >= MaxVarintLen {
			return 0, -2
		}
		v |= uint64(b&0x7F) << shift
		if b < 0x80 {
			return v, i + 1
		}
		shift += 7
	}
	return 0, -1
}

// ZigZag maps signed integers onto unsigned ones so that small magnitudes
// stay small: 0, -1, 1, -2, 2 become 0, 1, 2, 3, 4.
func ZigZag(v int64) uint64 {
	return uint64((v << 1) ^ (v >> 63))
}

// UnZigZag reverses ZigZag.
func UnZigZag(u uint64) int64 {
	v := int64(u >> 1)
	if u&1 != 0 {
		v = ^v
	}
	return v
}

// UvarintLen returns the encoded size of v.
func UvarintLen(v uint64) int {
	n := 1
	for v >= 0x80 {
		n++
		v >>= 7
	}
	return n
}
