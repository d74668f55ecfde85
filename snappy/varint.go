package snappy

// maxVarintLen is the longest encoding of a 32-bit value.
const maxVarintLen = 5

// AppendUvarint appends x to dst in varint format.
func AppendUvarint(dst []byte, x uint32) []byte {
	for x >= 0x80 {
		dst = append(dst, byte(x)|0x80)
		x >>= 7
	}
	return append(dst, byte(x))
}

// Uvarint decodes a varint from the start of src. It returns the value and
// the number of bytes read.
func Uvarint(src []byte) (uint32, int, error) {
	var x uint32
	var shift uint
	for i := 0; i < maxVarintLen; i++ {
		if i == len(src) {
			return 0, 0, ErrTruncated
		}
		b := src[i]
		if i == maxVarintLen-1 && b > 0x0f {
			// The fifth byte can only hold the top 4 bits, and it must be
			// the last one.
			return 0, 0, ErrVarintOverflow
		}
		x |= uint32(b&0x7f) << shift
		if b < 0x80 {
			return x, i + 1, nil
		}
		shift += 7
	}
	return 0, 0, ErrVarintOverflow
}
