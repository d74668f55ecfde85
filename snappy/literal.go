package snappy

import "encoding/binary"

const (
	tagLiteral = 0x00
	tagCopy1   = 0x01
	tagCopy2   = 0x02
	tagCopy4   = 0x03
)

// maxLiteralInline is the largest length-1 that fits in the tag byte itself.
const maxLiteralInline = 59

// AppendLiteral appends lit to dst as a literal element.
// lit must not be empty or longer than 1<<32 bytes.
func AppendLiteral(dst, lit []byte) []byte {
	if len(lit) == 0 {
		panic("snappy: empty literal")
	}
	n := uint64(len(lit) - 1)
	switch {
	case n <= maxLiteralInline:
		dst = append(dst, byte(n)<<2|tagLiteral)
	case n < 1<<8:
		dst = append(dst, 60<<2|tagLiteral, byte(n))
	case n < 1<<16:
		dst = append(dst, 61<<2|tagLiteral, byte(n), byte(n>>8))
	case n < 1<<24:
		dst = append(dst, 62<<2|tagLiteral, byte(n), byte(n>>8), byte(n>>16))
	case n < 1<<32:
		dst = append(dst, 63<<2|tagLiteral, byte(n), byte(n>>8), byte(n>>16), byte(n>>24))
	default:
		panic("snappy: literal too long")
	}
	return append(dst, lit...)
}

// literalLength decodes the length of the literal whose tag is at the start
// of src. It returns the length and the size of the tag including any extra
// length bytes.
func literalLength(src []byte) (length uint64, n int, err error) {
	x := uint64(src[0] >> 2)
	if x <= maxLiteralInline {
		return x + 1, 1, nil
	}
	extra := int(x - maxLiteralInline)
	if len(src) < 1+extra {
		return 0, 0, ErrInvalidTag
	}
	var buf [4]byte
	copy(buf[:], src[1:1+extra])
	length = uint64(binary.LittleEndian.Uint32(buf[:])) + 1
	if length > maxBlockSize {
		// The length wraps to 0 in 32 bits.
		return 0, 0, ErrInvalidTag
	}
	return length, 1 + extra, nil
}

// ReadLiteral decodes the literal element at the start of src. It returns
// the literal's contents (a sub-slice of src) and the total size of the
// element.
func ReadLiteral(src []byte) (lit []byte, n int, err error) {
	if len(src) == 0 {
		return nil, 0, ErrTruncated
	}
	if src[0]&0x03 != tagLiteral {
		return nil, 0, ErrInvalidTag
	}
	length, n, err := literalLength(src)
	if err != nil {
		return nil, 0, err
	}
	if uint64(len(src)-n) < length {
		return nil, 0, ErrTruncated
	}
	end := n + int(length)
	return src[n:end], end, nil
}
