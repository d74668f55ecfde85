package snappy

import "encoding/binary"

const (
	maxCopyLength  = 64
	maxCopy1Offset = 1<<11 - 1
	maxCopy2Offset = 1<<16 - 1
)

// appendCopy appends a copy of length bytes from offset bytes back.
// Copies longer than 64 bytes are split into several elements.
func appendCopy(dst []byte, length, offset int) []byte {
	var buf [8]int
	for _, l := range splitCopy(buf[:0], length) {
		dst = appendCopyElement(dst, l, offset)
	}
	return dst
}

// splitCopy appends to dst the lengths of the elements that make up a copy
// of the given length.
func splitCopy(dst []int, length int) []int {
	// The threshold for this loop is a little higher (at 68 = 64 + 4), and
	// the length emitted down below is a little lower (at 60 = 64 - 4),
	// because a length 67 copy is shorter as a length 60 copy followed by a
	// length 7 tagCopy1 than as a length 64 copy followed by a length 3
	// tagCopy2. Only matches from other match finders get this long;
	// BucketSearcher stops at 64.
	for length >= 68 {
		dst = append(dst, 64)
		length -= 64
	}
	if length > 64 {
		dst = append(dst, 60)
		length -= 60
	}
	return append(dst, length)
}

// copyTag returns the narrowest element type that can hold a copy.
func copyTag(length, offset int) byte {
	switch {
	case offset <= maxCopy1Offset && length >= 4 && length <= 11:
		return tagCopy1
	case offset <= maxCopy2Offset:
		return tagCopy2
	default:
		return tagCopy4
	}
}

// appendCopyElement appends a single copy element, using the narrowest form
// that can hold it.
func appendCopyElement(dst []byte, length, offset int) []byte {
	if length < 1 || length > maxCopyLength || offset < 0 || uint64(offset) > maxBlockSize {
		panic("snappy: copy out of range")
	}
	switch copyTag(length, offset) {
	case tagCopy1:
		return append(dst,
			byte(offset>>8)<<5|byte(length-4)<<2|tagCopy1,
			byte(offset),
		)
	case tagCopy2:
		return append(dst,
			byte(length-1)<<2|tagCopy2,
			byte(offset),
			byte(offset>>8),
		)
	default:
		dst = append(dst, byte(length-1)<<2|tagCopy4)
		return binary.LittleEndian.AppendUint32(dst, uint32(offset))
	}
}

// readCopy decodes the copy element at the start of src. It returns the
// offset, the length, and the size of the element.
func readCopy(src []byte) (offset uint32, length int, n int, err error) {
	tag := src[0]
	switch tag & 0x03 {
	case tagCopy1:
		if len(src) < 2 {
			return 0, 0, 0, ErrTruncated
		}
		length = 4 + int(tag>>2&0x07)
		offset = uint32(tag>>5)<<8 | uint32(src[1])
		n = 2
	case tagCopy2:
		if len(src) < 3 {
			return 0, 0, 0, ErrTruncated
		}
		length = 1 + int(tag>>2)
		offset = uint32(binary.LittleEndian.Uint16(src[1:]))
		n = 3
	case tagCopy4:
		if len(src) < 5 {
			return 0, 0, 0, ErrTruncated
		}
		length = 1 + int(tag>>2)
		offset = binary.LittleEndian.Uint32(src[1:])
		n = 5
	default:
		panic("snappy: readCopy called on a literal")
	}
	return offset, length, n, nil
}

// appendBackReference appends length bytes to out, copied from offset bytes
// before the end of out.
//
// When offset < length the source overlaps the bytes being written, and the
// result repeats the last offset bytes of out with period offset.
func appendBackReference(out []byte, offset uint32, length int) ([]byte, error) {
	if offset == 0 || uint64(offset) > uint64(len(out)) {
		return out, ErrInvalidBackReference
	}
	start := len(out) - int(offset)
	if int(offset) >= length {
		return append(out, out[start:start+length]...), nil
	}
	for i := 0; i < length; i++ {
		out = append(out, out[start+i])
	}
	return out, nil
}
