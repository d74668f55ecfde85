package snappy

import "fmt"

// maxExpansion bounds how many decoded bytes one byte of input can produce:
// a 3-byte tagCopy2 element yields at most 64 bytes.
const maxExpansion = 22

// decoder walks the elements of a block, appending their output to out.
type decoder struct {
	src []byte
	s   int // read position in src
	out []byte
}

// step decodes one element. It leaves d unchanged if the element is
// malformed.
func (d *decoder) step() error {
	src := d.src[d.s:]
	if src[0]&0x03 == tagLiteral {
		lit, n, err := ReadLiteral(src)
		if err != nil {
			return err
		}
		d.out = append(d.out, lit...)
		d.s += n
		return nil
	}

	offset, length, n, err := readCopy(src)
	if err != nil {
		return err
	}
	out, err := appendBackReference(d.out, offset, length)
	if err != nil {
		return err
	}
	d.out = out
	d.s += n
	return nil
}

// newDecoder reads the header of src and prepares to decode the elements
// into dst. The capacity of the output buffer is taken from the header, but
// never more than src could possibly expand to.
func newDecoder(dst, src []byte) (*decoder, uint32, error) {
	dLen, n, err := Uvarint(src)
	if err != nil {
		return nil, 0, err
	}
	hint := uint64(dLen)
	if limit := uint64(len(src)-n) * maxExpansion; hint > limit {
		hint = limit
	}
	out := dst[:0]
	if uint64(cap(out)) < hint {
		out = make([]byte, 0, hint)
	}
	return &decoder{src: src, s: n, out: out}, dLen, nil
}

// maxInt is the largest value of int on this platform.
const maxInt = int(^uint(0) >> 1)

// DecodedLen returns the length of the decoded block, read from its header.
// It doesn't look at the rest of src.
//
// On platforms where int is 32 bits, headers of 1<<31 or more give
// ErrTooLarge.
func DecodedLen(src []byte) (int, error) {
	dLen, _, err := Uvarint(src)
	if err != nil {
		return 0, err
	}
	return headerLen(dLen, maxInt)
}

func headerLen(dLen uint32, limit int) (int, error) {
	if uint64(dLen) > uint64(limit) {
		return 0, ErrTooLarge
	}
	return int(dLen), nil
}

// Decode returns the decoded form of src. The returned slice may be a
// sub-slice of dst if dst was large enough to hold the entire decoded block.
// dst and src must not overlap.
//
// Decode fails if any element is malformed, if a copy reaches outside the
// data decoded so far, or if the decoded length disagrees with the header.
// On failure the contents of dst are unspecified.
func Decode(dst, src []byte) ([]byte, error) {
	d, dLen, err := newDecoder(dst, src)
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	for d.s < len(d.src) {
		if err := d.step(); err != nil {
			return nil, fmt.Errorf("element at offset %d: %w", d.s, err)
		}
		if uint64(len(d.out)) > uint64(dLen) {
			return nil, fmt.Errorf("element ending at offset %d: %w", d.s, ErrLengthMismatch)
		}
	}
	if uint64(len(d.out)) != uint64(dLen) {
		return nil, fmt.Errorf("decoded %d bytes, header says %d: %w", len(d.out), dLen, ErrLengthMismatch)
	}
	return d.out, nil
}

// DecodeBestEffort decodes as much of src as it can. It stops at the first
// malformed element, or at the end of src, and returns the output of every
// complete element before that point along with its length. The length in
// the header is not checked.
//
// It is meant for recovering data from truncated or damaged blocks: for any
// prefix of a valid block, the result is a prefix of the original data.
func DecodeBestEffort(dst, src []byte) ([]byte, int) {
	d, _, err := newDecoder(dst, src)
	if err != nil {
		return dst[:0], 0
	}
	for d.s < len(d.src) {
		if d.step() != nil {
			break
		}
	}
	return d.out, len(d.out)
}

// Valid reports whether src is a complete, well-formed block.
func Valid(src []byte) bool {
	_, err := Decode(nil, src)
	return err == nil
}
