// Package snappy implements the Snappy block format: a varint holding the
// decoded length, followed by a sequence of literal and copy elements.
//
// The output of Encode is a standard Snappy block, readable by any Snappy
// decoder. The match finder is a simple greedy search (pack.BucketSearcher),
// so the compression ratio differs from the reference implementation.
package snappy

import (
	"github.com/snapblock/pack"
)

// maxBlockSize is the largest decoded length the header can describe.
const maxBlockSize = 1<<32 - 1

// Encoder implements the pack.Encoder interface, writing each block it is
// given as a complete Snappy block (header and elements).
type Encoder struct{}

func (Encoder) Reset() {}

func (Encoder) Encode(dst []byte, src []byte, matches []pack.Match, lastBlock bool) []byte {
	if uint64(len(src)) > maxBlockSize {
		panic("snappy: block too large")
	}

	dst = AppendUvarint(dst, uint32(len(src)))

	pos := 0
	for _, m := range matches {
		if m.Unmatched > 0 {
			dst = AppendLiteral(dst, src[pos:pos+m.Unmatched])
			pos += m.Unmatched
		}
		if m.Length > 0 {
			dst = appendCopy(dst, m.Length, m.Distance)
			pos += m.Length
		}
	}
	if pos < len(src) {
		dst = AppendLiteral(dst, src[pos:])
		pos = len(src)
	}
	if pos != len(src) {
		panic("snappy: matches cover more than the block")
	}

	return dst
}

// Encode returns the encoded form of src, appended to dst.
// It panics if src is longer than 1<<32 - 1 bytes.
//
// Each call uses its own match finder, so Encode is safe for concurrent use.
func Encode(dst, src []byte) []byte {
	var mf pack.BucketSearcher
	matches := mf.FindMatches(nil, src)
	return Encoder{}.Encode(dst, src, matches, true)
}

// Store returns src wrapped in a valid Snappy block without compressing it:
// the header is followed by a single literal holding all of src.
func Store(dst, src []byte) []byte {
	if uint64(len(src)) > maxBlockSize {
		panic("snappy: block too large")
	}
	dst = AppendUvarint(dst, uint32(len(src)))
	if len(src) == 0 {
		return dst
	}
	return AppendLiteral(dst, src)
}
