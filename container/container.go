// Package container stores several blobs in one Snappy block.
//
// A container is a block made only of literals, one per blob, with the
// total length of the blobs in the header. Any Snappy decoder reads it as
// the concatenation of the blobs; this package also reads the blobs back
// one at a time, addressed by zero-based index.
package container

import (
	"errors"
	"fmt"

	"github.com/snapblock/pack/snappy"
)

var (
	// ErrEmptyBlob is returned by Pack for a zero-length blob,
	// which a literal can't hold.
	ErrEmptyBlob = errors.New("container: empty blob")
	// ErrNotLiteral means the block holds a copy element, so it isn't a
	// container.
	ErrNotLiteral = errors.New("container: element is not a literal")
	// ErrNoBlob means the requested index is past the last blob.
	ErrNoBlob = errors.New("container: no such blob")
)

// maxTotal is the most the header can hold.
const maxTotal = 1<<32 - 1

// Pack appends a container holding blobs to dst.
func Pack(dst []byte, blobs ...[]byte) ([]byte, error) {
	var total uint64
	for i, b := range blobs {
		if len(b) == 0 {
			return dst, fmt.Errorf("blob %d: %w", i, ErrEmptyBlob)
		}
		total += uint64(len(b))
	}
	if total > maxTotal {
		return dst, fmt.Errorf("container: %d bytes is too large", total)
	}

	dst = snappy.AppendUvarint(dst, uint32(total))
	for _, b := range blobs {
		dst = snappy.AppendLiteral(dst, b)
	}
	return dst, nil
}

// walk calls fn for each blob in src, in order, until fn returns false.
// It returns the header value and the total length of the blobs visited.
func walk(src []byte, fn func(i int, blob []byte) bool) (header uint32, total uint64, err error) {
	header, s, err := snappy.Uvarint(src)
	if err != nil {
		return 0, 0, err
	}
	for i := 0; s < len(src); i++ {
		if src[s]&0x03 != 0 {
			return header, total, fmt.Errorf("blob %d: %w", i, ErrNotLiteral)
		}
		blob, n, err := snappy.ReadLiteral(src[s:])
		if err != nil {
			return header, total, fmt.Errorf("blob %d: %w", i, err)
		}
		total += uint64(len(blob))
		s += n
		if !fn(i, blob) {
			break
		}
	}
	return header, total, nil
}

// Blobs returns every blob in src, as sub-slices of src.
// It checks that the blobs add up to the length in the header.
func Blobs(src []byte) ([][]byte, error) {
	var blobs [][]byte
	header, total, err := walk(src, func(_ int, blob []byte) bool {
		blobs = append(blobs, blob)
		return true
	})
	if err != nil {
		return nil, err
	}
	if total != uint64(header) {
		return nil, fmt.Errorf("blobs hold %d bytes, header says %d: %w", total, header, snappy.ErrLengthMismatch)
	}
	return blobs, nil
}

// Count returns the number of blobs in src.
func Count(src []byte) (int, error) {
	blobs, err := Blobs(src)
	return len(blobs), err
}

// Unpack returns blob number index from src, as a sub-slice of src.
// Only the blobs before it are examined.
func Unpack(src []byte, index int) ([]byte, error) {
	var found []byte
	var seen int
	_, _, err := walk(src, func(i int, blob []byte) bool {
		seen = i + 1
		if i == index {
			found = blob
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, fmt.Errorf("blob %d of %d: %w", index, seen, ErrNoBlob)
	}
	return found, nil
}
