package snappy

import "errors"

// Errors reported by Decode. They are wrapped with the offset in the
// compressed input where decoding stopped; use errors.Is to test for them.
var (
	// ErrVarintOverflow means the length header is longer than 5 bytes or
	// its value doesn't fit in 32 bits.
	ErrVarintOverflow = errors.New("snappy: varint overflows 32 bits")
	// ErrTruncated means the input ends in the middle of the header or of
	// an element.
	ErrTruncated = errors.New("snappy: truncated input")
	// ErrInvalidTag means the extra length bytes of a literal are missing,
	// or the literal length is out of range.
	ErrInvalidTag = errors.New("snappy: invalid literal tag")
	// ErrInvalidBackReference means a copy has offset 0, reaches back
	// before the start of the output, or has a length its form can't hold.
	ErrInvalidBackReference = errors.New("snappy: invalid back-reference")
	// ErrLengthMismatch means the decoded length disagrees with the header.
	ErrLengthMismatch = errors.New("snappy: decoded length doesn't match header")
	// ErrTooLarge means the decoded length in the header doesn't fit in an
	// int.
	ErrTooLarge = errors.New("snappy: decoded length too large")
)
