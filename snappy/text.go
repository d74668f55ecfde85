package snappy

import (
	"strconv"

	"github.com/snapblock/pack"
)

// A TextEncoder is an Encoder that produces a human-readable listing of the
// elements Encoder would write for the same matches: one line per element,
// with the element's form, its length, and for copies the offset.
// Literal contents are quoted, and shortened if Quote is positive.
type TextEncoder struct {
	// Quote is how many bytes of each literal to show. 0 means all of them.
	Quote int
}

func (t TextEncoder) Reset() {}

func (t TextEncoder) Encode(dst []byte, src []byte, matches []pack.Match, lastBlock bool) []byte {
	dst = append(dst, "header "...)
	dst = strconv.AppendInt(dst, int64(len(src)), 10)
	dst = append(dst, '\n')

	pos := 0
	for _, m := range matches {
		if m.Unmatched > 0 {
			dst = t.literal(dst, src[pos:pos+m.Unmatched])
			pos += m.Unmatched
		}
		if m.Length > 0 {
			var buf [8]int
			for _, e := range splitCopy(buf[:0], m.Length) {
				dst = append(dst, copyForm(e, m.Distance)...)
				dst = append(dst, " length="...)
				dst = strconv.AppendInt(dst, int64(e), 10)
				dst = append(dst, " offset="...)
				dst = strconv.AppendInt(dst, int64(m.Distance), 10)
				dst = append(dst, '\n')
			}
			pos += m.Length
		}
	}
	if pos < len(src) {
		dst = t.literal(dst, src[pos:])
	}
	return dst
}

func (t TextEncoder) literal(dst, lit []byte) []byte {
	dst = append(dst, "literal length="...)
	dst = strconv.AppendInt(dst, int64(len(lit)), 10)
	dst = append(dst, ' ')
	if t.Quote > 0 && len(lit) > t.Quote {
		dst = strconv.AppendQuote(dst, string(lit[:t.Quote]))
		dst = append(dst, "..."...)
	} else {
		dst = strconv.AppendQuote(dst, string(lit))
	}
	return append(dst, '\n')
}

var formNames = [4]string{
	tagCopy1: "copy1",
	tagCopy2: "copy2",
	tagCopy4: "copy4",
}

func copyForm(length, offset int) string {
	return formNames[copyTag(length, offset)]
}
