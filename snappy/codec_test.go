package snappy

import (
	"bytes"
	"errors"
	"testing"
)

func TestUvarint(t *testing.T) {
	for _, x := range []uint32{0, 1, 0x7f, 0x80, 0x3fff, 0x4000, 1<<21 - 1, 1 << 21, 1<<28 - 1, 1 << 28, 1<<32 - 1} {
		b := AppendUvarint(nil, x)
		got, n, err := Uvarint(b)
		if err != nil {
			t.Fatalf("%#x: %v", x, err)
		}
		if got != x || n != len(b) {
			t.Fatalf("%#x: decoded %#x from %d of %d bytes", x, got, n, len(b))
		}
	}
	if b := AppendUvarint(nil, 1<<32-1); !bytes.Equal(b, []byte{0xff, 0xff, 0xff, 0xff, 0x0f}) {
		t.Fatalf("encoding of 1<<32-1 = %x", b)
	}
}

func TestUvarintErrors(t *testing.T) {
	cases := []struct {
		in   []byte
		want error
	}{
		{nil, ErrTruncated},
		{[]byte{0x80}, ErrTruncated},
		{[]byte{0xff, 0xff, 0xff, 0xff}, ErrTruncated},
		{[]byte{0xff, 0xff, 0xff, 0xff, 0x10}, ErrVarintOverflow},
		{[]byte{0xff, 0xff, 0xff, 0xff, 0x8f, 0x00}, ErrVarintOverflow},
		{[]byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x00}, ErrVarintOverflow},
	}
	for _, c := range cases {
		if _, _, err := Uvarint(c.in); !errors.Is(err, c.want) {
			t.Errorf("Uvarint(%x): got %v, want %v", c.in, err, c.want)
		}
	}
}

func TestLiteralWidths(t *testing.T) {
	cases := []struct {
		length  int
		tag     byte
		tagSize int
	}{
		{1, 0 << 2, 1},
		{60, 59 << 2, 1},
		{61, 60 << 2, 2},
		{256, 60 << 2, 2},
		{257, 61 << 2, 3},
		{65536, 61 << 2, 3},
		{65537, 62 << 2, 4},
		{1<<24 + 1, 63 << 2, 5},
	}
	for _, c := range cases {
		lit := bytes.Repeat([]byte{'x'}, c.length)
		b := AppendLiteral(nil, lit)
		if b[0] != c.tag {
			t.Errorf("length %d: tag %#x, want %#x", c.length, b[0], c.tag)
		}
		if len(b) != c.tagSize+c.length {
			t.Errorf("length %d: element is %d bytes, want %d", c.length, len(b), c.tagSize+c.length)
		}
		got, n, err := ReadLiteral(b)
		if err != nil {
			t.Fatalf("length %d: %v", c.length, err)
		}
		if n != len(b) || len(got) != c.length {
			t.Fatalf("length %d: read %d bytes of %d, literal length %d", c.length, n, len(b), len(got))
		}
	}
}

func TestReadLiteralErrors(t *testing.T) {
	cases := []struct {
		name string
		in   []byte
		want error
	}{
		{"empty", nil, ErrTruncated},
		{"copy tag", []byte{tagCopy2}, ErrInvalidTag},
		{"missing extra byte", []byte{60 << 2}, ErrInvalidTag},
		{"missing extra bytes", []byte{63 << 2, 1, 2, 3}, ErrInvalidTag},
		{"length wraps to zero", []byte{63 << 2, 0xff, 0xff, 0xff, 0xff}, ErrInvalidTag},
		{"short payload", []byte{3 << 2, 'a', 'b'}, ErrTruncated},
		{"short long payload", []byte{60 << 2, 100, 'a'}, ErrTruncated},
	}
	for _, c := range cases {
		if _, _, err := ReadLiteral(c.in); !errors.Is(err, c.want) {
			t.Errorf("%s: got %v, want %v", c.name, err, c.want)
		}
	}
}

func TestCopyForms(t *testing.T) {
	cases := []struct {
		length, offset int
		want           []byte
	}{
		{11, 2047, []byte{0x07<<5 | 7<<2 | tagCopy1, 0xff}},
		{4, 1, []byte{0<<2 | tagCopy1, 0x01}},
		{11, 2048, []byte{10<<2 | tagCopy2, 0x00, 0x08}},
		{12, 5, []byte{11<<2 | tagCopy2, 0x05, 0x00}},
		{3, 5, []byte{2<<2 | tagCopy2, 0x05, 0x00}},
		{64, 65535, []byte{63<<2 | tagCopy2, 0xff, 0xff}},
		{1, 65536, []byte{0<<2 | tagCopy4, 0x00, 0x00, 0x01, 0x00}},
		{64, 1<<31 - 1, []byte{63<<2 | tagCopy4, 0xff, 0xff, 0xff, 0x7f}},
	}
	for _, c := range cases {
		b := appendCopy(nil, c.length, c.offset)
		if !bytes.Equal(b, c.want) {
			t.Errorf("copy length %d offset %d: got %x, want %x", c.length, c.offset, b, c.want)
			continue
		}
		offset, length, n, err := readCopy(b)
		if err != nil {
			t.Fatal(err)
		}
		if int(offset) != c.offset || length != c.length || n != len(b) {
			t.Errorf("copy length %d offset %d: read back length %d offset %d from %d bytes",
				c.length, c.offset, length, offset, n)
		}
	}
}

func TestSplitCopy(t *testing.T) {
	cases := []struct {
		length int
		want   []int
	}{
		{64, []int{64}},
		{65, []int{60, 5}},
		{67, []int{60, 7}},
		{68, []int{64, 4}},
		{200, []int{64, 64, 64, 8}},
	}
	for _, c := range cases {
		got := splitCopy(nil, c.length)
		if len(got) != len(c.want) {
			t.Fatalf("splitCopy(%d) = %v, want %v", c.length, got, c.want)
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Fatalf("splitCopy(%d) = %v, want %v", c.length, got, c.want)
			}
		}
	}
}

func TestReadCopyTruncated(t *testing.T) {
	for _, in := range [][]byte{
		{tagCopy1},
		{tagCopy2, 0x01},
		{tagCopy4, 0x01, 0x00, 0x00},
	} {
		if _, _, _, err := readCopy(in); !errors.Is(err, ErrTruncated) {
			t.Errorf("readCopy(%x): got %v, want ErrTruncated", in, err)
		}
	}
}

func TestBackReference(t *testing.T) {
	cases := []struct {
		out    string
		offset uint32
		length int
		want   string
	}{
		{"abcdef", 3, 3, "abcdefdef"},
		{"abcdef", 6, 2, "abcdefab"},
		{"a", 1, 5, "aaaaaa"},
		{"xab", 2, 7, "xababababa"},
		{"abc", 3, 8, "abcabcabcab"},
	}
	for _, c := range cases {
		got, err := appendBackReference([]byte(c.out), c.offset, c.length)
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != c.want {
			t.Errorf("%q offset %d length %d: got %q, want %q", c.out, c.offset, c.length, got, c.want)
		}
	}

	for _, offset := range []uint32{0, 4, 1<<32 - 1} {
		if _, err := appendBackReference([]byte("abc"), offset, 2); !errors.Is(err, ErrInvalidBackReference) {
			t.Errorf("offset %d: got %v, want ErrInvalidBackReference", offset, err)
		}
	}
}
