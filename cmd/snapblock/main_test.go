package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang/snappy"
)

func runArgs(t *testing.T, stdin []byte, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	e := &env{stdin: bytes.NewReader(stdin), stdout: &out}
	err := run(e, args)
	return out.String(), err
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, data, 0644); err != nil {
		t.Fatal(err)
	}
	return p
}

func readFile(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(name)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestCompressUncompress(t *testing.T) {
	dir := t.TempDir()
	data := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog. "), 200)
	in := writeFile(t, dir, "in", data)
	sz := filepath.Join(dir, "in.sz")
	back := filepath.Join(dir, "back")

	if _, err := runArgs(t, nil, "compress", in, sz); err != nil {
		t.Fatal(err)
	}
	compressed := readFile(t, sz)
	if len(compressed) >= len(data) {
		t.Fatalf("compressed %d bytes to %d", len(data), len(compressed))
	}
	ref, err := snappy.Decode(nil, compressed)
	if err != nil || !bytes.Equal(ref, data) {
		t.Fatalf("golang/snappy can't decode output: %v", err)
	}

	if _, err := runArgs(t, nil, "uncompress", sz, back); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(readFile(t, back), data) {
		t.Fatal("round trip doesn't match")
	}
}

func TestStdio(t *testing.T) {
	data := []byte("hello, hello, hello, hello")
	compressed, err := runArgs(t, data, "compress", "-", "-")
	if err != nil {
		t.Fatal(err)
	}
	out, err := runArgs(t, []byte(compressed), "uncompress", "-", "-")
	if err != nil {
		t.Fatal(err)
	}
	if out != string(data) {
		t.Fatalf("got %q", out)
	}
}

func TestUncompressCorrupt(t *testing.T) {
	_, err := runArgs(t, []byte{5, 4 << 2, 'a'}, "uncompress", "-", "-")
	if err == nil {
		t.Fatal("expected an error")
	}
}

func TestLengthValidate(t *testing.T) {
	good := snappy.Encode(nil, bytes.Repeat([]byte("a"), 100))
	cases := []struct {
		in             []byte
		length, valid string
	}{
		{good, "1\n100\n", "1\n"},
		{[]byte{0x80}, "0\n0\n", "0\n"},
		{[]byte{100, 0 << 2, 'a'}, "1\n100\n", "0\n"},
	}
	for _, c := range cases {
		out, err := runArgs(t, c.in, "length", "-")
		if err != nil {
			t.Fatal(err)
		}
		if out != c.length {
			t.Errorf("length %x: got %q, want %q", c.in, out, c.length)
		}
		out, err = runArgs(t, c.in, "validate", "-")
		if err != nil {
			t.Fatal(err)
		}
		if out != c.valid {
			t.Errorf("validate %x: got %q, want %q", c.in, out, c.valid)
		}
	}
}

func TestSalvage(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in", []byte{8, 3 << 2, 'a', 'b', 'c', 'd', 0<<2 | 1, 9})
	out := filepath.Join(dir, "out")
	stdout, err := runArgs(t, nil, "salvage", in, out)
	if err != nil {
		t.Fatal(err)
	}
	if stdout != "4\n" {
		t.Fatalf("got %q, want 4", stdout)
	}
	if got := readFile(t, out); string(got) != "abcd" {
		t.Fatalf("recovered %q", got)
	}
}

func TestStore(t *testing.T) {
	data := []byte("stored, not compressed, not compressed")
	out, err := runArgs(t, data, "store", "-", "-")
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != len(data)+2 {
		t.Fatalf("stored %d bytes as %d", len(data), len(out))
	}
	back, err := snappy.Decode(nil, []byte(out))
	if err != nil || !bytes.Equal(back, data) {
		t.Fatalf("decoding stored block: %v", err)
	}
}

func TestPackUnpack(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a", []byte("first"))
	b := writeFile(t, dir, "b", []byte("second blob"))
	packed := filepath.Join(dir, "packed")
	if _, err := runArgs(t, nil, "pack", packed, a, b); err != nil {
		t.Fatal(err)
	}
	out, err := runArgs(t, nil, "unpack", packed, "1", "-")
	if err != nil {
		t.Fatal(err)
	}
	if out != "second blob" {
		t.Fatalf("got %q", out)
	}
	if _, err := runArgs(t, nil, "unpack", packed, "2", "-"); err == nil {
		t.Fatal("unpacking a missing blob succeeded")
	}
	if _, err := runArgs(t, nil, "unpack", packed, "x", "-"); !errors.Is(err, errUsage) {
		t.Fatalf("got %v, want usage error", err)
	}
}

func TestTrace(t *testing.T) {
	out, err := runArgs(t, bytes.Repeat([]byte("a"), 100), "trace", "-")
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 7 {
		t.Fatalf("got %d lines:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[1], "literal length=4") {
		t.Fatalf("second line is %q", lines[1])
	}
}

func TestRatio(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in", bytes.Repeat([]byte("ratio ratio ratio "), 100))
	out, err := runArgs(t, nil, "ratio", "-codecs", "snapblock,snappy,zstd", in)
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"snapblock", "snappy", "zstd"} {
		if !strings.Contains(out, name) {
			t.Errorf("output doesn't mention %s:\n%s", name, out)
		}
	}
	if _, err := runArgs(t, nil, "ratio", "-codecs", "nope", in); err == nil {
		t.Fatal("unknown codec accepted")
	}
}

func TestUsage(t *testing.T) {
	for _, args := range [][]string{
		nil,
		{"frobnicate"},
		{"compress", "only-one"},
		{"trace"},
	} {
		if _, err := runArgs(t, nil, args...); !errors.Is(err, errUsage) {
			t.Errorf("%q: got %v, want usage error", args, err)
		}
	}
}
