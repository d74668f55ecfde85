// Package compr puts this module's Snappy codec and several third-party
// compressors behind one interface, so that they can be compared on the
// same data.
package compr

import (
	"bytes"
	"fmt"
	"io"

	"github.com/andybalholm/brotli"
	"github.com/golang/snappy"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	snapblock "github.com/snapblock/pack/snappy"
)

// Codec is a block compressor.
type Codec interface {
	// Name is the name the codec is registered under.
	Name() string
	// Compress appends the compressed form of src to dst.
	Compress(dst, src []byte) []byte
	// Decompress appends the decompressed form of src to dst.
	Decompress(dst, src []byte) ([]byte, error)
	// Snappy reports whether the codec's output is a Snappy block.
	Snappy() bool
}

type snapblockCodec struct{}

func (snapblockCodec) Name() string { return "snapblock" }

func (snapblockCodec) Snappy() bool { return true }

func (snapblockCodec) Compress(dst, src []byte) []byte {
	return snapblock.Encode(dst, src)
}

func (snapblockCodec) Decompress(dst, src []byte) ([]byte, error) {
	return appendDecoded(dst, src, snapblock.Decode)
}

type snappyCodec struct{}

func (snappyCodec) Name() string { return "snappy" }

func (snappyCodec) Snappy() bool { return true }

func (snappyCodec) Compress(dst, src []byte) []byte {
	return append(dst, snappy.Encode(nil, src)...)
}

func (snappyCodec) Decompress(dst, src []byte) ([]byte, error) {
	return appendDecoded(dst, src, snappy.Decode)
}

type s2Codec struct {
	snappy bool
}

func (c s2Codec) Name() string {
	if c.snappy {
		return "s2-snappy"
	}
	return "s2"
}

func (c s2Codec) Snappy() bool { return c.snappy }

func (c s2Codec) Compress(dst, src []byte) []byte {
	if c.snappy {
		return append(dst, s2.EncodeSnappy(nil, src)...)
	}
	return append(dst, s2.Encode(nil, src)...)
}

func (s2Codec) Decompress(dst, src []byte) ([]byte, error) {
	return appendDecoded(dst, src, s2.Decode)
}

// appendDecoded runs a decode function that writes into the start of its
// buffer, and appends the result to dst instead.
func appendDecoded(dst, src []byte, decode func(dst, src []byte) ([]byte, error)) ([]byte, error) {
	out, err := decode(nil, src)
	if err != nil {
		return dst, err
	}
	if len(dst) == 0 {
		return out, nil
	}
	return append(dst, out...), nil
}

type zstdCodec struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

func (zstdCodec) Name() string { return "zstd" }

func (zstdCodec) Snappy() bool { return false }

func (z zstdCodec) Compress(dst, src []byte) []byte {
	return z.enc.EncodeAll(src, dst)
}

func (z zstdCodec) Decompress(dst, src []byte) ([]byte, error) {
	return z.dec.DecodeAll(src, dst)
}

func newZstd() Codec {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderConcurrency(1))
	if err != nil {
		panic(err)
	}
	dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if err != nil {
		panic(err)
	}
	return zstdCodec{enc: enc, dec: dec}
}

// streamCodec adapts a compressor with an io.Writer/io.Reader interface.
// Compress panics if the writer fails.
type streamCodec struct {
	name      string
	newWriter func(w io.Writer) io.WriteCloser
	newReader func(r io.Reader) io.Reader
}

func (c streamCodec) Name() string { return c.name }

func (streamCodec) Snappy() bool { return false }

func (c streamCodec) Compress(dst, src []byte) []byte {
	buf := bytes.NewBuffer(dst)
	w := c.newWriter(buf)
	if _, err := w.Write(src); err != nil {
		panic(fmt.Errorf("%s: %w", c.name, err))
	}
	if err := w.Close(); err != nil {
		panic(fmt.Errorf("%s: %w", c.name, err))
	}
	return buf.Bytes()
}

func (c streamCodec) Decompress(dst, src []byte) ([]byte, error) {
	buf := bytes.NewBuffer(dst)
	_, err := io.Copy(buf, c.newReader(bytes.NewReader(src)))
	if err != nil {
		return dst, fmt.Errorf("%s: %w", c.name, err)
	}
	return buf.Bytes(), nil
}

var lz4Codec = streamCodec{
	name: "lz4",
	newWriter: func(w io.Writer) io.WriteCloser {
		return lz4.NewWriter(w)
	},
	newReader: func(r io.Reader) io.Reader {
		return lz4.NewReader(r)
	},
}

var brotliCodec = streamCodec{
	name: "brotli",
	newWriter: func(w io.Writer) io.WriteCloser {
		return brotli.NewWriterLevel(w, brotli.DefaultCompression)
	},
	newReader: func(r io.Reader) io.Reader {
		return brotli.NewReader(r)
	},
}

var registry = map[string]func() Codec{
	"snapblock": func() Codec { return snapblockCodec{} },
	"snappy":    func() Codec { return snappyCodec{} },
	"s2":        func() Codec { return s2Codec{} },
	"s2-snappy": func() Codec { return s2Codec{snappy: true} },
	"zstd":      newZstd,
	"lz4":       func() Codec { return lz4Codec },
	"brotli":    func() Codec { return brotliCodec },
}

// Lookup returns the codec registered under name, or nil if there is none.
// The returned Codec is not safe for concurrent use.
func Lookup(name string) Codec {
	fn, ok := registry[name]
	if !ok {
		return nil
	}
	return fn()
}

// Names returns the names of all registered codecs, sorted.
func Names() []string {
	names := maps.Keys(registry)
	slices.Sort(names)
	return names
}
