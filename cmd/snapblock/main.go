// Command snapblock compresses and decompresses files in the Snappy block
// format.
//
// Usage:
//
//	snapblock compress IN OUT
//	snapblock uncompress IN OUT
//	snapblock salvage IN OUT
//	snapblock length IN
//	snapblock validate IN
//	snapblock store IN OUT
//	snapblock pack OUT IN...
//	snapblock unpack IN INDEX OUT
//	snapblock trace [-quote n] IN
//	snapblock ratio [-codecs list] IN...
//
// A file name of "-" means standard input or standard output.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"

	"github.com/snapblock/pack"
	"github.com/snapblock/pack/container"
	"github.com/snapblock/pack/internal/compr"
	"github.com/snapblock/pack/snappy"
)

var errUsage = errors.New("usage")

// env holds the standard streams, so that commands can be tested.
type env struct {
	stdin  io.Reader
	stdout io.Writer
}

type command struct {
	args string
	run  func(e *env, args []string) error
}

var commands = map[string]command{
	"compress":   {"IN OUT", compress},
	"uncompress": {"IN OUT", uncompress},
	"salvage":    {"IN OUT", salvage},
	"length":     {"IN", length},
	"validate":   {"IN", validate},
	"store":      {"IN OUT", store},
	"pack":       {"OUT IN...", packFiles},
	"unpack":     {"IN INDEX OUT", unpack},
	"trace":      {"[-quote n] IN", trace},
	"ratio":      {"[-codecs list] IN...", ratio},
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: snapblock COMMAND ARGS")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		fmt.Fprintf(w, "\t%s %s\n", name, commands[name].args)
	}
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("snapblock: ")
	flag.Usage = func() { usage(flag.CommandLine.Output()) }
	flag.Parse()

	e := &env{stdin: os.Stdin, stdout: os.Stdout}
	err := run(e, flag.Args())
	if errors.Is(err, errUsage) {
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func run(e *env, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, ok := commands[args[0]]
	if !ok {
		return errors.Wrapf(errUsage, "unknown command %q", args[0])
	}
	return cmd.run(e, args[1:])
}

func readInput(e *env, name string) ([]byte, error) {
	var data []byte
	var err error
	if name == "-" {
		data, err = io.ReadAll(e.stdin)
	} else {
		data, err = os.ReadFile(name)
	}
	return data, errors.Wrapf(err, "reading %s", name)
}

func writeOutput(e *env, name string, data []byte) error {
	if name == "-" {
		_, err := e.stdout.Write(data)
		return errors.Wrap(err, "writing output")
	}
	return errors.Wrapf(os.WriteFile(name, data, 0644), "writing %s", name)
}

func compress(e *env, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	data, err := readInput(e, args[0])
	if err != nil {
		return err
	}
	return writeOutput(e, args[1], snappy.Encode(nil, data))
}

func uncompress(e *env, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	data, err := readInput(e, args[0])
	if err != nil {
		return err
	}
	out, err := snappy.Decode(nil, data)
	if err != nil {
		return errors.Wrapf(err, "decompressing %s", args[0])
	}
	return writeOutput(e, args[1], out)
}

func salvage(e *env, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	data, err := readInput(e, args[0])
	if err != nil {
		return err
	}
	out, n := snappy.DecodeBestEffort(nil, data)
	if err := writeOutput(e, args[1], out); err != nil {
		return err
	}
	if args[1] != "-" {
		fmt.Fprintf(e.stdout, "%d\n", n)
	}
	if want, err := snappy.DecodedLen(data); err == nil && want != n {
		log.Printf("%s: recovered %d of %d bytes", args[0], n, want)
	}
	return nil
}

// length prints 1 and the decoded length, or 0 and 0 if the header can't be
// read.
func length(e *env, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	data, err := readInput(e, args[0])
	if err != nil {
		return err
	}
	n, err := snappy.DecodedLen(data)
	if err != nil {
		_, err = fmt.Fprintf(e.stdout, "0\n0\n")
		return err
	}
	_, err = fmt.Fprintf(e.stdout, "1\n%d\n", n)
	return err
}

func validate(e *env, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	data, err := readInput(e, args[0])
	if err != nil {
		return err
	}
	ok := 0
	if snappy.Valid(data) {
		ok = 1
	}
	_, err = fmt.Fprintf(e.stdout, "%d\n", ok)
	return err
}

func store(e *env, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	data, err := readInput(e, args[0])
	if err != nil {
		return err
	}
	return writeOutput(e, args[1], snappy.Store(nil, data))
}

func packFiles(e *env, args []string) error {
	if len(args) < 2 {
		return errUsage
	}
	blobs := make([][]byte, 0, len(args)-1)
	for _, name := range args[1:] {
		data, err := readInput(e, name)
		if err != nil {
			return err
		}
		blobs = append(blobs, data)
	}
	out, err := container.Pack(nil, blobs...)
	if err != nil {
		return errors.Wrap(err, "packing")
	}
	return writeOutput(e, args[0], out)
}

func unpack(e *env, args []string) error {
	if len(args) != 3 {
		return errUsage
	}
	index, err := strconv.Atoi(args[1])
	if err != nil {
		return errors.Wrapf(errUsage, "bad index %q", args[1])
	}
	data, err := readInput(e, args[0])
	if err != nil {
		return err
	}
	blob, err := container.Unpack(data, index)
	if err != nil {
		return errors.Wrapf(err, "unpacking %s", args[0])
	}
	return writeOutput(e, args[2], blob)
}

func trace(e *env, args []string) error {
	fs := flag.NewFlagSet("trace", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	quote := fs.Int("quote", 32, "show at most `n` bytes of each literal (0 for all)")
	if err := fs.Parse(args); err != nil || fs.NArg() != 1 {
		return errUsage
	}
	data, err := readInput(e, fs.Arg(0))
	if err != nil {
		return err
	}
	var mf pack.BucketSearcher
	out := snappy.TextEncoder{Quote: *quote}.Encode(nil, data, mf.FindMatches(nil, data), true)
	_, err = e.stdout.Write(out)
	return err
}

func ratio(e *env, args []string) error {
	fs := flag.NewFlagSet("ratio", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	codecs := fs.String("codecs", strings.Join(compr.Names(), ","), "comma-separated `list` of codecs")
	if err := fs.Parse(args); err != nil || fs.NArg() == 0 {
		return errUsage
	}

	var list []compr.Codec
	for _, name := range strings.Split(*codecs, ",") {
		c := compr.Lookup(name)
		if c == nil {
			return errors.Errorf("unknown codec %q (have %s)", name, strings.Join(compr.Names(), ", "))
		}
		list = append(list, c)
	}

	bw := bufio.NewWriter(e.stdout)
	tw := tabwriter.NewWriter(bw, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tCODEC\tSIZE\tCOMPRESSED\tRATIO")
	for _, name := range fs.Args() {
		data, err := readInput(e, name)
		if err != nil {
			return err
		}
		for _, c := range list {
			compressed := c.Compress(nil, data)
			back, err := c.Decompress(nil, compressed)
			if err != nil {
				return errors.Wrapf(err, "%s: %s round trip", name, c.Name())
			}
			if string(back) != string(data) {
				return errors.Errorf("%s: %s round trip doesn't match", name, c.Name())
			}
			r := 0.0
			if len(compressed) > 0 {
				r = float64(len(data)) / float64(len(compressed))
			}
			fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%.3f\n", name, c.Name(), len(data), len(compressed), r)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	return bw.Flush()
}
