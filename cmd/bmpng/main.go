// Command bmpng converts BMP images to PNG and exposes the underlying
// zlib compressor as a stream filter.
//
// Usage:
//
//	bmpng enc [options] <input.bmp>...   BMP → PNG (use "-" for stdin)
//	bmpng info <input>...                Display BMP/PNG metadata
//	bmpng compress [options] [input]     raw bytes → zlib (stdin → stdout)
//	bmpng decompress [input]             zlib → raw bytes (stdin → stdout)
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/deepteams/bmpng"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "enc":
		err = runEnc(os.Args[2:])
	case "info":
		err = runInfo(os.Args[2:])
	case "compress":
		err = runCompress(os.Args[2:])
	case "decompress":
		err = runDecompress(os.Args[2:])
	case "-h", "-help", "--help", "help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "bmpng: unknown command %q\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "bmpng: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage:
  bmpng enc [options] <input.bmp>...   Convert BMP to PNG
  bmpng info <input>...                Display BMP/PNG metadata
  bmpng compress [options] [input]     Compress raw bytes to a zlib stream
  bmpng decompress [input]             Decompress a zlib stream

Use "-" as input to read from stdin, "-o -" to write to stdout.

Run "bmpng <command> -h" for command-specific options.
`)
}

// openInput returns an io.ReadCloser for the given path.
// If path is "-", stdin is returned behind a no-op Close, so closing
// it leaves stdin open.
func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

// writeOutput writes data to path, or to stdout when path is "-". The
// file is only created once the content is fully assembled, so a failed
// conversion never leaves a truncated output behind.
func writeOutput(path string, data []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// --- enc ---

func runEnc(args []string) error {
	fs := flag.NewFlagSet("enc", flag.ContinueOnError)
	level := fs.Int("level", -1, "compression level 0-9 (-1=default)")
	wbits := fs.Int("wbits", 15, "window bits 9-15")
	jobs := fs.Int("j", runtime.NumCPU(), "number of files to convert concurrently")
	output := fs.String("o", "", `output path (default: <input>.png, "-" for stdout)`)

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("enc: missing input file\nUsage: bmpng enc [options] <input.bmp>...")
	}
	if *output != "" && fs.NArg() > 1 {
		return fmt.Errorf("enc: -o cannot be combined with multiple inputs")
	}

	var g errgroup.Group
	g.SetLimit(*jobs)
	for _, input := range fs.Args() {
		input := input
		g.Go(func() error {
			out := *output
			if out == "" {
				out = outputPath(input, ".png")
			}
			if err := encodeOne(input, out, *level, *wbits); err != nil {
				return fmt.Errorf("%s: %w", input, err)
			}
			return nil
		})
	}
	return g.Wait()
}

func encodeOne(input, output string, level, wbits int) error {
	in, err := openInput(input)
	if err != nil {
		return err
	}
	defer in.Close()

	img, err := bmpng.DecodeBMP(in)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	opts := &bmpng.EncoderOptions{Level: level, WindowBits: wbits}
	if err := bmpng.Encode(&buf, img, opts); err != nil {
		return err
	}
	return writeOutput(output, buf.Bytes())
}

// outputPath derives an output file name from the input path.
func outputPath(input, ext string) string {
	if input == "-" {
		return "-"
	}
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + ext
}

// --- info ---

func runInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("info: missing input file\nUsage: bmpng info <input>...")
	}

	for _, input := range fs.Args() {
		in, err := openInput(input)
		if err != nil {
			return err
		}
		info, err := bmpng.Info(in)
		in.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", input, err)
		}
		printInfo(input, info)
	}
	return nil
}

func printInfo(path string, info *bmpng.ImageInfo) {
	fmt.Printf("%s: %s, %dx%d\n", path, info.Format, info.Width, info.Height)
	switch info.Format {
	case "bmp":
		fmt.Printf("  bits per pixel: %d\n", info.BitsPerPixel)
	case "png":
		fmt.Printf("  bit depth:  %d\n", info.BitDepth)
		fmt.Printf("  color type: %d\n", info.ColorType)
		fmt.Printf("  interlace:  %d\n", info.Interlace)
		fmt.Printf("  chunks:     %s\n", strings.Join(info.ChunkTypes, " "))
	}
}

// --- compress / decompress ---

func runCompress(args []string) error {
	fs := flag.NewFlagSet("compress", flag.ContinueOnError)
	level := fs.Int("level", -1, "compression level 0-9 (-1=default)")
	wbits := fs.Int("wbits", 15, "window bits 9-15")
	output := fs.String("o", "-", `output path ("-" for stdout)`)
	if err := fs.Parse(args); err != nil {
		return err
	}

	data, err := readInputArg(fs.Args())
	if err != nil {
		return err
	}
	out, err := bmpng.Compress(data, &bmpng.CompressOptions{Level: *level, WindowBits: *wbits})
	if err != nil {
		return err
	}
	return writeOutput(*output, out)
}

func runDecompress(args []string) error {
	fs := flag.NewFlagSet("decompress", flag.ContinueOnError)
	output := fs.String("o", "-", `output path ("-" for stdout)`)
	if err := fs.Parse(args); err != nil {
		return err
	}

	data, err := readInputArg(fs.Args())
	if err != nil {
		return err
	}
	out, err := bmpng.Decompress(data, nil)
	if err != nil {
		return err
	}
	return writeOutput(*output, out)
}

// readInputArg reads the single optional positional input, defaulting
// to stdin.
func readInputArg(args []string) ([]byte, error) {
	path := "-"
	if len(args) > 0 {
		path = args[0]
	}
	in, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()
	return io.ReadAll(in)
}
