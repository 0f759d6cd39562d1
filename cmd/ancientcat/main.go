// Command ancientcat decompresses a single ancient-format file to stdout,
// or just verifies it with -verify.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/polluks/ancient-format-decompressor/ancient"
	"github.com/polluks/ancient-format-decompressor/buffer"
)

func main() {
	verify := flag.Bool("verify", false, "only verify packed-side checksums, don't decompress")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: ancientcat [-verify] <file>")
		os.Exit(2)
	}

	if err := run(flag.Arg(0), *verify); err != nil {
		log.Fatal(err)
	}
}

func run(path string, verifyOnly bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	packed := buffer.NewView(data)

	if verifyOnly {
		return ancient.Verify(packed)
	}

	dst, err := ancient.Decompress(packed)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(dst.Data())
	return err
}
