// Command hkn is the CLI surface described in spec.md §6: encode,
// encode-lossless, decode, info. It owns the PPM container I/O the
// core spec explicitly keeps out of scope (spec.md §1) — the core
// packages never see a file, only pixel buffers.
package main

import (
	"fmt"
	"os"

	"github.com/hakorune/hakonyans/container"
	"github.com/hakorune/hakonyans/hkn"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "encode":
		err = cmdEncodeLossy(os.Args[2:])
	case "encode-lossless":
		err = cmdEncodeLossless(os.Args[2:])
	case "decode":
		err = cmdDecode(os.Args[2:])
	case "info":
		err = cmdInfo(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "hkn: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage:")
	fmt.Fprintln(os.Stderr, "  hkn encode <in.ppm> <out.hkn> [quality] [subsampling] [cfl] [screen]")
	fmt.Fprintln(os.Stderr, "  hkn encode-lossless <in.ppm> <out.hkn> [preset=fast|balanced|max]")
	fmt.Fprintln(os.Stderr, "  hkn decode <in.hkn> <out.ppm>")
	fmt.Fprintln(os.Stderr, "  hkn info <in.hkn>")
}

// cmdEncodeLossless implements the only fully specified codec path:
// the lossless core. The quality/preset argument is accepted but has
// no effect on the lossless route competition (spec.md §4.9 already
// fully determines route selection); args[2], when present, is never
// read, so a caller's script can pass the same argument shape either way.
func cmdEncodeLossless(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("encode-lossless: need <in.ppm> <out.hkn>")
	}
	rgb, width, height, err := readPPM(args[0])
	if err != nil {
		return err
	}
	out, err := hkn.EncodeLossless(rgb, width, height)
	if err != nil {
		return err
	}
	return os.WriteFile(args[1], out, 0o644)
}

// cmdEncodeLossy routes to the lossy peripheral pipeline. The lossy
// pipeline's encode path (DCT + quant + token rANS) is a peripheral
// collaborator per spec.md §1 — only its container placement and
// interfaces are specified, not a full implementation — so this
// subcommand reports that plainly rather than silently falling back
// to the lossless path under a different name.
func cmdEncodeLossy([]string) error {
	return fmt.Errorf("encode: lossy pipeline is a peripheral collaborator (spec.md §1); use encode-lossless")
}

func cmdDecode(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("decode: need <in.hkn> <out.ppm>")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	rgb, width, height, err := hkn.DecodeLossless(data)
	if err != nil {
		return err
	}
	return writePPM(args[1], rgb, width, height)
}

func cmdInfo(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("info: need <in.hkn>")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	h, err := container.UnmarshalHeader(data)
	if err != nil {
		return err
	}
	fmt.Printf("width:        %d\n", h.Width)
	fmt.Printf("height:       %d\n", h.Height)
	fmt.Printf("bit_depth:    %d\n", h.BitDepth)
	fmt.Printf("channels:     %d\n", h.NumChannels)
	fmt.Printf("colorspace:   %d\n", h.Colorspace)
	fmt.Printf("subsampling:  %d\n", h.Subsampling)
	fmt.Printf("tile_cols:    %d\n", h.TileCols)
	fmt.Printf("tile_rows:    %d\n", h.TileRows)
	fmt.Printf("lossless:     %t\n", h.Lossless)
	fmt.Printf("quality:      %d\n", h.Quality)
	return nil
}
