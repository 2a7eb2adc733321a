// Command notranc compiles NOTRAN notation source into bytecode,
// reproducing original_source/software/utils/notcmp/notcmp.c's command
// line surface (source file, output file, format, base address and an
// optional listing) with stdlib flag and charmbracelet/log for the
// summary notranc prints on success.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"notran/internal/compiler"
	"notran/internal/objfile"
)

func main() {
	var (
		output      = flag.String("o", "", "output bytecode file (required)")
		format      = flag.String("f", "bin", "output format: bin|pap|ihex")
		baseAddress = flag.Uint("a", 0, "base address for the compiled program")
		listingPath = flag.String("l", "", "optional assembly listing output file")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s -o OUTPUT [-f bin|pap|ihex] [-a ADDR] [-l LISTING] SOURCE\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	logger := log.New(os.Stderr)

	if *output == "" || flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	sourcePath := flag.Arg(0)

	outFormat, err := objfile.ParseFormat(*format)
	if err != nil {
		logger.Fatal("invalid output format", "error", err)
	}

	src, err := os.Open(sourcePath)
	if err != nil {
		logger.Fatal("cannot open source", "file", sourcePath, "error", err)
	}
	defer src.Close()

	result, compileErr := compiler.Compile(src, uint16(*baseAddress), *listingPath != "")
	if result == nil {
		logger.Fatal("reading source failed", "error", compileErr)
	}

	// The listing must reflect whatever was processed even when compilation
	// errored (process_file keeps writing listing lines up to the point it
	// stops), so it is emitted before we act on compileErr.
	if *listingPath != "" {
		if err := writeListing(*listingPath, result); err != nil {
			logger.Fatal("writing listing failed", "error", err)
		}
	}

	if compileErr != nil {
		logger.Error("compilation failed", "error", compileErr)
		os.Exit(1)
	}

	outFile, err := os.Create(*output)
	if err != nil {
		logger.Fatal("cannot create output", "file", *output, "error", err)
	}
	defer outFile.Close()

	if err := objfile.Write(outFile, outFormat, result.Code, result.BaseAddress); err != nil {
		logger.Fatal("writing object file failed", "error", err)
	}

	logger.Info("compiled",
		"lines", result.Lines,
		"bytes", len(result.Code),
		"symbols", len(result.Symbols),
		"base", fmt.Sprintf("0x%04X", result.BaseAddress),
	)
}

func writeListing(path string, result *compiler.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	for _, entry := range result.Listing {
		if _, err := fmt.Fprint(f, entry.Render()); err != nil {
			return err
		}
	}
	return nil
}
