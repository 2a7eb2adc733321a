// Command notranwave renders wavetable bank pages from Fourier harmonic
// specifications, reproducing
// original_source/software/utils/wavegen/wavegen.c's command line
// surface. Unlike the original (which emits ca65 assembly), the output
// is the raw wavetable bank format notranvm loads.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"notran/internal/wavebank"
	"notran/internal/wavegen"
)

func main() {
	output := flag.String("o", "", "output wavetable bank file (omit for stdout)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [-o out.bank] SPEC.yaml\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	logger := log.New(os.Stderr)

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	specFile, err := os.Open(flag.Arg(0))
	if err != nil {
		logger.Fatal("cannot open spec", "file", flag.Arg(0), "error", err)
	}
	specs, err := wavegen.ParseSpecs(specFile)
	specFile.Close()
	if err != nil {
		logger.Fatal("cannot parse specs", "error", err)
	}

	pages, warnings := wavegen.GenerateAll(specs)
	for _, w := range warnings {
		logger.Warn(w.Error())
	}
	if len(pages) == 0 {
		logger.Fatal("no wavetable pages generated")
	}

	out := os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			logger.Fatal("cannot create output", "file", *output, "error", err)
		}
		defer f.Close()
		out = f
	}

	if err := wavebank.Write(out, pages); err != nil {
		logger.Fatal("writing wavetable bank failed", "error", err)
	}
	logger.Info("generated", "pages", len(pages))
}
