// Command notranvm interprets a compiled NOTRAN bytecode program
// against a wavetable bank, rendering either to a WAV file or to live
// playback, reproducing original_source/software/utils/notint/notint.c's
// command line surface with stdlib flag and charmbracelet/log.
package main

import (
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"notran/internal/audiosink"
	"notran/internal/vm"
	"notran/internal/wavebank"
)

func main() {
	var (
		output     = flag.String("o", "", "output WAV file (omit for live playback)")
		sampleRate = flag.Int("r", 8772, "sample rate in Hz (1000-96000)")
		maxJumps   = flag.Int("j", -1, "maximum JMP instructions before a graceful stop (-1 = unlimited)")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [-o out.wav] [-r rate] [-j n] BYTECODE WAVETABLES\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	logger := log.New(os.Stderr)

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(2)
	}
	if *sampleRate < 1000 || *sampleRate > 96000 {
		logger.Fatal("sample rate out of range", "rate", *sampleRate)
	}

	codePath, wavetablesPath := flag.Arg(0), flag.Arg(1)

	code, err := os.ReadFile(codePath)
	if err != nil {
		logger.Fatal("cannot read bytecode", "file", codePath, "error", err)
	}

	wtFile, err := os.Open(wavetablesPath)
	if err != nil {
		logger.Fatal("cannot open wavetables", "file", wavetablesPath, "error", err)
	}
	wavetables, warning, err := wavebank.Load(wtFile)
	wtFile.Close()
	if err != nil {
		logger.Fatal("cannot load wavetables", "error", err)
	}
	if warning != nil {
		logger.Warn(warning.Error())
	}

	budget := uint32(math.MaxUint32)
	if *maxJumps >= 0 {
		budget = uint32(*maxJumps)
	}
	state := vm.NewState(code, wavetables, budget)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		logger.Info("stopping on signal")
		state.Running.Store(false)
	}()

	sink, closeSink, err := openSink(*output, *sampleRate, logger)
	if err != nil {
		logger.Fatal("cannot open output", "error", err)
	}
	defer closeSink()

	if err := state.Run(sink); err != nil {
		logger.Fatal("playback failed", "error", err)
	}
	logger.Info("playback finished")
}

func openSink(output string, sampleRate int, logger *log.Logger) (io.Writer, func(), error) {
	if output == "" {
		live, err := audiosink.NewLiveSink(sampleRate)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("playing live", "rate", sampleRate)
		return live, func() { live.Close() }, nil
	}

	f, err := os.Create(output)
	if err != nil {
		return nil, nil, err
	}
	w := audiosink.NewWAVWriter(f, sampleRate)
	logger.Info("rendering to file", "file", output, "rate", sampleRate)
	return w, func() { w.Close(); f.Close() }, nil
}
