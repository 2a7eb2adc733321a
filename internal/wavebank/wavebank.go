// Package wavebank reads and writes the wavetable bank file format: a
// sequence of contiguous 256-byte unsigned-8-bit waveform blocks, one
// per wavetable page. Grounded on notint.c's load_wavetables and
// wavegen.c's waveform generation pipeline, which this package's
// companion internal/wavegen feeds.
package wavebank

import (
	"fmt"
	"io"
)

const PageSize = 256

// Load reads a wavetable bank from r and splits it into PageSize-byte
// pages. A size that isn't a multiple of PageSize is accepted (the
// original tool only warns, "File size not multiple of %d bytes", and
// keeps the leading whole pages) but a file with no complete page is an
// error. The returned warning is non-nil exactly when trailing bytes
// were discarded, for a caller to log.
func Load(r io.Reader) ([][PageSize]byte, error, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, err
	}

	num := len(data) / PageSize
	if num == 0 {
		return nil, nil, fmt.Errorf("wavetable file too small: need at least %d bytes", PageSize)
	}

	var warning error
	if rem := len(data) % PageSize; rem != 0 {
		warning = fmt.Errorf("file size not multiple of %d bytes: %d trailing bytes discarded", PageSize, rem)
	}

	pages := make([][PageSize]byte, num)
	for i := range pages {
		copy(pages[i][:], data[i*PageSize:(i+1)*PageSize])
	}
	return pages, warning, nil
}

// Write concatenates pages into the raw bank format an interpreter's
// Load expects.
func Write(w io.Writer, pages [][PageSize]byte) error {
	for _, p := range pages {
		if _, err := w.Write(p[:]); err != nil {
			return err
		}
	}
	return nil
}
