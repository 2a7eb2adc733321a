// Package audiosink turns the interpreter's raw 8-bit unsigned mono PCM
// stream into either a WAV file or live playback, grounded on
// notint.c's wav_open/wav_write/wav_close lifecycle and adapted from
// offline.go's EncodeWAVFloat32LE and internal/audio/stream.go's
// ebiten playback bridge.
package audiosink

import (
	"encoding/binary"
	"io"
)

// WAVWriter buffers raw 8-bit unsigned mono samples written to it and
// emits a complete RIFF/WAVE file on Close, the way wav_close
// back-patches riff_size and data_size once the sample count is known.
type WAVWriter struct {
	w          io.Writer
	sampleRate int
	data       []byte
	closed     bool
}

// NewWAVWriter returns a WAVWriter that will write one complete 8-bit
// unsigned mono WAV file to w on Close.
func NewWAVWriter(w io.Writer, sampleRate int) *WAVWriter {
	return &WAVWriter{w: w, sampleRate: sampleRate}
}

func (ww *WAVWriter) Write(p []byte) (int, error) {
	ww.data = append(ww.data, p...)
	return len(p), nil
}

// Close renders the accumulated samples as a PCM-format-1, 8-bit,
// mono WAV file and writes it to the underlying writer.
func (ww *WAVWriter) Close() error {
	if ww.closed {
		return nil
	}
	ww.closed = true

	const (
		numChannels   = 1
		bitsPerSample = 8
	)
	dataSize := len(ww.data)
	byteRate := ww.sampleRate * numChannels * bitsPerSample / 8
	blockAlign := numChannels * bitsPerSample / 8
	riffSize := 36 + dataSize

	out := make([]byte, 44+dataSize)
	copy(out[0:], "RIFF")
	binary.LittleEndian.PutUint32(out[4:], uint32(riffSize))
	copy(out[8:], "WAVE")
	copy(out[12:], "fmt ")
	binary.LittleEndian.PutUint32(out[16:], 16)
	binary.LittleEndian.PutUint16(out[20:], 1) // PCM
	binary.LittleEndian.PutUint16(out[22:], numChannels)
	binary.LittleEndian.PutUint32(out[24:], uint32(ww.sampleRate))
	binary.LittleEndian.PutUint32(out[28:], uint32(byteRate))
	binary.LittleEndian.PutUint16(out[32:], uint16(blockAlign))
	binary.LittleEndian.PutUint16(out[34:], bitsPerSample)
	copy(out[36:], "data")
	binary.LittleEndian.PutUint32(out[40:], uint32(dataSize))
	copy(out[44:], ww.data)

	_, err := ww.w.Write(out)
	return err
}
