package audiosink

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	ebitaudio "github.com/hajimehoshi/ebiten/v2/audio"
)

var (
	audioContextOnce sync.Once
	audioContext     *ebitaudio.Context
	audioContextErr  error
	audioSampleRate  int
)

func sharedAudioContext(sampleRate int) (*ebitaudio.Context, error) {
	audioContextOnce.Do(func() {
		audioSampleRate = sampleRate
		audioContext = ebitaudio.NewContext(sampleRate)
	})
	if audioContextErr != nil {
		return nil, audioContextErr
	}
	if audioSampleRate != sampleRate {
		return nil, fmt.Errorf("audio context already initialized at %d Hz (requested %d Hz)", audioSampleRate, sampleRate)
	}
	return audioContext, nil
}

// pcmUpconverter adapts a raw 8-bit unsigned mono PCM stream (read from
// the pipe the interpreter writes into) to the float32 stereo format
// ebiten's audio.Player consumes. One input byte becomes one frame: two
// float32 channels carrying the same sample.
type pcmUpconverter struct {
	src io.Reader
	raw []byte
}

func (u *pcmUpconverter) Read(p []byte) (int, error) {
	frames := len(p) / 8
	if frames == 0 {
		return 0, nil
	}
	if cap(u.raw) < frames {
		u.raw = make([]byte, frames)
	}
	u.raw = u.raw[:frames]

	n, err := u.src.Read(u.raw)
	for i := 0; i < n; i++ {
		sample := (float32(u.raw[i]) - 128) / 128
		bits := math.Float32bits(sample)
		binary.LittleEndian.PutUint32(p[i*8:], bits)
		binary.LittleEndian.PutUint32(p[i*8+4:], bits)
	}
	return n * 8, err
}

// LiveSink is an io.WriteCloser that plays written 8-bit unsigned mono
// PCM through ebiten's audio backend as it arrives. Write blocks until
// the playback side has drained the bytes, giving the interpreter's
// render loop the same backpressure a blocking device write would.
type LiveSink struct {
	pw     *io.PipeWriter
	player *ebitaudio.Player
}

// NewLiveSink opens a live playback sink at the given sample rate and
// starts the player immediately; Write calls feed it samples.
func NewLiveSink(sampleRate int) (*LiveSink, error) {
	ctx, err := sharedAudioContext(sampleRate)
	if err != nil {
		return nil, err
	}
	pr, pw := io.Pipe()
	player, err := ctx.NewPlayerF32(&pcmUpconverter{src: pr})
	if err != nil {
		return nil, err
	}
	player.Play()
	return &LiveSink{pw: pw, player: player}, nil
}

func (s *LiveSink) Write(p []byte) (int, error) {
	return s.pw.Write(p)
}

func (s *LiveSink) IsPlaying() bool         { return s.player.IsPlaying() }
func (s *LiveSink) Position() time.Duration { return s.player.Position() }

// Close stops playback and unblocks any pending Write.
func (s *LiveSink) Close() error {
	_ = s.pw.Close()
	s.player.Close()
	return nil
}
