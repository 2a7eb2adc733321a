package vm

import (
	"sync/atomic"

	"notran/internal/bytecode"
)

// State is the fetch-decode-execute engine's complete register file: a
// shared program counter and call stack, the four voice registers, the
// tempo/duration bookkeeping used to size each render burst, and the
// cooperative-cancellation flag external callers set to stop playback.
type State struct {
	Voices [bytecode.MaxVoices]Voice

	Code    []byte
	codePtr int

	Wavetables [][bytecode.WavetableSize]byte

	Tempo           uint8
	Duration        uint8
	callStack       [bytecode.StackSize]uint16
	stackPtr        int
	NumActiveVoices int

	// Running is the cooperative-cancellation flag: external callers (a
	// signal handler, typically) clear it from another goroutine while
	// Run's loop polls it, so it is an atomic.Bool rather than a plain
	// bool.
	Running  atomic.Bool
	MaxJumps uint32
}

// NewState builds a fresh interpreter register file over the given
// program image and wavetable bank, matching init_interpreter's
// defaults: all four voices are mixed (NumActiveVoices = 4), and each
// voice starts inactive and silent until an ACTIVATE command.
func NewState(code []byte, wavetables [][bytecode.WavetableSize]byte, maxJumps uint32) *State {
	s := &State{
		Code:            code,
		Wavetables:      wavetables,
		NumActiveVoices: bytecode.MaxVoices,
		MaxJumps:        maxJumps,
	}
	s.Running.Store(true)
	for i := range s.Voices {
		initVoice(&s.Voices[i], 0)
	}
	return s
}

func (s *State) readByte() uint8 {
	if s.codePtr >= len(s.Code) {
		return 0
	}
	b := s.Code[s.codePtr]
	s.codePtr++
	return b
}

func (s *State) readAddress() uint16 {
	lo := s.readByte()
	hi := s.readByte()
	return uint16(lo) | uint16(hi)<<8
}

func (s *State) setNumVoices(n int) {
	if n < 1 {
		n = 1
	} else if n > bytecode.MaxVoices {
		n = bytecode.MaxVoices
	}
	s.NumActiveVoices = n
}
