package compiler

import "notran/internal/bytecode"

// Symbol records a user-defined identifier's address, in first-seen
// insertion order (first-definition-wins; duplicates are rejected).
type Symbol struct {
	ID      uint8
	Address uint16
}

// VoiceState is the compiler-side per-voice bookkeeping used to decide
// short vs. long note encoding and to track event-assembly durations.
// It mirrors notcmp.c's voice_state_t, not the interpreter's voice_t.
type VoiceState struct {
	Waveform    uint8 // 0-15 (waveform N stored as N-1)
	Duration    uint8 // time units remaining in the current event; 0xFF = inactive
	Pitch       uint8 // last absolute pitch emitted for this voice
	Octave      uint8 // current octave
	UseAbsolute bool  // force absolute (long-note) encoding on next note
}

// NoteSpec is a fully-parsed note or rest token, not yet assigned to a
// voice slot.
type NoteSpec struct {
	Voice        uint8 // 0 = unspecified
	Pitch        uint8 // 0 = rest
	Octave       uint8 // 0 = inherit from voice state
	DurationCode uint8
	DurationTime uint8
}

// ListingEntry is one source line's echo plus the bytes it generated,
// written out by a compile when a listing file is requested.
type ListingEntry struct {
	Source  string
	Blank   bool
	Comment bool
	Address uint16
	Bytes   []byte
}

// Result is everything a successful (or partially successful, for
// listing purposes) compile produced.
type Result struct {
	Code        []byte
	BaseAddress uint16
	Symbols     []Symbol
	Listing     []ListingEntry
	Lines       int
}

// Compiler holds all per-compile mutable state: the lexing cursor, the
// symbol table, the emitted code image, and the four voices' event
// assembly state. One Compiler compiles exactly one source.
type Compiler struct {
	baseAddress uint16

	line         string
	inputPos     int
	lineNumber   int
	lineCodeStart int

	symbols []Symbol
	code    []byte

	eventBuilding bool
	voicePtr      uint8
	voices        [bytecode.MaxVoices]VoiceState

	subAddress int // -1 = no pending SUB; else index into code of the JMP operand
	endFlag    bool
	errorFlag  bool

	listingEnabled bool
	listing        []ListingEntry

	errs []*CompileError
}

// New returns a Compiler ready to process source lines, emitting code
// relative to baseAddress.
func New(baseAddress uint16, withListing bool) *Compiler {
	c := &Compiler{
		baseAddress:    baseAddress,
		subAddress:     -1,
		listingEnabled: withListing,
	}
	for i := range c.voices {
		c.voices[i] = VoiceState{Duration: bytecode.VoiceInactive, UseAbsolute: true}
	}
	return c
}
