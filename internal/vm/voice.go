package vm

import "notran/internal/bytecode"

// Voice is the interpreter-side per-voice register set: the 8.8
// fixed-point phase accumulator, the active wavetable page, the note
// offset (absolute pitch doubled) and its derived frequency increment,
// and the remaining event duration. Field order mirrors notint.c's
// voice_t, though Go needs no explicit padding byte.
type Voice struct {
	PhaseFrac      uint8
	PhaseInt       uint8
	WavetablePage  uint8
	NoteOffset     uint8
	FreqIncrement  uint16
	Duration       uint8
}

func initVoice(v *Voice, wavetableBase uint8) {
	*v = Voice{WavetablePage: wavetableBase, Duration: bytecode.VoiceInactive}
}

func (v *Voice) setSilent() { v.FreqIncrement = 0 }

func (v *Voice) activate() {
	v.Duration = 0
	v.setSilent()
}

func (v *Voice) deactivate() {
	v.Duration = bytecode.VoiceInactive
	v.setSilent()
}

func (v *Voice) resetPhase() {
	v.PhaseFrac = 0
	v.PhaseInt = 0
}

func (v *Voice) updateFrequency(noteOffset uint8) {
	v.NoteOffset = noteOffset
	v.FreqIncrement = bytecode.FrequencyIncrement(noteOffset)
}

func (v *Voice) isActive() bool  { return v.Duration != bytecode.VoiceInactive }
func (v *Voice) isExpired() bool { return v.Duration == 0 }

// assignShortNote applies a short-note command byte's pitch nibble to
// the voice. A pitch nibble equal to PitchRest silences the voice while
// preserving its pitch; a zero delta that lands on the same absolute
// pitch as before resets the phase accumulator, per assign_short_note.
func (v *Voice) assignShortNote(pitchField uint8, durationCode uint8) {
	prevOffset := v.NoteOffset
	v.Duration = bytecode.DurationTable[durationCode]

	pitchNibble := bytecode.SignExtend4(pitchField >> bytecode.PitchShift)
	if pitchNibble == bytecode.PitchRest {
		v.setSilent()
		return
	}

	byteOffset := int8(pitchNibble * 2)
	v.NoteOffset = uint8(int8(v.NoteOffset) + byteOffset)
	v.updateFrequency(v.NoteOffset)

	if byteOffset == 0 && prevOffset == v.NoteOffset {
		v.resetPhase()
	}
}

func (v *Voice) assignLongNoteAbsolute(pitchByte, waveform, durationCode uint8) {
	v.NoteOffset = pitchByte
	v.WavetablePage = waveform
	v.Duration = bytecode.DurationTable[durationCode]
	v.updateFrequency(pitchByte)
}

func (v *Voice) assignLongNoteRelative(pitchDisplacement int8, waveform, durationCode uint8) {
	v.NoteOffset = uint8(int8(v.NoteOffset) + pitchDisplacement)
	v.WavetablePage = waveform
	v.Duration = bytecode.DurationTable[durationCode]
	v.updateFrequency(v.NoteOffset)
}

func (v *Voice) advancePhase() {
	phase := uint16(v.PhaseInt)<<8 | uint16(v.PhaseFrac)
	phase += v.FreqIncrement
	v.PhaseFrac = uint8(phase)
	v.PhaseInt = uint8(phase >> 8)
}
