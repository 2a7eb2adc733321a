package compiler

import "notran/internal/bytecode"

// pitchTable maps a note letter's scaled value (A=3..G=21, step 3,
// shifted by accidentals) down to a 1-12 semitone-within-octave index.
// Grounded verbatim on notcmp.c's parse_note_pitch.
var pitchTable = [...]uint8{
	9, 10, 11, 11, 12, 1, 12, 1, 2, 2, 3, 4, 4, 5, 6, 5, 6, 7, 7, 8, 9,
}

func (c *Compiler) parseNotePitch() uint8 {
	letter := c.cur()
	if letter < 'A' || letter > 'G' {
		c.reportError(ErrIncomprehensibleSpec)
		return 0
	}
	noteValue := int(letter-'A'+1) * 3
	c.advance()

	switch c.cur() {
	case '#':
		noteValue++
		c.advance()
	case '@':
		noteValue--
		c.advance()
	}

	return pitchTable[noteValue-2]
}

const durationLetters = "WHQEST"

// durationCodeTable/durationTimeTable mirror notcmp.c's parse_duration
// tables: each base letter occupies three slots (dotted, plain, triplet).
var durationCodeTable = [...]uint8{
	0, 1, 0, 2, 3, 5, 4, 6, 8, 7, 9, 11, 10, 12, 14, 13, 15, 0,
}
var durationTimeTable = [...]uint8{
	192, 144, 96, 72, 64, 48, 36, 32, 24, 18, 16, 12, 9, 8, 6,
}

func (c *Compiler) parseDuration() (code uint8, durTime uint8, ok bool) {
	idx := indexByte(durationLetters, c.cur())
	if idx < 0 {
		c.reportError(ErrIllegalDuration)
		return 0, 0, false
	}
	durIdx := idx*3 + 1
	c.advance()

	switch c.cur() {
	case '.':
		durIdx--
		c.advance()
	case '3':
		durIdx++
		c.advance()
	}

	codeVal := durationCodeTable[durIdx]
	if codeVal == 0 {
		c.reportError(ErrIllegalDuration)
		return 0, 0, false
	}
	return codeVal, durationTimeTable[codeVal-1], true
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}

func isLineEnd(b byte) bool { return b == 0 }

// parseNote parses one note or rest token and, on success, dispatches
// it into the voice event-assembly state machine.
func (c *Compiler) parseNote() {
	var note NoteSpec

	if c.cur() >= '1' && c.cur() <= byte('0'+bytecode.MaxVoices) {
		note.Voice = c.cur() - '0'
		c.advance()
	}

	if c.cur() == 'R' {
		c.advance()
		note.Pitch = 0
	} else {
		note.Pitch = c.parseNotePitch()
		if c.errorFlag {
			return
		}
		if c.cur() >= '1' && c.cur() <= '6' {
			note.Octave = c.cur() - '0'
			c.advance()
		}
	}

	code, durTime, ok := c.parseDuration()
	if !ok {
		return
	}
	note.DurationCode, note.DurationTime = code, durTime

	if c.cur() != ' ' && c.cur() != ';' && !isLineEnd(c.cur()) {
		c.reportError(ErrIncomprehensibleSpec)
		return
	}

	c.processNoteEvent(&note)
}

func (c *Compiler) activateVoice(i int)   { c.voices[i].Duration = 0 }
func (c *Compiler) deactivateVoice(i int) { c.voices[i].Duration = bytecode.VoiceInactive }

func (c *Compiler) anyVoiceActive() bool {
	for i := range c.voices {
		if c.voices[i].Duration != bytecode.VoiceInactive {
			return true
		}
	}
	return false
}

func (c *Compiler) findNextVoiceNeedingNote(start int) int {
	for i := start; i < bytecode.MaxVoices; i++ {
		if c.voices[i].Duration == 0 {
			return i
		}
	}
	return bytecode.MaxVoices
}

func (c *Compiler) calculateMinVoiceDuration() uint8 {
	min := uint8(bytecode.VoiceInactive)
	for i := range c.voices {
		if c.voices[i].Duration != bytecode.VoiceInactive && c.voices[i].Duration < min {
			min = c.voices[i].Duration
		}
	}
	return min
}

func (c *Compiler) subtractDurationFromVoices(d uint8) {
	for i := range c.voices {
		if c.voices[i].Duration != bytecode.VoiceInactive {
			c.voices[i].Duration -= d
		}
	}
}

func (c *Compiler) completeEvent() {
	min := c.calculateMinVoiceDuration()
	c.subtractDurationFromVoices(min)
	c.eventBuilding = false
}

func (c *Compiler) emitRest(durationCode uint8) {
	c.emitByte(bytecode.RestMask | durationCode)
}

func (c *Compiler) emitShortNote(pitchDiff int, durationCode uint8) {
	c.emitByte(uint8((pitchDiff&0x0F)<<4) | durationCode)
}

func (c *Compiler) emitLongNote(pitch int, waveform uint8, durationCode uint8) {
	c.emitByte(bytecode.OpLongNoteAbs)
	c.emitByte(uint8(pitch * 2))
	c.emitByte((waveform << 4) | durationCode)
}

func (c *Compiler) shouldUseShortEncoding(voiceIdx int, newPitch int) bool {
	v := &c.voices[voiceIdx]
	if v.UseAbsolute || v.Pitch == 0 {
		return false
	}
	diff := newPitch - int(v.Pitch)
	return diff >= -7 && diff <= 7
}

// processNoteEvent is the heart of the compiler's event-assembly state
// machine, grounded verbatim on notcmp.c's process_note_event: it
// assigns a parsed note/rest to the next voice slot needing one, choosing
// short vs. long encoding, then advances or closes the current event.
func (c *Compiler) processNoteEvent(note *NoteSpec) {
	if !c.eventBuilding {
		c.voicePtr = 0
		c.eventBuilding = true
		if !c.anyVoiceActive() {
			c.reportError(ErrNoVoicesActive)
			return
		}
	}

	voiceIdx := c.findNextVoiceNeedingNote(int(c.voicePtr))
	if voiceIdx >= bytecode.MaxVoices {
		c.reportError(ErrNoVoicesActive)
		return
	}

	if note.Voice != 0 && voiceIdx != int(note.Voice)-1 {
		c.reportError(ErrVoiceMismatch)
	}

	if note.Pitch == 0 {
		c.emitRest(note.DurationCode)
	} else {
		octave := note.Octave
		if octave == 0 {
			octave = c.voices[voiceIdx].Octave
			if octave == 0 {
				c.reportError(ErrPitchOutOfRange)
				octave = 4
			}
		}
		c.voices[voiceIdx].Octave = octave

		absPitch := int(octave)*12 + int(note.Pitch) - 12
		if !c.isValidPitch(absPitch) {
			c.reportError(ErrPitchOutOfRange)
			absPitch = bytecode.MaxPitch
		}

		if c.shouldUseShortEncoding(voiceIdx, absPitch) {
			diff := absPitch - int(c.voices[voiceIdx].Pitch)
			c.emitShortNote(diff, note.DurationCode)
		} else {
			c.emitLongNote(absPitch, c.voices[voiceIdx].Waveform, note.DurationCode)
		}
		c.voices[voiceIdx].Pitch = uint8(absPitch)
	}

	c.voices[voiceIdx].Duration = note.DurationTime
	c.voices[voiceIdx].UseAbsolute = false

	next := voiceIdx + 1
	if c.findNextVoiceNeedingNote(next) >= bytecode.MaxVoices {
		c.completeEvent()
	} else {
		c.voicePtr = uint8(next)
	}
}
