package vm

import "notran/internal/bytecode"

func (s *State) handleTempo() error {
	pos := s.codePtr - 1
	newTempo := s.readByte()
	if newTempo == 0 {
		return newRuntimeError(pos, "tempo cannot be zero")
	}
	s.Tempo = newTempo
	return nil
}

func (s *State) handleCall() error {
	pos := s.codePtr - 1
	if s.stackPtr >= bytecode.StackSize {
		return newRuntimeError(pos, "call stack overflow")
	}
	s.callStack[s.stackPtr] = uint16(s.codePtr + 2)
	s.stackPtr++

	addr := s.readAddress()
	if int(addr) >= len(s.Code) {
		return newRuntimeError(pos, "call to invalid address 0x%04X", addr)
	}
	s.codePtr = int(addr)
	return nil
}

func (s *State) handleReturn() error {
	pos := s.codePtr - 1
	if s.stackPtr == 0 {
		return newRuntimeError(pos, "return with empty call stack")
	}
	s.stackPtr--
	s.codePtr = int(s.callStack[s.stackPtr])
	return nil
}

// handleJump returns stopped=true with a nil error when the configured
// jump budget is exhausted, matching notint.c's graceful info-level exit.
func (s *State) handleJump() (stopped bool, err error) {
	pos := s.codePtr - 1
	if s.MaxJumps == 0 {
		return true, nil
	}
	s.MaxJumps--

	addr := s.readAddress()
	if int(addr) >= len(s.Code) {
		return false, newRuntimeError(pos, "jump to invalid address 0x%04X", addr)
	}
	s.codePtr = int(addr)
	return false, nil
}

func (s *State) handleSetVoices() {
	n := s.readByte()
	s.setNumVoices(int(n))
}

func (s *State) handleDeactivate() {
	idx := s.readByte() & 0x03
	s.Voices[idx].deactivate()
}

func (s *State) handleActivate() {
	idx := s.readByte() & 0x03
	s.Voices[idx].activate()
}

// processControlCommand dispatches a non-note command byte.
// stop==true, err==nil means a clean end-of-program or jump-budget
// exhaustion; err!=nil is a fatal malformed-program condition.
func (s *State) processControlCommand(command uint8) (stop bool, err error) {
	pos := s.codePtr - 1
	if bytecode.IsLongNoteCommand(command) {
		return false, newRuntimeError(pos, "long note command 0x%02X in control processing", command)
	}

	switch command & bytecode.PitchMask {
	case bytecode.OpEnd:
		return true, nil
	case bytecode.OpTempo:
		return false, s.handleTempo()
	case bytecode.OpCall:
		return false, s.handleCall()
	case bytecode.OpReturn:
		return false, s.handleReturn()
	case bytecode.OpJump:
		return s.handleJump()
	case bytecode.OpSetVoices:
		s.handleSetVoices()
		return false, nil
	case bytecode.OpDeactivate:
		s.handleDeactivate()
		return false, nil
	case bytecode.OpActivate:
		s.handleActivate()
		return false, nil
	default:
		return false, newRuntimeError(pos, "undefined control command 0x%02X", command)
	}
}

func (s *State) processLongNote(voice *Voice, command uint8) {
	pitchByte := s.readByte()
	wdByte := s.readByte()

	waveform := (wdByte >> 4) & 0x0F
	durationCode := wdByte & 0x0F
	if durationCode == 0 {
		durationCode = 1 // duration code 0 is clamped to 1; no warning is reported
	}
	if int(waveform) >= len(s.Wavetables) {
		waveform = uint8(len(s.Wavetables) - 1) // out-of-range wavetable is clamped to the last page; no warning is reported
	}

	if command&bytecode.PitchMask == bytecode.OpLongNoteAbs {
		voice.assignLongNoteAbsolute(pitchByte, waveform, durationCode)
	} else {
		voice.assignLongNoteRelative(int8(pitchByte), waveform, durationCode)
	}
}
