package vm

import (
	"io"

	"notran/internal/bytecode"
)

const bufferFrames = 1024

const defaultTempo = 32

// processPureControlCommands drains Phase A: every control command up
// to (but not including) the next note or long-note prefix.
func (s *State) processPureControlCommands() (stop bool, err error) {
	for s.codePtr < len(s.Code) {
		command := s.Code[s.codePtr]
		if !bytecode.IsControlCommand(command) || bytecode.IsLongNoteCommand(command) {
			return false, nil
		}
		s.codePtr++
		stop, err = s.processControlCommand(command)
		if stop || err != nil {
			return stop, err
		}
	}
	return false, nil
}

// processNotesForVoices is Phase B: for each active voice that has
// expired its current note, subtract the shared event duration or fetch
// its next note/control token.
func (s *State) processNotesForVoices() {
	for i := 0; i < bytecode.MaxVoices; i++ {
		v := &s.Voices[i]
		if !v.isActive() {
			continue
		}

		if v.Duration > 0 && s.Duration > 0 {
			if v.Duration > s.Duration {
				v.Duration -= s.Duration
				continue
			}
			v.Duration = 0
		}

		if !v.isExpired() {
			continue
		}
		if s.codePtr >= len(s.Code) {
			break
		}

		command := s.readByte()
		durationCode := command & bytecode.DurationMask

		if durationCode == 0 {
			if bytecode.IsLongNoteCommand(command) {
				s.processLongNote(v, command)
			} else {
				s.codePtr--
				return
			}
		} else {
			v.assignShortNote(command&bytecode.PitchMask, durationCode)
		}
	}
}

// playNotes is Phase C: render tempo*duration samples through the
// additive mixer, writing buffered output to sink. The loop blocks on
// sink.Write for backpressure and checks s.Running at least once per
// call so an external cancellation flag can interrupt playback promptly.
func (s *State) playNotes(sink io.Writer) error {
	total := int(s.Tempo) * int(s.Duration)
	buf := make([]byte, 0, bufferFrames)
	generated := 0

	for generated < total && s.Running.Load() {
		buf = append(buf, s.generateSample())
		generated++

		if len(buf) >= bufferFrames {
			if _, err := sink.Write(buf); err != nil {
				return err
			}
			buf = buf[:0]
		}
	}
	if len(buf) > 0 {
		if _, err := sink.Write(buf); err != nil {
			return err
		}
	}
	return nil
}

// Run drives the fetch-decode-execute cycle until the program ends, a
// fatal error occurs, or s.Running is cleared by an external canceller.
// Each iteration is Phase A (drain control commands), Phase B (assign
// notes to expired voices) and Phase C (render the resulting event).
func (s *State) Run(sink io.Writer) error {
	if s.Tempo == 0 {
		s.Tempo = defaultTempo
	}

	for s.Running.Load() && s.codePtr < len(s.Code) {
		stop, err := s.processPureControlCommands()
		if err != nil {
			return err
		}
		if stop {
			return nil
		}
		if s.codePtr >= len(s.Code) {
			break
		}

		s.processNotesForVoices()
		s.Duration = s.findShortestDuration()

		if s.Duration == bytecode.VoiceInactive || s.Duration == 0 {
			continue
		}
		if err := s.playNotes(sink); err != nil {
			return err
		}
	}
	return nil
}
