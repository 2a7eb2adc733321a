// Package wavegen generates wavetable bank pages from Fourier harmonic
// specifications read as YAML documents, reproducing
// original_source/software/utils/wavegen/wavegen.c's evaluation
// algorithm exactly. Unlike the original tool (which emits ca65
// assembly source), this package emits the raw wavetable bank pages
// the interpreter's loader expects.
package wavegen

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

const (
	maxHarmonics = 16
	minHarmonics = 1
	defaultPeak  = 0x3F
)

// Harmonic is one DC-or-overtone term: Amplitude in [0,255] and Phase in
// [0,255] (an 8-bit angle, 256 parts per turn), packed the way the
// original tool's harmonic_data word is (amplitude in the high byte,
// phase in the low byte).
type Harmonic struct {
	Amplitude uint8
	Phase     uint8
}

// UnmarshalYAML accepts either a mapping {amplitude, phase} or a single
// scalar hex/decimal integer with amplitude in the high byte and phase
// in the low byte, matching the original YAML's packed-word harmonics.
func (h *Harmonic) UnmarshalYAML(node *yaml.Node) error {
	var packed int
	if err := node.Decode(&packed); err == nil {
		h.Amplitude = uint8(packed >> 8)
		h.Phase = uint8(packed)
		return nil
	}

	var m struct {
		Amplitude uint8 `yaml:"amplitude"`
		Phase     uint8 `yaml:"phase"`
	}
	if err := node.Decode(&m); err != nil {
		return fmt.Errorf("harmonic: %w", err)
	}
	h.Amplitude, h.Phase = m.Amplitude, m.Phase
	return nil
}

// WaveformSpec is one YAML document describing a single wavetable page.
type WaveformSpec struct {
	Name      string     `yaml:"name"`
	Desc      string     `yaml:"desc"`
	Segment   string     `yaml:"segment"`
	Peak      uint8      `yaml:"peak"`
	Norm      *bool      `yaml:"norm"`
	Harmonics []Harmonic `yaml:"list"`
}

func (s *WaveformSpec) normalize() bool {
	if s.Norm == nil {
		return true
	}
	return *s.Norm
}

// numOvertones is the harmonic count excluding the leading DC term.
func (s *WaveformSpec) numOvertones() int {
	if len(s.Harmonics) == 0 {
		return 0
	}
	return len(s.Harmonics) - 1
}

// ParseSpecs decodes every YAML document in r into a WaveformSpec,
// applying the same defaults start_new_document installs in the
// original tool (peak 0x3F, normalization enabled, segment "WAVE").
func ParseSpecs(r io.Reader) ([]WaveformSpec, error) {
	dec := yaml.NewDecoder(r)

	var specs []WaveformSpec
	for {
		spec := WaveformSpec{Peak: defaultPeak, Segment: "WAVE"}
		err := dec.Decode(&spec)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("wavegen: parsing YAML: %w", err)
		}
		if spec.Name == "" {
			continue
		}
		specs = append(specs, spec)
	}
	return specs, nil
}
