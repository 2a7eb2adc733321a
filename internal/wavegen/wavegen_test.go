package wavegen

import (
	"strings"
	"testing"
)

func TestParseSpecsReadsMultipleDocuments(t *testing.T) {
	doc := `
name: SINE
desc: pure sine
peak: 0x3F
norm: true
list: [0x0000, 0xFF00]
---
name: SQUARE
list: [0x0000, 0xFF00, 0x0000, 0x5500]
`
	specs, err := ParseSpecs(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(specs) != 2 {
		t.Fatalf("expected 2 specs, got %d", len(specs))
	}
	if specs[0].Name != "SINE" || specs[1].Name != "SQUARE" {
		t.Fatalf("unexpected names: %#v %#v", specs[0].Name, specs[1].Name)
	}
	if len(specs[0].Harmonics) != 2 {
		t.Fatalf("expected 2 harmonics (DC + 1), got %d", len(specs[0].Harmonics))
	}
}

func TestGenerateProducesFullPage(t *testing.T) {
	spec := WaveformSpec{
		Name: "SINE",
		Peak: 0x3F,
		Harmonics: []Harmonic{
			{Amplitude: 0, Phase: 0},
			{Amplitude: 255, Phase: 0},
		},
	}
	page := Generate(&spec)
	var nonZero bool
	for _, b := range page {
		if b != 0 {
			nonZero = true
			break
		}
	}
	if !nonZero {
		t.Fatalf("expected a non-flat waveform")
	}
}

func TestGenerateAllSkipsOutOfRangeHarmonicCounts(t *testing.T) {
	specs := []WaveformSpec{
		{Name: "EMPTY", Harmonics: []Harmonic{{Amplitude: 1}}}, // DC only, 0 overtones
	}
	pages, warnings := GenerateAll(specs)
	if len(pages) != 0 {
		t.Fatalf("expected no pages generated, got %d", len(pages))
	}
	if len(warnings) != 1 {
		t.Fatalf("expected one warning, got %d", len(warnings))
	}
}
