package wavebank

import (
	"bytes"
	"testing"
)

func TestWriteLoadRoundTrip(t *testing.T) {
	var pages [][PageSize]byte
	for p := 0; p < 3; p++ {
		var page [PageSize]byte
		for i := range page {
			page[i] = uint8(p*10 + i%7)
		}
		pages = append(pages, page)
	}

	var buf bytes.Buffer
	if err := Write(&buf, pages); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	got, warning, err := Load(&buf)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if warning != nil {
		t.Fatalf("unexpected warning: %v", warning)
	}
	if len(got) != len(pages) {
		t.Fatalf("expected %d pages, got %d", len(pages), len(got))
	}
	for i := range pages {
		if got[i] != pages[i] {
			t.Fatalf("page %d mismatch", i)
		}
	}
}

func TestLoadRejectsEmptyFile(t *testing.T) {
	if _, _, err := Load(bytes.NewReader(nil)); err == nil {
		t.Fatalf("expected error for empty wavetable file")
	}
}

func TestLoadWarnsOnTrailingBytes(t *testing.T) {
	data := make([]byte, PageSize+10)
	got, warning, err := Load(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if warning == nil {
		t.Fatalf("expected a warning for a non-multiple-of-%d file size", PageSize)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 whole page, got %d", len(got))
	}
}
