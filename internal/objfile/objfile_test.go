package objfile

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriteBinaryPassesThroughBytes(t *testing.T) {
	var buf bytes.Buffer
	data := []byte{0x01, 0x02, 0x03}
	if err := Write(&buf, Binary, data, 0); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), data) {
		t.Fatalf("expected %v, got %v", data, buf.Bytes())
	}
}

func TestWritePAPProducesTerminatedStream(t *testing.T) {
	var buf bytes.Buffer
	data := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	if err := Write(&buf, PAP, data, 0x0300); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected one data record and one trailer, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], ";040300") {
		t.Fatalf("unexpected record prefix: %s", lines[0])
	}
	if !strings.HasPrefix(lines[1], ";0000") {
		t.Fatalf("expected trailer record, got: %s", lines[1])
	}
}

func TestWriteIntelHexEndsWithEOFRecord(t *testing.T) {
	var buf bytes.Buffer
	data := []byte{0x01, 0x02}
	if err := Write(&buf, IntelHex, data, 0); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if lines[len(lines)-1] != ":00000001FF" {
		t.Fatalf("expected Intel HEX EOF record, got: %s", lines[len(lines)-1])
	}
	if !strings.HasPrefix(lines[0], ":020000000102") {
		t.Fatalf("unexpected data record: %s", lines[0])
	}
}

func TestParseFormatRejectsUnknown(t *testing.T) {
	if _, err := ParseFormat("xyz"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}
