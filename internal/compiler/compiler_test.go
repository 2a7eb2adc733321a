package compiler

import (
	"strings"
	"testing"
)

func TestCompileShortNoteAfterLongNote(t *testing.T) {
	src := "1 ACT 1\n WAV 1,1 TPO 60\n C4Q CQ\n END\n"
	res, err := Compile(strings.NewReader(src), 0, false)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	if len(res.Code) == 0 {
		t.Fatalf("expected emitted code, got none")
	}
	// Last byte must be the END opcode.
	if res.Code[len(res.Code)-1] != 0x00 {
		t.Fatalf("expected END opcode as last byte, got 0x%02X", res.Code[len(res.Code)-1])
	}
}

func TestCompileSymbolRoundTrip(t *testing.T) {
	src := " ACT 1\n5 TPO 60\n JMP 5\n END\n"
	res, err := Compile(strings.NewReader(src), 0, false)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	if len(res.Symbols) != 1 || res.Symbols[0].ID != 5 {
		t.Fatalf("expected one symbol with id 5, got %#v", res.Symbols)
	}
}

func TestCompileUndefinedIdentifierErrors(t *testing.T) {
	src := " ACT 1\n JMP 9\n END\n"
	_, err := Compile(strings.NewReader(src), 0, false)
	if err == nil {
		t.Fatalf("expected an error for undefined identifier")
	}
}

func TestCompileNoVoicesActiveErrors(t *testing.T) {
	src := " CQ\n END\n"
	_, err := Compile(strings.NewReader(src), 0, false)
	if err == nil {
		t.Fatalf("expected error when no voice is active")
	}
}

func TestCompileListingEchoesSourceAndBytes(t *testing.T) {
	src := "* a comment\n\n ACT 1\n TPO 60\n END\n"
	res, err := Compile(strings.NewReader(src), 0x0200, true)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	if len(res.Listing) != 5 {
		t.Fatalf("expected 5 listing entries, got %d", len(res.Listing))
	}
	if !res.Listing[0].Comment {
		t.Fatalf("expected first entry to be a comment")
	}
	if !res.Listing[1].Blank {
		t.Fatalf("expected second entry to be blank")
	}
	if len(res.Listing[3].Bytes) != 2 {
		t.Fatalf("expected TPO line to emit 2 bytes, got %d", len(res.Listing[3].Bytes))
	}
}

func TestCompileReturnsListingEvenOnError(t *testing.T) {
	src := " ACT 1\n ESB\n END\n"
	res, err := Compile(strings.NewReader(src), 0, true)
	if err == nil {
		t.Fatalf("expected esb_without_sub error")
	}
	if res == nil {
		t.Fatalf("expected a non-nil result alongside the error")
	}
	if len(res.Listing) == 0 {
		t.Fatalf("expected a listing entry for the errored line")
	}
}

func TestCompileHangingSubErrors(t *testing.T) {
	src := " ACT 1\n SUB\n TPO 60\n END\n"
	_, err := Compile(strings.NewReader(src), 0, false)
	if err == nil {
		t.Fatalf("expected hanging SUB error")
	}
}

func TestCompileWAVFollowedByAnotherCommandOnSameLine(t *testing.T) {
	src := " ACT 1\n WAV 1,1 TPO 60\n C4Q\n END\n"
	res, err := Compile(strings.NewReader(src), 0, false)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	if res.Code[len(res.Code)-1] != 0x00 {
		t.Fatalf("expected END opcode as last byte, got 0x%02X", res.Code[len(res.Code)-1])
	}
}

func TestListingEntryRenderMatchesWriteListingLineFormat(t *testing.T) {
	entry := ListingEntry{Source: "ACT 1", Address: 0x0200, Bytes: []byte{0x90, 0x00}}
	want := "ACT 1\n0200  90 00 \n"
	if got := entry.Render(); got != want {
		t.Fatalf("render mismatch: got %q want %q", got, want)
	}

	comment := ListingEntry{Source: "* hi", Comment: true}
	if got := comment.Render(); got != "* hi\n" {
		t.Fatalf("comment render mismatch: got %q", got)
	}

	blank := ListingEntry{Blank: true}
	if got := blank.Render(); got != "\n" {
		t.Fatalf("blank render mismatch: got %q", got)
	}
}

func TestCompileSubEsbPatchesJump(t *testing.T) {
	src := " ACT 1\n SUB\n TPO 60\n ESB\n END\n"
	res, err := Compile(strings.NewReader(src), 0, false)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	target := uint16(res.Code[3]) | uint16(res.Code[4])<<8
	if int(target) != 7 {
		t.Fatalf("expected patched jump target 7, got %d", target)
	}
}
