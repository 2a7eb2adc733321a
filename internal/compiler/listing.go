package compiler

import "fmt"

// writeListingLine appends one entry to the listing, mirroring
// notcmp.c's write_listing_line: comment and blank lines are echoed
// with no trailing byte dump, other lines get the source text followed
// by their starting address and the hex bytes they produced.
func (c *Compiler) writeListingLine() {
	if !c.listingEnabled {
		return
	}

	if isCommentLine(c.line) {
		c.listing = append(c.listing, ListingEntry{Source: c.line, Comment: true})
		return
	}
	if isEmptyLine(c.line) {
		c.listing = append(c.listing, ListingEntry{Blank: true})
		return
	}

	generated := make([]byte, len(c.code)-c.lineCodeStart)
	copy(generated, c.code[c.lineCodeStart:])

	c.listing = append(c.listing, ListingEntry{
		Source:  c.line,
		Address: c.baseAddress + uint16(c.lineCodeStart),
		Bytes:   generated,
	})
}

// Render reproduces write_listing_line's output for one entry: comment
// and blank lines are echoed bare, everything else gets its address and
// generated bytes appended below the source text.
func (e ListingEntry) Render() string {
	if e.Comment {
		return e.Source + "\n"
	}
	if e.Blank {
		return "\n"
	}

	out := e.Source + "\n"
	out += fmt.Sprintf("%04X  ", e.Address)
	for _, b := range e.Bytes {
		out += fmt.Sprintf("%02X ", b)
	}
	out += "\n"
	return out
}
