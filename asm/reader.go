package asm

import (
	"fmt"
	"regexp"
	"strings"
)

// EXCERPT_MAX is the longest source excerpt rendered in an error.
const EXCERPT_MAX = 32

// Position is a location in the source text.
type Position struct {
	Line   int // Line number, 1 based.
	Col    int // Column in bytes, 1 based.
	Offset int // Byte offset from the start of the source.
}

func (pos Position) String() string {
	return fmt.Sprintf("%d:%d", pos.Line, pos.Col)
}

// Reader is a cursor over assembler source. Reads never cross a line
// boundary; NextLine moves the cursor to the following line.
type Reader struct {
	source string
	pos    Position
}

// NewReader returns a reader positioned at the start of source.
func NewReader(source string) *Reader {
	return &Reader{
		source: source,
		pos:    Position{Line: 1, Col: 1},
	}
}

// Snapshot returns the current position.
func (rd *Reader) Snapshot() Position {
	return rd.pos
}

// Restore moves the cursor back to a snapshot.
func (rd *Reader) Restore(pos Position) {
	rd.pos = pos
}

// EOF returns true once all source has been read.
func (rd *Reader) EOF() bool {
	return rd.pos.Offset >= len(rd.source)
}

// rest returns the unread text of the current line.
func (rd *Reader) rest() string {
	text := rd.source[rd.pos.Offset:]
	if n := strings.IndexByte(text, '\n'); n >= 0 {
		text = text[:n]
	}
	return strings.TrimSuffix(text, "\r")
}

func (rd *Reader) advance(n int) {
	rd.pos.Col += n
	rd.pos.Offset += n
}

// Peek returns true if the unread text starts with lit.
func (rd *Reader) Peek(lit string) bool {
	return strings.HasPrefix(rd.rest(), lit)
}

// PeekPattern returns the text matched by re at the cursor.
func (rd *Reader) PeekPattern(re *regexp.Regexp) (match []string, ok bool) {
	text := rd.rest()
	loc := re.FindStringSubmatchIndex(text)
	if loc == nil || loc[0] != 0 {
		return
	}

	match = make([]string, len(loc)/2)
	for n := range match {
		if loc[2*n] >= 0 {
			match[n] = text[loc[2*n]:loc[2*n+1]]
		}
	}
	ok = true

	return
}

// Consume advances past lit, if the unread text starts with it.
func (rd *Reader) Consume(lit string) bool {
	if !rd.Peek(lit) {
		return false
	}
	rd.advance(len(lit))
	return true
}

// ConsumePattern advances past the text matched by re at the cursor. The
// first element of match is the whole match, followed by the submatches.
func (rd *Reader) ConsumePattern(re *regexp.Regexp) (match []string, ok bool) {
	match, ok = rd.PeekPattern(re)
	if ok {
		rd.advance(len(match[0]))
	}
	return
}

// SkipSpace advances past blanks on the current line.
func (rd *Reader) SkipSpace() {
	text := rd.rest()
	rd.advance(len(text) - len(strings.TrimLeft(text, " \t")))
}

// AtEnd returns true if nothing is left on the current line.
func (rd *Reader) AtEnd() bool {
	return len(rd.rest()) == 0
}

// NextLine moves to the start of the next line. It returns false at the end
// of the source.
func (rd *Reader) NextLine() bool {
	n := strings.IndexByte(rd.source[rd.pos.Offset:], '\n')
	if n < 0 {
		rd.pos.Col += len(rd.source) - rd.pos.Offset
		rd.pos.Offset = len(rd.source)
		return false
	}

	rd.pos = Position{
		Line:   rd.pos.Line + 1,
		Col:    1,
		Offset: rd.pos.Offset + n + 1,
	}

	return true
}

// Line returns the full text of the line holding pos.
func (rd *Reader) Line(pos Position) string {
	start := pos.Offset - (pos.Col - 1)
	text := rd.source[start:]
	if n := strings.IndexByte(text, '\n'); n >= 0 {
		text = text[:n]
	}
	return strings.TrimSuffix(text, "\r")
}

// Excerpt renders the line holding pos up to the end of the word at pos,
// marking the failing point.
func (rd *Reader) Excerpt(pos Position) string {
	start := pos.Offset - (pos.Col - 1)
	end := pos.Offset
	for end < len(rd.source) && !strings.ContainsRune(" \t\r\n", rune(rd.source[end])) {
		end++
	}

	text := strings.TrimLeft(rd.source[start:end], " \t")
	if len(text) > EXCERPT_MAX {
		text = text[len(text)-EXCERPT_MAX:]
	}

	return "..." + text + "<--[HERE]"
}
