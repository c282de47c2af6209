package asm

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReader(t *testing.T) {
	assert := assert.New(t)

	rd := NewReader("LDC 12 ; twelve\r\n  next:\n")
	assert.False(rd.EOF())
	assert.Equal(Position{Line: 1, Col: 1}, rd.Snapshot())

	assert.True(rd.Peek("LDC"))
	assert.False(rd.Peek("LDV"))
	assert.Equal(Position{Line: 1, Col: 1}, rd.Snapshot())

	start := rd.Snapshot()
	assert.True(rd.Consume("LDC"))
	rd.SkipSpace()
	assert.Equal(Position{Line: 1, Col: 5, Offset: 4}, rd.Snapshot())

	match, ok := rd.ConsumePattern(reNumber)
	assert.True(ok)
	assert.Equal("12", match[0])

	rd.Restore(start)
	assert.True(rd.Peek("LDC 12"))

	_, ok = rd.PeekPattern(regexp.MustCompile(`twelve`))
	assert.False(ok, "patterns only match at the cursor")

	assert.Equal("LDC 12 ; twelve", rd.Line(rd.Snapshot()))

	assert.True(rd.NextLine())
	assert.Equal(Position{Line: 2, Col: 1, Offset: 17}, rd.Snapshot())
	rd.SkipSpace()
	match, ok = rd.ConsumePattern(reLabel)
	assert.True(ok)
	assert.Equal([]string{"next:", "next"}, match)
	assert.True(rd.AtEnd())

	assert.True(rd.NextLine())
	assert.True(rd.EOF())
	assert.True(rd.AtEnd())
	assert.False(rd.NextLine())
}

func TestReader_Excerpt(t *testing.T) {
	assert := assert.New(t)

	rd := NewReader("ok\n   LDC 12x more\n")
	rd.NextLine()
	rd.SkipSpace()
	rd.Consume("LDC ")

	assert.Equal("...LDC 12x<--[HERE]", rd.Excerpt(rd.Snapshot()))

	rd = NewReader("LDC $(0123456789012345678901234567890123456789)")
	rd.Consume("LDC ")
	excerpt := rd.Excerpt(rd.Snapshot())
	assert.Equal("...9012345678901234567890123456789)<--[HERE]", excerpt)
}
