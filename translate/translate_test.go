package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrom(t *testing.T) {
	assert := assert.New(t)

	SetLanguage("en-US")
	assert.Equal("line 3 bad", From("line %d %v", 3, "bad"))

	SetLanguage("not a language")
	assert.Equal("0x10", From("%#x", 16))
}
