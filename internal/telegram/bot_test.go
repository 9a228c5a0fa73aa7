package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseArguments(t *testing.T) {
	first, rest := ParseArguments("BTC >= 100000")
	assert.Equal(t, "BTC", first)
	assert.Equal(t, ">= 100000", rest)

	first, rest = ParseArguments("BTC")
	assert.Equal(t, "BTC", first)
	assert.Equal(t, "", rest)

	first, rest = ParseArguments("")
	assert.Equal(t, "", first)
	assert.Equal(t, "", rest)
}
