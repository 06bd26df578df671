package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProseTokenizer_CleanSentence(t *testing.T) {
	var tok ProseTokenizer

	tokens, err := tok.Tokenize("the quick brown fox jumps over the lazy dog")
	require.NoError(t, err)
	assert.Equal(t, []string{"the", "quick", "brown", "fox", "jumps", "over", "the", "lazy", "dog"}, tokens)
}

func TestProseTokenizer_PunctuationBecomesTokens(t *testing.T) {
	var tok ProseTokenizer

	tokens, err := tok.Tokenize("wait, what?")
	require.NoError(t, err)
	assert.Contains(t, tokens, "wait")
	assert.Contains(t, tokens, "what")
	assert.Contains(t, tokens, ",")
	assert.Contains(t, tokens, "?")
}

func TestProseTokenizer_Empty(t *testing.T) {
	var tok ProseTokenizer

	tokens, err := tok.Tokenize("")
	require.NoError(t, err)
	assert.Empty(t, tokens)
}
