// Package lang provides the production tokenizer and language
// detector backing the filtering rules.
package lang

import (
	"fmt"

	prose "github.com/jdkato/prose/v2"

	"github.com/quotelab/memeframe/internal/filter"
)

// ProseTokenizer splits text into Penn Treebank style tokens, so
// punctuation counts as tokens. The zero value is ready to use.
type ProseTokenizer struct{}

var _ filter.Tokenizer = ProseTokenizer{}

// Tokenize returns the word and punctuation tokens of text.
func (ProseTokenizer) Tokenize(text string) ([]string, error) {
	doc, err := prose.NewDocument(text,
		prose.WithTagging(false),
		prose.WithExtraction(false),
		prose.WithSegmentation(false))
	if err != nil {
		return nil, fmt.Errorf("tokenize: %w", err)
	}
	toks := doc.Tokens()
	out := make([]string, len(toks))
	for i, tok := range toks {
		out[i] = tok.Text
	}
	return out, nil
}
