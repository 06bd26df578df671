// Package filter implements the cluster quality rules: quotes and
// roots must be long enough, in the right language, and short-lived
// enough to be a meme rather than a fixture of the corpus.
package filter

import (
	"fmt"

	"github.com/quotelab/memeframe/internal/logging"
	"github.com/quotelab/memeframe/internal/memetracker"
)

// Tokenizer splits text into word tokens.
type Tokenizer interface {
	Tokenize(text string) ([]string, error)
}

// Detector reports the lowercase ISO 639-1 code of the language a
// text is written in, or "" when it cannot tell.
type Detector interface {
	Detect(text string) (string, error)
}

// Options controls the filtering rules.
type Options struct {
	MinTokens int     // minimum token count for roots and quotes
	MaxDays   float64 // maximum timeline span, in days
	Language  string  // required ISO 639-1 language code
}

// DefaultOptions returns the standard rule set: at least five tokens,
// at most eighty days of span, English only.
func DefaultOptions() Options {
	return Options{MinTokens: 5, MaxDays: 80, Language: "en"}
}

// Filter applies the quality rules to clusters.
type Filter struct {
	opts Options
	tok  Tokenizer
	det  Detector
}

// New returns a filter using the given tokenizer and detector.
func New(tok Tokenizer, det Detector, opts Options) *Filter {
	return &Filter{opts: opts, tok: tok, det: det}
}

// Cluster applies the rules to cl. The root is checked first: a root
// that is too short or in the wrong language rejects the whole cluster
// without examining its quotes. Quotes failing a rule are dropped; the
// survivors are shared, not copied, into a new cluster. A cluster with
// no survivors, or whose merged timeline spans too many days, is
// rejected. A rejected cluster yields (nil, nil); the input is never
// modified.
func (f *Filter) Cluster(cl *memetracker.Cluster) (*memetracker.Cluster, error) {
	reason, err := f.checkRoot(cl)
	if err != nil {
		return nil, err
	}
	if reason != "" {
		logging.Debug("cluster root rejected", "cluster", cl.ID, "reason", reason)
		return nil, nil
	}

	kept := memetracker.NewCluster(cl.ID, cl.Root)
	for _, q := range cl.Quotes {
		reason, err := f.checkQuote(q)
		if err != nil {
			return nil, err
		}
		if reason != "" {
			logging.Debug("quote dropped", "cluster", cl.ID, "quote", q.ID, "reason", reason)
			continue
		}
		kept.AddQuote(q)
	}
	if len(kept.Quotes) == 0 {
		logging.Debug("cluster rejected", "cluster", cl.ID, "reason", "no quotes survived")
		return nil, nil
	}

	attrs, err := kept.MergedTimeline().Attrs()
	if err != nil {
		return nil, fmt.Errorf("merged timeline of cluster %d: %w", cl.ID, err)
	}
	if attrs.SpanDays > f.opts.MaxDays {
		logging.Debug("cluster rejected", "cluster", cl.ID, "reason", "merged span too long")
		return nil, nil
	}

	kept.RecountAggregates()
	return kept, nil
}

// checkRoot returns a non-empty rejection reason when the cluster root
// fails a rule.
func (f *Filter) checkRoot(cl *memetracker.Cluster) (string, error) {
	tokens, err := f.tok.Tokenize(cl.Root)
	if err != nil {
		return "", fmt.Errorf("tokenize root of cluster %d: %w", cl.ID, err)
	}
	if len(tokens) < f.opts.MinTokens {
		return "too few tokens", nil
	}
	lang, err := f.det.Detect(cl.Root)
	if err != nil {
		return "", fmt.Errorf("detect language of cluster %d root: %w", cl.ID, err)
	}
	if lang != f.opts.Language {
		return "wrong language", nil
	}
	return "", nil
}

// checkQuote returns a non-empty rejection reason when the quote fails
// a rule. Checks run cheapest first; language detection comes last.
func (f *Filter) checkQuote(q *memetracker.Quote) (string, error) {
	if q.Timeline().Len() == 0 {
		return "no occurrences", nil
	}
	tokens, err := f.tok.Tokenize(q.Text)
	if err != nil {
		return "", fmt.Errorf("tokenize quote %d: %w", q.ID, err)
	}
	if len(tokens) < f.opts.MinTokens {
		return "too few tokens", nil
	}
	attrs, err := q.Attrs()
	if err != nil {
		return "", fmt.Errorf("attrs of quote %d: %w", q.ID, err)
	}
	if attrs.SpanDays > f.opts.MaxDays {
		return "span too long", nil
	}
	lang, err := f.det.Detect(q.Text)
	if err != nil {
		return "", fmt.Errorf("detect language of quote %d: %w", q.ID, err)
	}
	if lang != f.opts.Language {
		return "wrong language", nil
	}
	return "", nil
}
