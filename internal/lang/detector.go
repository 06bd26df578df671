package lang

import (
	"strings"

	"github.com/pemistahl/lingua-go"

	"github.com/quotelab/memeframe/internal/filter"
)

// LinguaDetector detects the language of a text, considering every
// language lingua ships models for.
type LinguaDetector struct {
	detector lingua.LanguageDetector
}

var _ filter.Detector = (*LinguaDetector)(nil)

// NewLinguaDetector builds the detector. Language models load lazily,
// so the first detection pays the startup cost.
func NewLinguaDetector() *LinguaDetector {
	det := lingua.NewLanguageDetectorBuilder().
		FromAllLanguages().
		Build()
	return &LinguaDetector{detector: det}
}

// Detect returns the lowercase ISO 639-1 code of the most likely
// language of text, or "" when lingua cannot settle on one.
func (d *LinguaDetector) Detect(text string) (string, error) {
	language, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return "", nil
	}
	return strings.ToLower(language.IsoCode639_1().String()), nil
}
