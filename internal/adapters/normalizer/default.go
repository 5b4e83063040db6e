package normalizer

import (
	"strings"

	"github.com/baditaflorin/go_ocr_accuracy/internal/core/domain"
	"github.com/baditaflorin/go_ocr_accuracy/internal/ports"
)

// DefaultNormalizer implements the straightforward word normalization
// strategy: strip configured punctuation, then lowercase.
type DefaultNormalizer struct {
	cfg domain.NormConfig
}

// NewDefault creates a new default normalizer.
func NewDefault(cfg domain.NormConfig) ports.WordNormalizer {
	return &DefaultNormalizer{cfg: cfg}
}

// NormalizeWord returns the matchable form of a single word. A word
// consisting only of punctuation normalizes to the empty string.
func (n *DefaultNormalizer) NormalizeWord(word string) string {
	if n.cfg.IgnorePunctuation {
		word = strings.Map(func(r rune) rune {
			if strings.ContainsRune(n.cfg.Punctuation, r) {
				return -1
			}
			return r
		}, word)
	}
	if !n.cfg.CaseSensitive {
		word = strings.ToLower(word)
	}
	return word
}
