// Package tokenize turns raw text into the two lockstep sequences the
// matcher and annotator consume: normalized words for matching, and tokens
// linking each normalized word back to its surface form and position.
package tokenize

import (
	"strings"

	"github.com/baditaflorin/go_ocr_accuracy/internal/core/domain"
	"github.com/baditaflorin/go_ocr_accuracy/internal/ports"
)

// Preprocess splits text on runs of whitespace and normalizes each raw
// token independently with norm. A token whose normalized form is empty
// (for example, a token consisting solely of punctuation) is dropped from
// both output sequences, keeping them in lockstep. Each retained token's
// Position is its index in the post-filter normalized sequence. Empty input
// yields two empty sequences.
func Preprocess(text string, norm ports.WordNormalizer) ([]string, []domain.Token) {
	raw := strings.Fields(text)
	normalized := make([]string, 0, len(raw))
	tokens := make([]domain.Token, 0, len(raw))

	for _, word := range raw {
		n := norm.NormalizeWord(word)
		if n == "" {
			continue
		}
		normalized = append(normalized, n)
		tokens = append(tokens, domain.Token{
			Normalized: n,
			Original:   word,
			Position:   len(normalized) - 1,
		})
	}

	return normalized, tokens
}
