package wordmatch

import (
	"errors"
	"fmt"

	"github.com/baditaflorin/go_ocr_accuracy/internal/core/domain"
)

// ErrAlignmentMismatch reports an alignment that does not cover every token
// occurrence on the annotated side. It signals a matcher/annotator logic
// bug, never a user input problem, and callers must not degrade silently.
var ErrAlignmentMismatch = errors.New("alignment does not cover every token occurrence")

// Annotate re-expands an alignment onto one side's tokens in original
// appearance order. Each token consumes the next unconsumed outcome record
// for its normalized word, so duplicate occurrences receive their outcomes
// in the order the matcher produced them.
func Annotate(tokens []domain.Token, alignment domain.Alignment, side domain.Side) ([]domain.Annotation, error) {
	// Outcome queues per normalized word, in matcher emission order.
	queues := make(map[string][]domain.Match)
	for _, m := range alignment {
		switch side {
		case domain.GroundTruth:
			if m.Type == domain.Exact || m.Type == domain.Fuzzy || m.Type == domain.GTOnly {
				queues[m.GT] = append(queues[m.GT], m)
			}
		case domain.Candidate:
			if m.Type == domain.Exact || m.Type == domain.Fuzzy || m.Type == domain.OCROnly {
				queues[m.OCR] = append(queues[m.OCR], m)
			}
		}
	}

	annotations := make([]domain.Annotation, 0, len(tokens))
	used := make(map[string]int, len(queues))
	for _, tok := range tokens {
		queue := queues[tok.Normalized]
		idx := used[tok.Normalized]
		if idx >= len(queue) {
			return nil, fmt.Errorf("%w: occurrence %d of %q on side %s has only %d outcome records",
				ErrAlignmentMismatch, idx+1, tok.Normalized, side, len(queue))
		}
		used[tok.Normalized] = idx + 1

		m := queue[idx]
		ann := domain.Annotation{Word: tok.Original, Type: m.Type}
		if m.Type == domain.Exact || m.Type == domain.Fuzzy {
			if side == domain.GroundTruth {
				ann.MatchedWith = m.OCR
			} else {
				ann.MatchedWith = m.GT
			}
			ann.Distance = m.Distance
		}
		annotations = append(annotations, ann)
	}

	return annotations, nil
}
