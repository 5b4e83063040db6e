// Package score turns a word alignment into aggregate accuracy metrics.
package score

import (
	"github.com/baditaflorin/go_ocr_accuracy/internal/core/domain"
	"github.com/baditaflorin/go_ocr_accuracy/internal/core/editdist"
)

// Compute derives precision, recall, F1 and the average character
// recognition rate from an alignment. Precision and recall count exact
// matches only; the CRR average runs over exact and fuzzy pairs.
func Compute(alignment domain.Alignment) domain.Metrics {
	var m domain.Metrics
	var crrSum float64

	for _, match := range alignment {
		switch match.Type {
		case domain.Exact:
			m.ExactMatches++
			// Identical strings, CRR is 1 by definition.
			crrSum++
		case domain.Fuzzy:
			m.FuzzyMatches++
			crrSum += editdist.CRR(match.GT, match.OCR)
		case domain.GTOnly:
			m.UnmatchedGT++
		case domain.OCROnly:
			m.UnmatchedOCR++
		}
	}

	m.TotalGTWords = m.ExactMatches + m.FuzzyMatches + m.UnmatchedGT
	m.TotalOCRWords = m.ExactMatches + m.FuzzyMatches + m.UnmatchedOCR

	if m.TotalOCRWords > 0 {
		m.Precision = float64(m.ExactMatches) / float64(m.TotalOCRWords)
	}
	if m.TotalGTWords > 0 {
		m.Recall = float64(m.ExactMatches) / float64(m.TotalGTWords)
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}
	if matched := m.ExactMatches + m.FuzzyMatches; matched > 0 {
		m.AvgCRR = crrSum / float64(matched)
	}

	return m
}
