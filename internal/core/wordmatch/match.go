// Package wordmatch aligns ground-truth words with OCR words as multisets.
// Matching runs in three phases: exact pairs first (highest ground-truth
// frequency first), then greedy fuzzy pairs within an edit-distance
// threshold, then leftovers on each side. Duplicate occurrences of a word
// are tracked individually throughout.
package wordmatch

import (
	"sort"

	"github.com/baditaflorin/go_ocr_accuracy/internal/core/domain"
	"github.com/baditaflorin/go_ocr_accuracy/internal/core/editdist"
)

// Match aligns gtWords with ocrWords. threshold is the maximum edit
// distance for a fuzzy pair; 0 disables fuzzy matching entirely. The result
// covers every occurrence on both sides exactly once.
func Match(gtWords, ocrWords []string, threshold int) domain.Alignment {
	alignment := make(domain.Alignment, 0, len(gtWords)+len(ocrWords))

	gtCounts, gtOrder := countWords(gtWords)
	ocrCounts, ocrOrder := countWords(ocrWords)

	// Phase 1: exact matches. Processing distinct ground-truth words by
	// descending frequency (ties keep encounter order) exhausts identical
	// pairs before fuzzy matching can claim either side.
	matched := make(map[string]int, len(gtOrder))
	byFreq := make([]string, len(gtOrder))
	copy(byFreq, gtOrder)
	sort.SliceStable(byFreq, func(i, j int) bool {
		return gtCounts[byFreq[i]] > gtCounts[byFreq[j]]
	})
	for _, word := range byFreq {
		ocrCount, ok := ocrCounts[word]
		if !ok {
			continue
		}
		n := gtCounts[word]
		if ocrCount < n {
			n = ocrCount
		}
		for i := 0; i < n; i++ {
			alignment = append(alignment, domain.Match{GT: word, OCR: word, Type: domain.Exact})
		}
		matched[word] = n
	}

	// Residual instance lists, distinct words in first-encounter order with
	// duplicates adjacent. This fixes the phase-2 scan order explicitly:
	// ground-truth list outer, OCR list inner.
	gtRemaining := residual(gtOrder, gtCounts, matched)
	ocrRemaining := residual(ocrOrder, ocrCounts, matched)

	// Phase 2: greedy fuzzy matching. Every round re-scans the remaining
	// cross product and resolves the globally best pair; with equal
	// distances the first pair in scan order wins. Distances are memoized
	// per word pair, which cannot change the selection.
	if threshold > 0 {
		memo := make(map[[2]string]int)
		distance := func(gt, ocr string) int {
			key := [2]string{gt, ocr}
			if d, ok := memo[key]; ok {
				return d
			}
			d := editdist.Distance(gt, ocr)
			memo[key] = d
			return d
		}

		for len(gtRemaining) > 0 && len(ocrRemaining) > 0 {
			bestDistance := threshold + 1
			bestGT, bestOCR := -1, -1
			for i, gtWord := range gtRemaining {
				for j, ocrWord := range ocrRemaining {
					if d := distance(gtWord, ocrWord); d < bestDistance {
						bestDistance = d
						bestGT, bestOCR = i, j
					}
				}
			}
			if bestGT < 0 {
				break
			}
			alignment = append(alignment, domain.Match{
				GT:       gtRemaining[bestGT],
				OCR:      ocrRemaining[bestOCR],
				Distance: bestDistance,
				Type:     domain.Fuzzy,
			})
			gtRemaining = append(gtRemaining[:bestGT], gtRemaining[bestGT+1:]...)
			ocrRemaining = append(ocrRemaining[:bestOCR], ocrRemaining[bestOCR+1:]...)
		}
	}

	// Phase 3: leftovers.
	for _, word := range gtRemaining {
		alignment = append(alignment, domain.Match{GT: word, Type: domain.GTOnly})
	}
	for _, word := range ocrRemaining {
		alignment = append(alignment, domain.Match{OCR: word, Type: domain.OCROnly})
	}

	return alignment
}

// countWords returns per-word occurrence counts and the distinct words in
// first-encounter order.
func countWords(words []string) (map[string]int, []string) {
	counts := make(map[string]int, len(words))
	order := make([]string, 0, len(words))
	for _, w := range words {
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}
	return counts, order
}

// residual expands the unconsumed occurrences of each word into a flat
// instance list.
func residual(order []string, counts, matched map[string]int) []string {
	var out []string
	for _, w := range order {
		for i := matched[w]; i < counts[w]; i++ {
			out = append(out, w)
		}
	}
	return out
}
