// Package editdist provides the exact Levenshtein metric the matcher relies
// on, and the per-pair character recognition rate derived from it.
package editdist

import "github.com/agnivade/levenshtein"

// Distance returns the minimum number of single-character insertions,
// deletions, or substitutions needed to transform a into b. It is
// case-sensitive and rune-aware; normalization, if any, happens before this
// call.
func Distance(a, b string) int {
	return levenshtein.ComputeDistance(a, b)
}

// CRR returns the character recognition rate for a matched word pair,
// 1 - distance/maxLen, clamped so it is never negative. Two empty words
// score 1.
func CRR(gtWord, ocrWord string) float64 {
	maxLen := len([]rune(gtWord))
	if n := len([]rune(ocrWord)); n > maxLen {
		maxLen = n
	}
	if maxLen == 0 {
		return 1.0
	}
	crr := 1.0 - float64(Distance(gtWord, ocrWord))/float64(maxLen)
	if crr < 0 {
		return 0.0
	}
	return crr
}
