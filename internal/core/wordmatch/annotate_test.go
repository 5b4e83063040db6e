package wordmatch

import (
	"errors"
	"sort"
	"testing"

	"github.com/baditaflorin/go_ocr_accuracy/internal/core/domain"
)

func tokens(words ...string) []domain.Token {
	out := make([]domain.Token, len(words))
	for i, w := range words {
		out[i] = domain.Token{Normalized: w, Original: w, Position: i}
	}
	return out
}

func TestAnnotateGroundTruthSide(t *testing.T) {
	toks := []domain.Token{
		{Normalized: "hello", Original: "Hello", Position: 0},
		{Normalized: "world", Original: "World", Position: 1},
	}
	alignment := domain.Alignment{
		{GT: "hello", OCR: "hello", Type: domain.Exact},
		{GT: "world", Type: domain.GTOnly},
	}

	anns, err := Annotate(toks, alignment, domain.GroundTruth)
	if err != nil {
		t.Fatalf("Annotate: %v", err)
	}
	if len(anns) != 2 {
		t.Fatalf("got %d annotations, want 2", len(anns))
	}
	if anns[0].Word != "Hello" || anns[0].Type != domain.Exact || anns[0].MatchedWith != "hello" {
		t.Errorf("annotation 0 = %+v", anns[0])
	}
	if anns[1].Word != "World" || anns[1].Type != domain.GTOnly || anns[1].MatchedWith != "" {
		t.Errorf("annotation 1 = %+v", anns[1])
	}
}

func TestAnnotateCandidateSide(t *testing.T) {
	toks := tokens("hello", "foo")
	alignment := domain.Alignment{
		{GT: "hello", OCR: "hello", Type: domain.Exact},
		{OCR: "foo", Type: domain.OCROnly},
	}

	anns, err := Annotate(toks, alignment, domain.Candidate)
	if err != nil {
		t.Fatalf("Annotate: %v", err)
	}
	if anns[0].Type != domain.Exact || anns[1].Type != domain.OCROnly {
		t.Errorf("types = %s, %s; want exact, ocr_only", anns[0].Type, anns[1].Type)
	}
}

func TestAnnotateFuzzyCarriesCounterpartAndDistance(t *testing.T) {
	toks := tokens("hello")
	alignment := domain.Alignment{
		{GT: "hello", OCR: "helo", Distance: 1, Type: domain.Fuzzy},
	}

	anns, err := Annotate(toks, alignment, domain.GroundTruth)
	if err != nil {
		t.Fatalf("Annotate: %v", err)
	}
	if anns[0].Type != domain.Fuzzy || anns[0].MatchedWith != "helo" || anns[0].Distance != 1 {
		t.Errorf("annotation = %+v, want fuzzy matched with helo at distance 1", anns[0])
	}
}

func TestAnnotatePreservesOriginalOrder(t *testing.T) {
	toks := []domain.Token{
		{Normalized: "one", Original: "One", Position: 0},
		{Normalized: "two", Original: "Two", Position: 1},
		{Normalized: "three", Original: "Three", Position: 2},
	}
	alignment := domain.Alignment{
		{GT: "three", OCR: "three", Type: domain.Exact},
		{GT: "one", OCR: "one", Type: domain.Exact},
		{GT: "two", Type: domain.GTOnly},
	}

	anns, err := Annotate(toks, alignment, domain.GroundTruth)
	if err != nil {
		t.Fatalf("Annotate: %v", err)
	}
	want := []string{"One", "Two", "Three"}
	for i, w := range want {
		if anns[i].Word != w {
			t.Errorf("annotation %d word = %q, want %q", i, anns[i].Word, w)
		}
	}
}

func TestAnnotateDuplicatesConsumeOutcomesInOrder(t *testing.T) {
	toks := tokens("hello", "hello")
	alignment := domain.Alignment{
		{GT: "hello", OCR: "hello", Type: domain.Exact},
		{GT: "hello", Type: domain.GTOnly},
	}

	anns, err := Annotate(toks, alignment, domain.GroundTruth)
	if err != nil {
		t.Fatalf("Annotate: %v", err)
	}
	if anns[0].Type != domain.Exact || anns[1].Type != domain.GTOnly {
		t.Errorf("types = %s, %s; want exact then gt_only", anns[0].Type, anns[1].Type)
	}
}

func TestAnnotateFailsLoudlyOnMissingOutcomes(t *testing.T) {
	// Two occurrences but only one outcome record: an internal invariant
	// violation that must surface as an error, never a reused outcome.
	toks := tokens("hello", "hello")
	alignment := domain.Alignment{
		{GT: "hello", OCR: "hello", Type: domain.Exact},
	}

	_, err := Annotate(toks, alignment, domain.GroundTruth)
	if !errors.Is(err, ErrAlignmentMismatch) {
		t.Fatalf("err = %v, want ErrAlignmentMismatch", err)
	}
}

func TestAnnotateFailsLoudlyOnUnknownWord(t *testing.T) {
	toks := tokens("stray")
	_, err := Annotate(toks, domain.Alignment{}, domain.Candidate)
	if !errors.Is(err, ErrAlignmentMismatch) {
		t.Fatalf("err = %v, want ErrAlignmentMismatch", err)
	}
}

// End-to-end regression for the duplicate-word annotation bug: every
// occurrence of a word duplicated on both sides must annotate as exact.
func TestAnnotateDuplicateRegression(t *testing.T) {
	words := []string{"hello", "customer", "world", "customer", "end"}
	alignment := Match(words, words, 0)

	for _, side := range []domain.Side{domain.GroundTruth, domain.Candidate} {
		anns, err := Annotate(tokens(words...), alignment, side)
		if err != nil {
			t.Fatalf("Annotate %s: %v", side, err)
		}
		for i, ann := range anns {
			if ann.Type != domain.Exact {
				t.Errorf("%s annotation %d (%q) = %s, want exact", side, i, ann.Word, ann.Type)
			}
			if ann.Word != words[i] {
				t.Errorf("%s annotation %d word = %q, want %q", side, i, ann.Word, words[i])
			}
		}
	}
}

func TestAnnotateDuplicateCountMismatchOutcomeMultiset(t *testing.T) {
	gt := []string{"test", "test", "test", "end"}
	ocr := []string{"test", "test", "end"}
	alignment := Match(gt, ocr, 0)

	anns, err := Annotate(tokens(gt...), alignment, domain.GroundTruth)
	if err != nil {
		t.Fatalf("Annotate: %v", err)
	}

	var testOutcomes []string
	for _, ann := range anns {
		if ann.Word == "test" {
			testOutcomes = append(testOutcomes, ann.Type.String())
		}
	}
	sort.Strings(testOutcomes)
	want := []string{"exact", "exact", "gt_only"}
	if len(testOutcomes) != len(want) {
		t.Fatalf("got %d outcomes for \"test\", want %d", len(testOutcomes), len(want))
	}
	for i := range want {
		if testOutcomes[i] != want[i] {
			t.Errorf("outcome multiset = %v, want %v", testOutcomes, want)
			break
		}
	}
}
