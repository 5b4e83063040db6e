package domain

// Side selects which half of an alignment an operation refers to.
type Side int

const (
	// GroundTruth is the reference text the OCR output is scored against.
	GroundTruth Side = iota
	// Candidate is the OCR output being scored.
	Candidate
)

func (s Side) String() string {
	if s == GroundTruth {
		return "ground_truth"
	}
	return "candidate"
}

// MatchType classifies the outcome of a single word occurrence.
type MatchType int

const (
	// Exact marks a pairing of identical normalized words.
	Exact MatchType = iota
	// Fuzzy marks a pairing within the configured edit-distance threshold.
	Fuzzy
	// GTOnly marks a ground-truth word with no counterpart in the OCR output.
	GTOnly
	// OCROnly marks an OCR word with no counterpart in the ground truth.
	OCROnly
)

func (t MatchType) String() string {
	switch t {
	case Exact:
		return "exact"
	case Fuzzy:
		return "fuzzy"
	case GTOnly:
		return "gt_only"
	case OCROnly:
		return "ocr_only"
	default:
		return "unknown"
	}
}

// Token is one retained word occurrence produced by tokenization. It links
// the normalized matching form back to the exact surface form and its index
// in the post-filter normalized sequence. Tokens are never mutated.
type Token struct {
	Normalized string
	Original   string
	Position   int
}

// Match is a single record of an alignment. GT and OCR hold normalized
// words; GT is empty for OCROnly records and OCR is empty for GTOnly
// records. Distance is meaningful for Exact (always 0) and Fuzzy records.
type Match struct {
	GT       string
	OCR      string
	Distance int
	Type     MatchType
}

// Alignment is the multiset of match records produced for one
// (ground truth, candidate) pair. Every word occurrence on either side
// appears in exactly one record.
type Alignment []Match

// Metrics is derived from an Alignment and never mutated independently.
// Precision and recall count exact matches only; AvgCRR averages the
// character recognition rate over exact and fuzzy pairs.
type Metrics struct {
	Precision float64
	Recall    float64
	F1        float64
	AvgCRR    float64

	ExactMatches  int
	FuzzyMatches  int
	TotalGTWords  int
	TotalOCRWords int
	UnmatchedGT   int
	UnmatchedOCR  int
}

// Annotation carries the match outcome for one surface word occurrence, in
// original appearance order. MatchedWith and Distance are meaningful only
// for Exact and Fuzzy annotations.
type Annotation struct {
	Word        string
	Type        MatchType
	MatchedWith string
	Distance    int
}

// DefaultPunctuation is the standard ASCII punctuation set stripped when
// punctuation is ignored.
const DefaultPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// NormConfig controls tokenization and normalization. It is supplied per
// invocation; there is no ambient configuration state.
type NormConfig struct {
	CaseSensitive     bool
	IgnorePunctuation bool
	Punctuation       string
}

// DefaultNormConfig returns the documented defaults: case-insensitive,
// punctuation ignored, ASCII punctuation set.
func DefaultNormConfig() NormConfig {
	return NormConfig{
		CaseSensitive:     false,
		IgnorePunctuation: true,
		Punctuation:       DefaultPunctuation,
	}
}

// ModelOutput names one OCR engine's raw output text.
type ModelOutput struct {
	Name string
	Text string
}

// Report is the complete outcome of evaluating one candidate text against a
// ground truth. Err is set when the evaluation itself failed; sibling
// evaluations in a batch are unaffected.
type Report struct {
	Model          string
	Metrics        Metrics
	Matches        Alignment
	GTAnnotations  []Annotation
	OCRAnnotations []Annotation
	Err            string
}
