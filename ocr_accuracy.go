// ocr_accuracy.go
// Package ocraccuracy evaluates OCR output quality against ground truth
// text. Texts are tokenized into normalized words, matched as multisets
// in two phases (exact matches first, then fuzzy matches within an edit
// distance threshold), and scored with word-level precision, recall, F1
// and an average character recognition rate. Per-word annotations in
// original text order support highlighting in downstream UIs.
package ocraccuracy

import (
	"context"

	"github.com/baditaflorin/go_ocr_accuracy/internal/adapters/logger"
	"github.com/baditaflorin/go_ocr_accuracy/internal/adapters/normalizer"
	"github.com/baditaflorin/go_ocr_accuracy/internal/batch"
	"github.com/baditaflorin/go_ocr_accuracy/internal/core/domain"
	"github.com/baditaflorin/go_ocr_accuracy/internal/core/evaluator"
	"github.com/baditaflorin/go_ocr_accuracy/internal/core/score"
	"github.com/baditaflorin/go_ocr_accuracy/internal/core/tokenize"
	"github.com/baditaflorin/go_ocr_accuracy/internal/core/wordmatch"
	"github.com/baditaflorin/go_ocr_accuracy/internal/ports"
	"github.com/baditaflorin/go_ocr_accuracy/internal/warmup"
	"github.com/baditaflorin/l"
)

// Re-exported domain types. The facade is the package's public surface;
// internal packages stay internal.
type (
	Side        = domain.Side
	MatchType   = domain.MatchType
	Token       = domain.Token
	Match       = domain.Match
	Alignment   = domain.Alignment
	Metrics     = domain.Metrics
	Annotation  = domain.Annotation
	ModelOutput = domain.ModelOutput
	Report      = domain.Report
	NormConfig  = domain.NormConfig
)

const (
	GroundTruth = domain.GroundTruth
	Candidate   = domain.Candidate

	Exact   = domain.Exact
	Fuzzy   = domain.Fuzzy
	GTOnly  = domain.GTOnly
	OCROnly = domain.OCROnly

	// DefaultPunctuation is the punctuation set stripped during
	// normalization unless overridden.
	DefaultPunctuation = domain.DefaultPunctuation
)

// ErrAlignmentMismatch reports an alignment that does not cover every
// token occurrence. See Annotate.
var ErrAlignmentMismatch = wordmatch.ErrAlignmentMismatch

// WordNormalizer maps a raw word to its matchable form. Returning the
// empty string drops the word from matching.
type WordNormalizer interface {
	NormalizeWord(word string) string
}

// Evaluator compares OCR outputs against ground truth texts.
type Evaluator struct {
	calculator *evaluator.Calculator
	runner     *batch.Runner
	logger     ports.Logger
}

// Option defines a functional option for configuring the evaluator.
type Option func(*config)

type config struct {
	Threshold         int
	CaseSensitive     bool
	IgnorePunctuation bool
	Punctuation       string
	Logger            ports.Logger
	Normalizer        ports.WordNormalizer
	FastNormalizer    bool
	WarmUp            bool
}

// WithThreshold sets the maximum edit distance for fuzzy word matches.
// Zero disables fuzzy matching.
func WithThreshold(th int) Option {
	return func(cfg *config) {
		cfg.Threshold = th
	}
}

// WithCaseSensitive controls whether matching distinguishes letter case.
func WithCaseSensitive(v bool) Option {
	return func(cfg *config) {
		cfg.CaseSensitive = v
	}
}

// WithIgnorePunctuation controls whether punctuation is stripped from
// words before matching.
func WithIgnorePunctuation(v bool) Option {
	return func(cfg *config) {
		cfg.IgnorePunctuation = v
	}
}

// WithPunctuation sets a custom punctuation set to strip.
func WithPunctuation(chars string) Option {
	return func(cfg *config) {
		cfg.Punctuation = chars
	}
}

// WithLogger sets a custom logger.
func WithLogger(lg l.Logger) Option {
	return func(cfg *config) {
		cfg.Logger = logger.FromExisting(lg)
	}
}

// WithNormalizer sets a custom word normalizer. It overrides the
// case and punctuation options.
func WithNormalizer(n WordNormalizer) Option {
	return func(cfg *config) {
		cfg.Normalizer = n
	}
}

// WithFastNormalizer selects the table-driven normalizer optimized for
// ASCII-heavy text.
func WithFastNormalizer() Option {
	return func(cfg *config) {
		cfg.FastNormalizer = true
	}
}

// WithWarmUp pre-exercises the evaluation pipeline at construction time
// to reduce first-request latency.
func WithWarmUp() Option {
	return func(cfg *config) {
		cfg.WarmUp = true
	}
}

// New creates a new Evaluator with the provided functional options.
func New(opts ...Option) (*Evaluator, error) {
	defaults := evaluator.DefaultConfig()

	cfg := &config{
		Threshold:         defaults.Threshold,
		CaseSensitive:     defaults.Norm.CaseSensitive,
		IgnorePunctuation: defaults.Norm.IgnorePunctuation,
		Punctuation:       defaults.Norm.Punctuation,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.Logger == nil {
		lg, err := createDefaultLogger()
		if err != nil {
			return nil, err
		}
		cfg.Logger = logger.FromExisting(lg)
	}

	normCfg := domain.NormConfig{
		CaseSensitive:     cfg.CaseSensitive,
		IgnorePunctuation: cfg.IgnorePunctuation,
		Punctuation:       cfg.Punctuation,
	}
	if cfg.Normalizer == nil {
		if cfg.FastNormalizer {
			cfg.Normalizer = normalizer.NewFast(normCfg)
		} else {
			cfg.Normalizer = normalizer.NewDefault(normCfg)
		}
	}

	coreConfig := evaluator.Config{
		Threshold: cfg.Threshold,
		Norm:      normCfg,
	}
	calculator, err := evaluator.NewCalculator(coreConfig, cfg.Logger, cfg.Normalizer)
	if err != nil {
		return nil, err
	}

	ev := &Evaluator{
		calculator: calculator,
		runner:     batch.NewRunner(calculator, cfg.Logger),
		logger:     cfg.Logger,
	}

	if cfg.WarmUp {
		wm := warmup.NewManager(cfg.Logger, warmup.DefaultConfig())
		wm.RegisterNormalizer(cfg.Normalizer)
		wm.RegisterEvaluator(calculator)
		wm.WarmUp(context.Background())
	}

	return ev, nil
}

// Evaluate compares an OCR output against its ground truth text.
func (e *Evaluator) Evaluate(ctx context.Context, groundTruth, ocrText string) (Report, error) {
	return e.calculator.Evaluate(ctx, groundTruth, ocrText)
}

// EvaluateBatch compares several model outputs against one ground
// truth. The ground truth is tokenized once; models run concurrently
// and results come back in input order, failures carried per report.
func (e *Evaluator) EvaluateBatch(ctx context.Context, groundTruth string, models []ModelOutput) []Report {
	return e.runner.Run(ctx, groundTruth, models)
}

// Close releases the evaluator's logger resources.
func (e *Evaluator) Close() error {
	return e.logger.Close()
}

// Preprocess tokenizes a text into matchable words and their source
// tokens using the given normalization settings.
func Preprocess(text string, cfg NormConfig) (words []string, tokens []Token) {
	return tokenize.Preprocess(text, normalizer.NewDefault(cfg))
}

// MatchWords aligns two normalized word multisets. Exact matches are
// paired first by descending ground truth frequency, then fuzzy pairs
// within the edit distance threshold, smallest distance first.
func MatchWords(gtWords, ocrWords []string, threshold int) Alignment {
	return wordmatch.Match(gtWords, ocrWords, threshold)
}

// ComputeMetrics derives aggregate accuracy metrics from an alignment.
func ComputeMetrics(alignment Alignment) Metrics {
	return score.Compute(alignment)
}

// Annotate projects an alignment back onto one side's tokens in their
// original text order. It returns ErrAlignmentMismatch if the alignment
// does not account for every token occurrence.
func Annotate(tokens []Token, alignment Alignment, side Side) ([]Annotation, error) {
	return wordmatch.Annotate(tokens, alignment, side)
}
