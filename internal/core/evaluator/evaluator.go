// Package evaluator wires tokenization, word matching, scoring and
// annotation into a single OCR accuracy evaluation pipeline.
package evaluator

import (
	"context"
	"errors"
	"fmt"

	"github.com/baditaflorin/go_ocr_accuracy/internal/core/domain"
	"github.com/baditaflorin/go_ocr_accuracy/internal/core/score"
	"github.com/baditaflorin/go_ocr_accuracy/internal/core/tokenize"
	"github.com/baditaflorin/go_ocr_accuracy/internal/core/wordmatch"
	"github.com/baditaflorin/go_ocr_accuracy/internal/ports"
)

// Config holds configuration for the accuracy calculator.
type Config struct {
	// Threshold is the maximum edit distance for a fuzzy word match.
	// Zero disables fuzzy matching entirely.
	Threshold int
	Norm      domain.NormConfig
}

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{
		Threshold: 1,
		Norm:      domain.DefaultNormConfig(),
	}
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	if c.Threshold < 0 {
		return errors.New("threshold must not be negative")
	}
	return nil
}

// Calculator implements the OCR accuracy evaluation.
type Calculator struct {
	config     Config
	logger     ports.Logger
	normalizer ports.WordNormalizer
}

// NewCalculator creates a new accuracy calculator.
func NewCalculator(config Config, logger ports.Logger, normalizer ports.WordNormalizer) (*Calculator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Calculator{
		config:     config,
		logger:     logger,
		normalizer: normalizer,
	}, nil
}

// Preprocess tokenizes and normalizes a text with the calculator's
// normalizer, returning the matchable words and their source tokens.
func (c *Calculator) Preprocess(text string) ([]string, []domain.Token) {
	return tokenize.Preprocess(text, c.normalizer)
}

// Evaluate compares an OCR output against its ground truth text.
func (c *Calculator) Evaluate(ctx context.Context, groundTruth, ocrText string) (domain.Report, error) {
	gtWords, gtTokens := c.Preprocess(groundTruth)
	return c.EvaluatePreprocessed(ctx, gtWords, gtTokens, "", ocrText)
}

// EvaluatePreprocessed compares an OCR output against an already
// tokenized ground truth. Batch evaluation uses it to tokenize the
// ground truth once across models.
func (c *Calculator) EvaluatePreprocessed(ctx context.Context, gtWords []string, gtTokens []domain.Token, model, ocrText string) (domain.Report, error) {
	c.logger.Debug("Starting accuracy evaluation",
		"model", model,
		"gt_words", len(gtWords),
		"threshold", c.config.Threshold,
	)

	ocrWords, ocrTokens := c.Preprocess(ocrText)

	select {
	case <-ctx.Done():
		c.logger.Error("Evaluation cancelled", "model", model, "error", ctx.Err())
		return domain.Report{Model: model}, ctx.Err()
	default:
		// continue
	}

	alignment := wordmatch.Match(gtWords, ocrWords, c.config.Threshold)
	metrics := score.Compute(alignment)

	select {
	case <-ctx.Done():
		c.logger.Error("Evaluation cancelled", "model", model, "error", ctx.Err())
		return domain.Report{Model: model}, ctx.Err()
	default:
		// continue
	}

	gtAnns, err := wordmatch.Annotate(gtTokens, alignment, domain.GroundTruth)
	if err != nil {
		c.logger.Error("Annotation failed", "model", model, "side", domain.GroundTruth, "error", err)
		return domain.Report{Model: model}, fmt.Errorf("annotating ground truth: %w", err)
	}
	ocrAnns, err := wordmatch.Annotate(ocrTokens, alignment, domain.Candidate)
	if err != nil {
		c.logger.Error("Annotation failed", "model", model, "side", domain.Candidate, "error", err)
		return domain.Report{Model: model}, fmt.Errorf("annotating candidate: %w", err)
	}

	c.logger.Debug("Computed accuracy metrics",
		"model", model,
		"precision", metrics.Precision,
		"recall", metrics.Recall,
		"f1", metrics.F1,
		"avg_crr", metrics.AvgCRR,
	)

	return domain.Report{
		Model:          model,
		Metrics:        metrics,
		Matches:        alignment,
		GTAnnotations:  gtAnns,
		OCRAnnotations: ocrAnns,
	}, nil
}
