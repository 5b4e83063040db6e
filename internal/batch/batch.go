// Package batch evaluates several model outputs against one ground
// truth concurrently.
package batch

import (
	"context"
	"sync"

	"github.com/baditaflorin/go_ocr_accuracy/internal/core/domain"
	"github.com/baditaflorin/go_ocr_accuracy/internal/core/evaluator"
	"github.com/baditaflorin/go_ocr_accuracy/internal/ports"
)

// Runner fans a single ground truth out over multiple model outputs.
type Runner struct {
	calc   *evaluator.Calculator
	logger ports.Logger
}

// NewRunner creates a new batch runner.
func NewRunner(calc *evaluator.Calculator, logger ports.Logger) *Runner {
	return &Runner{calc: calc, logger: logger}
}

// Run evaluates every model output against the ground truth. The ground
// truth is tokenized once and shared across models. Results come back
// in input order; a failed evaluation carries its message in Err
// instead of aborting the rest of the batch.
func (r *Runner) Run(ctx context.Context, groundTruth string, models []domain.ModelOutput) []domain.Report {
	gtWords, gtTokens := r.calc.Preprocess(groundTruth)

	r.logger.Info("Starting batch evaluation",
		"models", len(models),
		"gt_words", len(gtWords),
	)

	results := make([]domain.Report, len(models))

	var wg sync.WaitGroup
	for i, model := range models {
		wg.Add(1)
		go func(i int, model domain.ModelOutput) {
			defer wg.Done()

			report, err := r.calc.EvaluatePreprocessed(ctx, gtWords, gtTokens, model.Name, model.Text)
			if err != nil {
				r.logger.Error("Model evaluation failed", "model", model.Name, "error", err)
				results[i] = domain.Report{Model: model.Name, Err: err.Error()}
				return
			}
			results[i] = report
		}(i, model)
	}
	wg.Wait()

	r.logger.Info("Batch evaluation completed", "models", len(models))
	return results
}
