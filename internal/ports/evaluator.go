package ports

import (
	"context"

	"github.com/baditaflorin/go_ocr_accuracy/internal/core/domain"
)

// Evaluator scores one candidate OCR text against a ground truth.
type Evaluator interface {
	Evaluate(ctx context.Context, groundTruth, ocrText string) (domain.Report, error)
}
