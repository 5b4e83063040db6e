package batch

import (
	"context"
	"testing"

	"github.com/baditaflorin/go_ocr_accuracy/internal/adapters/normalizer"
	"github.com/baditaflorin/go_ocr_accuracy/internal/core/domain"
	"github.com/baditaflorin/go_ocr_accuracy/internal/core/evaluator"
)

type nopLogger struct{}

func (nopLogger) Debug(msg string, keysAndValues ...interface{}) {}
func (nopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Warn(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Error(msg string, keysAndValues ...interface{}) {}
func (nopLogger) Close() error                                   { return nil }

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	cfg := evaluator.DefaultConfig()
	calc, err := evaluator.NewCalculator(cfg, nopLogger{}, normalizer.NewDefault(cfg.Norm))
	if err != nil {
		t.Fatalf("NewCalculator: %v", err)
	}
	return NewRunner(calc, nopLogger{})
}

func TestRunKeepsInputOrder(t *testing.T) {
	runner := newTestRunner(t)

	models := []domain.ModelOutput{
		{Name: "perfect", Text: "the quick brown fox"},
		{Name: "typo", Text: "the quik brown fox"},
		{Name: "empty", Text: ""},
	}
	results := runner.Run(context.Background(), "the quick brown fox", models)

	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	for i, model := range models {
		if results[i].Model != model.Name {
			t.Errorf("result %d model = %q, want %q", i, results[i].Model, model.Name)
		}
	}

	if m := results[0].Metrics; m.Precision != 1 || m.Recall != 1 {
		t.Errorf("perfect model metrics = %+v", m)
	}
	if m := results[1].Metrics; m.ExactMatches != 3 || m.FuzzyMatches != 1 {
		t.Errorf("typo model metrics = %+v", m)
	}
	if m := results[2].Metrics; m.Recall != 0 || m.UnmatchedGT != 4 {
		t.Errorf("empty model metrics = %+v", m)
	}
}

func TestRunNoModels(t *testing.T) {
	runner := newTestRunner(t)
	results := runner.Run(context.Background(), "ground truth", nil)
	if len(results) != 0 {
		t.Errorf("got %d results, want 0", len(results))
	}
}

func TestRunCancelledContextReportsPerModelErrors(t *testing.T) {
	runner := newTestRunner(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := runner.Run(ctx, "hello world", []domain.ModelOutput{{Name: "m", Text: "hello world"}})
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].Err == "" {
		t.Error("expected per-model error for cancelled context")
	}
	if results[0].Model != "m" {
		t.Errorf("model = %q, want m", results[0].Model)
	}
}
