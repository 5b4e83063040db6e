package warmup

import (
	"context"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/baditaflorin/go_ocr_accuracy/internal/ports"
)

// Config defines configuration for warming up the system
type Config struct {
	// Number of concurrent warmup routines to run
	Concurrency int
	// Number of iterations per routine
	Iterations int
	// Sample text size for warmup
	SampleTextSize int
	// Warmup duration (0 means no time limit)
	Duration time.Duration
	// Whether to perform GC after warmup
	ForceGC bool
}

// DefaultConfig returns the default warmup configuration
func DefaultConfig() Config {
	return Config{
		Concurrency:    runtime.NumCPU(),
		Iterations:     200,
		SampleTextSize: 1000,
		Duration:       5 * time.Second,
		ForceGC:        true,
	}
}

// Manager handles system warmup operations
type Manager struct {
	logger      ports.Logger
	evaluators  []ports.Evaluator
	normalizers []ports.WordNormalizer
	config      Config
}

// NewManager creates a new warmup manager
func NewManager(logger ports.Logger, config Config) *Manager {
	return &Manager{
		logger: logger,
		config: config,
	}
}

// RegisterEvaluator adds an evaluator to be warmed up
func (wm *Manager) RegisterEvaluator(eval ports.Evaluator) {
	wm.evaluators = append(wm.evaluators, eval)
}

// RegisterNormalizer adds a normalizer to be warmed up
func (wm *Manager) RegisterNormalizer(norm ports.WordNormalizer) {
	wm.normalizers = append(wm.normalizers, norm)
}

// WarmUp runs the warmup process for all registered components
func (wm *Manager) WarmUp(ctx context.Context) {
	startTime := time.Now()
	wm.logger.Info("Starting system warmup",
		"components", len(wm.evaluators)+len(wm.normalizers),
		"concurrency", wm.config.Concurrency,
		"iterations", wm.config.Iterations,
	)

	var warmupCtx context.Context
	var cancel context.CancelFunc
	if wm.config.Duration > 0 {
		warmupCtx, cancel = context.WithTimeout(ctx, wm.config.Duration)
		defer cancel()
	} else {
		warmupCtx = ctx
	}

	wm.warmUpNormalizers(warmupCtx)
	wm.warmUpEvaluators(warmupCtx)

	if wm.config.ForceGC {
		wm.logger.Debug("Forcing garbage collection after warmup")
		runtime.GC()
	}

	wm.logger.Info("System warmup completed",
		"duration", time.Since(startTime),
	)
}

func (wm *Manager) warmUpNormalizers(ctx context.Context) {
	if len(wm.normalizers) == 0 {
		return
	}

	wm.logger.Debug("Warming up normalizers", "count", len(wm.normalizers))

	sampleWords := strings.Fields(generateSampleText(wm.config.SampleTextSize))

	var wg sync.WaitGroup
	for i := 0; i < wm.config.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for j := 0; j < wm.config.Iterations; j++ {
				select {
				case <-ctx.Done():
					return
				default:
					// Continue
				}

				for _, normalizer := range wm.normalizers {
					for _, w := range sampleWords {
						_ = normalizer.NormalizeWord(w)
					}
				}
			}
		}()
	}

	wg.Wait()
}

func (wm *Manager) warmUpEvaluators(ctx context.Context) {
	if len(wm.evaluators) == 0 {
		return
	}

	wm.logger.Debug("Warming up evaluators", "count", len(wm.evaluators))

	// Exercise the exact, fuzzy and unmatched code paths.
	groundTruth := generateSampleText(wm.config.SampleTextSize)
	corrupted := corruptText(groundTruth, 0.2)
	truncated := corruptText(groundTruth[:len(groundTruth)/2], 0.1)

	var wg sync.WaitGroup
	for i := 0; i < wm.config.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for j := 0; j < wm.config.Iterations; j++ {
				select {
				case <-ctx.Done():
					return
				default:
					// Continue
				}

				for _, evaluator := range wm.evaluators {
					switch j % 3 {
					case 0:
						_, _ = evaluator.Evaluate(ctx, groundTruth, groundTruth)
					case 1:
						_, _ = evaluator.Evaluate(ctx, groundTruth, corrupted)
					default:
						_, _ = evaluator.Evaluate(ctx, groundTruth, truncated)
					}
				}
			}
		}()
	}

	wg.Wait()
}

// generateSampleText creates sample text of the specified size
func generateSampleText(size int) string {
	words := []string{
		"the", "quick", "brown", "fox", "jumps", "over", "lazy", "dog",
		"hello", "world", "lorem", "ipsum", "dolor", "sit", "amet", "consectetur",
		"adipiscing", "elit", "sed", "do", "eiusmod", "tempor", "incididunt",
		"ut", "labore", "et", "dolore", "magna", "aliqua",
	}

	var sb strings.Builder
	wordsNeeded := size / 5

	for i := 0; i < wordsNeeded; i++ {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(words[i%len(words)])
	}

	result := sb.String()
	if len(result) > size {
		return result[:size]
	}
	return result
}

// corruptText simulates recognition errors by mangling a share of the words
func corruptText(original string, errRatio float64) string {
	words := strings.Fields(original)
	changeCount := int(float64(len(words)) * errRatio)

	newWords := make([]string, len(words))
	copy(newWords, words)

	for i := 0; i < changeCount && i < len(newWords); i++ {
		w := newWords[i]
		switch {
		case len(w) > 2 && i%2 == 0:
			// Drop a character, a typical single-edit recognition error.
			newWords[i] = w[:1] + w[2:]
		default:
			newWords[i] = w + "x"
		}
	}

	return strings.Join(newWords, " ")
}
