package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	ocraccuracy "github.com/baditaflorin/go_ocr_accuracy"
	"github.com/baditaflorin/go_ocr_accuracy/internal/report"
	"github.com/baditaflorin/go_ocr_accuracy/internal/upload"
)

func newBatchCmd() *cobra.Command {
	var flags evalFlags

	cmd := &cobra.Command{
		Use:   "batch <dir>",
		Short: "Compare every model output in a directory against gt.txt",
		Long: `batch scans a directory for gt.txt and model output files named
<model_name>_out.txt, evaluates every model against the ground truth
and prints a comparison table.`,
		Example: `  # Evaluate all models in ./outputs
  ocr-eval batch outputs/

  # JSON report with a custom fuzzy threshold
  ocr-eval batch -t 2 --format json -o report.json outputs/`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeBatch(cmd, flags, args[0])
		},
	}

	flags.register(cmd)
	return cmd
}

func executeBatch(cmd *cobra.Command, flags evalFlags, dir string) error {
	groundTruth, models, err := loadBatchDir(dir)
	if err != nil {
		return err
	}

	ev, err := newEvaluator(flags)
	if err != nil {
		return err
	}
	defer ev.Close()

	reports := ev.EvaluateBatch(cmd.Context(), groundTruth, models)

	if err := report.Summary(cmd.OutOrStdout(), reports); err != nil {
		return err
	}

	return writeDocument(flags, reports)
}

// loadBatchDir reads gt.txt and every <model>_out.txt from dir. Models
// come back sorted by name so runs are deterministic.
func loadBatchDir(dir string) (string, []ocraccuracy.ModelOutput, error) {
	gtPath := filepath.Join(dir, "gt.txt")
	groundTruth, err := os.ReadFile(gtPath)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read ground truth %s: %w", gtPath, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var models []ocraccuracy.ModelOutput
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, "_out.txt") {
			continue
		}
		text, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return "", nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		models = append(models, ocraccuracy.ModelOutput{
			Name: upload.ExtractModelName(name),
			Text: string(text),
		})
	}
	if len(models) == 0 {
		return "", nil, fmt.Errorf("no model output files found in %s (must be named '<model_name>_out.txt')", dir)
	}

	sort.Slice(models, func(i, j int) bool { return models[i].Name < models[j].Name })

	return string(groundTruth), models, nil
}
