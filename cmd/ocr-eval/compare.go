package main

import (
	"fmt"
	"os"
	"time"

	"github.com/baditaflorin/l"
	"github.com/spf13/cobra"

	ocraccuracy "github.com/baditaflorin/go_ocr_accuracy"
	"github.com/baditaflorin/go_ocr_accuracy/internal/report"
)

func newCompareCmd() *cobra.Command {
	var flags evalFlags

	cmd := &cobra.Command{
		Use:   "compare <gt-file> <ocr-file>",
		Short: "Compare one OCR output file against a ground truth file",
		Example: `  # Compare with defaults (threshold 1, case-insensitive)
  ocr-eval compare gt.txt tesseract_out.txt

  # Exact words only, YAML report to disk
  ocr-eval compare -t 0 -o report.yaml gt.txt tesseract_out.txt`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeCompare(cmd, flags, args[0], args[1])
		},
	}

	flags.register(cmd)
	return cmd
}

func executeCompare(cmd *cobra.Command, flags evalFlags, gtPath, ocrPath string) error {
	groundTruth, err := os.ReadFile(gtPath)
	if err != nil {
		return fmt.Errorf("failed to read ground truth: %w", err)
	}
	ocrText, err := os.ReadFile(ocrPath)
	if err != nil {
		return fmt.Errorf("failed to read OCR output: %w", err)
	}

	ev, err := newEvaluator(flags)
	if err != nil {
		return err
	}
	defer ev.Close()

	rep, err := ev.Evaluate(cmd.Context(), string(groundTruth), string(ocrText))
	if err != nil {
		return err
	}
	rep.Model = ocrPath

	if err := report.Summary(cmd.OutOrStdout(), []ocraccuracy.Report{rep}); err != nil {
		return err
	}

	return writeDocument(flags, []ocraccuracy.Report{rep})
}

// newEvaluator builds an evaluator from CLI flags, logging to stderr so
// stdout stays clean for report output.
func newEvaluator(flags evalFlags) (*ocraccuracy.Evaluator, error) {
	logger, err := l.NewStandardFactory().CreateLogger(l.Config{
		Output:     os.Stderr,
		JsonFormat: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return ocraccuracy.New(
		ocraccuracy.WithLogger(logger),
		ocraccuracy.WithThreshold(flags.threshold),
		ocraccuracy.WithCaseSensitive(flags.caseSensitive),
		ocraccuracy.WithIgnorePunctuation(!flags.keepPunctuation),
		ocraccuracy.WithPunctuation(flags.punctuation),
	)
}

// writeDocument writes the report document if an output path was given.
func writeDocument(flags evalFlags, reports []ocraccuracy.Report) error {
	if flags.outputPath == "" {
		return nil
	}

	doc := report.New(report.Config{
		Threshold:         flags.threshold,
		CaseSensitive:     flags.caseSensitive,
		IgnorePunctuation: !flags.keepPunctuation,
		Timestamp:         time.Now().UTC(),
	}, reports)

	f, err := os.Create(flags.outputPath)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	switch flags.format {
	case "yaml":
		return doc.WriteYAML(f)
	case "json":
		return doc.WriteJSON(f)
	default:
		return fmt.Errorf("unknown report format %q (want yaml or json)", flags.format)
	}
}
