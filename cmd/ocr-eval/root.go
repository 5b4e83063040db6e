package main

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	ocraccuracy "github.com/baditaflorin/go_ocr_accuracy"
)

// evalFlags are the evaluation settings shared by all subcommands.
type evalFlags struct {
	threshold       int
	caseSensitive   bool
	keepPunctuation bool
	punctuation     string
	outputPath      string
	format          string
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ocr-eval",
		Short: "Evaluate OCR output accuracy against ground truth text",
		Long: `ocr-eval compares OCR model output against ground truth text and
reports word-level precision, recall, F1 and the average character
recognition rate of matched words.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	cmd.AddCommand(newCompareCmd())
	cmd.AddCommand(newBatchCmd())

	return cmd
}

func (f *evalFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.threshold, "threshold", "t", envInt("OCR_EVAL_THRESHOLD", 1),
		"maximum edit distance for fuzzy word matches (0 disables)")
	cmd.Flags().BoolVar(&f.caseSensitive, "case-sensitive", envBool("OCR_EVAL_CASE_SENSITIVE", false),
		"distinguish letter case when matching words")
	cmd.Flags().BoolVar(&f.keepPunctuation, "keep-punctuation", false,
		"keep punctuation attached to words when matching")
	cmd.Flags().StringVar(&f.punctuation, "punctuation", ocraccuracy.DefaultPunctuation,
		"punctuation characters to strip during normalization")
	cmd.Flags().StringVarP(&f.outputPath, "output", "o", "",
		"write a report document to this path")
	cmd.Flags().StringVar(&f.format, "format", "yaml",
		"report format: yaml or json")
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
