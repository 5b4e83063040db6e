// Package report renders evaluation results as YAML or JSON documents
// and as a console summary table.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/baditaflorin/go_ocr_accuracy/internal/core/domain"
)

// Config records the evaluation settings a document was produced with.
type Config struct {
	Threshold         int       `yaml:"edit_distance_threshold" json:"edit_distance_threshold"`
	CaseSensitive     bool      `yaml:"case_sensitive" json:"case_sensitive"`
	IgnorePunctuation bool      `yaml:"ignore_punctuation" json:"ignore_punctuation"`
	Timestamp         time.Time `yaml:"timestamp" json:"timestamp"`
}

// ModelResult is one model's metrics inside a document.
type ModelResult struct {
	Model         string  `yaml:"model" json:"model"`
	Precision     float64 `yaml:"precision" json:"precision"`
	Recall        float64 `yaml:"recall" json:"recall"`
	F1            float64 `yaml:"f1_score" json:"f1_score"`
	AvgCRR        float64 `yaml:"avg_crr" json:"avg_crr"`
	ExactMatches  int     `yaml:"exact_matches" json:"exact_matches"`
	FuzzyMatches  int     `yaml:"fuzzy_matches" json:"fuzzy_matches"`
	TotalGTWords  int     `yaml:"total_gt_words" json:"total_gt_words"`
	TotalOCRWords int     `yaml:"total_ocr_words" json:"total_ocr_words"`
	UnmatchedGT   int     `yaml:"unmatched_gt" json:"unmatched_gt"`
	UnmatchedOCR  int     `yaml:"unmatched_ocr" json:"unmatched_ocr"`
	Err           string  `yaml:"error,omitempty" json:"error,omitempty"`
}

// Document is a serializable evaluation report.
type Document struct {
	Config  Config        `yaml:"config" json:"config"`
	Results []ModelResult `yaml:"results" json:"results"`
}

// New builds a document from evaluation reports.
func New(cfg Config, reports []domain.Report) Document {
	doc := Document{Config: cfg, Results: make([]ModelResult, 0, len(reports))}
	for _, r := range reports {
		m := r.Metrics
		doc.Results = append(doc.Results, ModelResult{
			Model:         r.Model,
			Precision:     m.Precision,
			Recall:        m.Recall,
			F1:            m.F1,
			AvgCRR:        m.AvgCRR,
			ExactMatches:  m.ExactMatches,
			FuzzyMatches:  m.FuzzyMatches,
			TotalGTWords:  m.TotalGTWords,
			TotalOCRWords: m.TotalOCRWords,
			UnmatchedGT:   m.UnmatchedGT,
			UnmatchedOCR:  m.UnmatchedOCR,
			Err:           r.Err,
		})
	}
	return doc
}

// WriteYAML writes the document as YAML.
func (d Document) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return err
	}
	return enc.Close()
}

// WriteJSON writes the document as indented JSON.
func (d Document) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

// Percent formats a ratio for display, e.g. 0.8 -> "80.00%".
func Percent(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}

// Summary writes a per-model metrics table to w.
func Summary(w io.Writer, reports []domain.Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MODEL\tPRECISION\tRECALL\tF1\tAVG CRR\tEXACT\tFUZZY\tUNMATCHED")
	for _, r := range reports {
		if r.Err != "" {
			fmt.Fprintf(tw, "%s\terror: %s\t\t\t\t\t\t\n", r.Model, r.Err)
			continue
		}
		m := r.Metrics
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%d\t%d\n",
			r.Model,
			Percent(m.Precision),
			Percent(m.Recall),
			Percent(m.F1),
			Percent(m.AvgCRR),
			m.ExactMatches,
			m.FuzzyMatches,
			m.UnmatchedGT+m.UnmatchedOCR,
		)
	}
	return tw.Flush()
}
