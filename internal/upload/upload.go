// Package upload parses multipart file uploads for batch evaluation.
//
// Expected file naming:
//   - gt.txt: ground truth text
//   - <model_name>_out.txt: OCR output from a model
package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/baditaflorin/go_ocr_accuracy/internal/core/domain"
)

// Parsed holds the outcome of a multipart upload. Errors collects
// per-file problems without failing the whole upload.
type Parsed struct {
	GroundTruth    string
	HasGroundTruth bool
	Models         []domain.ModelOutput
	Errors         []string
}

// ParseFiles reads every uploaded file and sorts it into ground truth
// or model outputs by filename. Models come back sorted by name so
// responses are deterministic regardless of upload order.
func ParseFiles(form *multipart.Form) Parsed {
	var p Parsed

	var headers []*multipart.FileHeader
	for _, hs := range form.File {
		headers = append(headers, hs...)
	}
	if len(headers) == 0 {
		p.Errors = append(p.Errors, "No files uploaded")
		return p
	}

	for _, header := range headers {
		filename := header.Filename
		if filename == "" {
			continue
		}

		if !strings.HasSuffix(filename, ".txt") {
			p.Errors = append(p.Errors, fmt.Sprintf("Skipping '%s': Only .txt files are supported", filename))
			continue
		}

		content, err := readFile(header)
		if err != nil {
			p.Errors = append(p.Errors, fmt.Sprintf("Error reading '%s': %s", filename, err))
			continue
		}

		switch {
		case filename == "gt.txt":
			p.GroundTruth = content
			p.HasGroundTruth = true
		case strings.HasSuffix(filename, "_out.txt"):
			p.Models = append(p.Models, domain.ModelOutput{
				Name: ExtractModelName(filename),
				Text: content,
			})
		default:
			p.Errors = append(p.Errors,
				fmt.Sprintf("Skipping '%s': File must be either 'gt.txt' or '<model_name>_out.txt'", filename))
		}
	}

	if !p.HasGroundTruth {
		p.Errors = append(p.Errors, "Ground truth file 'gt.txt' not found")
	}
	if len(p.Models) == 0 {
		p.Errors = append(p.Errors, "No model output files found (must be named '<model_name>_out.txt')")
	}

	sort.Slice(p.Models, func(i, j int) bool { return p.Models[i].Name < p.Models[j].Name })

	return p
}

func readFile(header *multipart.FileHeader) (string, error) {
	f, err := header.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("File must be UTF-8 encoded")
	}
	return string(data), nil
}

// ExtractModelName derives the model name from an output filename,
// e.g. 'tesseract_out.txt' -> 'tesseract'.
func ExtractModelName(filename string) string {
	name := strings.TrimSuffix(filename, ".txt")
	return strings.TrimSuffix(name, "_out")
}
