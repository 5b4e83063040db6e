package upload

import (
	"bytes"
	"mime/multipart"
	"strings"
	"testing"
)

func buildForm(t *testing.T, files map[string][]byte) *multipart.Form {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, content := range files {
		fw, err := w.CreateFormFile("files", name)
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		if _, err := fw.Write(content); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(32 << 20)
	if err != nil {
		t.Fatalf("ReadForm: %v", err)
	}
	t.Cleanup(func() { form.RemoveAll() })
	return form
}

func TestParseFiles(t *testing.T) {
	form := buildForm(t, map[string][]byte{
		"gt.txt":            []byte("ground truth text"),
		"tesseract_out.txt": []byte("tesseract output"),
		"easyocr_out.txt":   []byte("easyocr output"),
	})

	p := ParseFiles(form)

	if !p.HasGroundTruth || p.GroundTruth != "ground truth text" {
		t.Errorf("ground truth = %q (present %v)", p.GroundTruth, p.HasGroundTruth)
	}
	if len(p.Errors) != 0 {
		t.Errorf("unexpected errors: %v", p.Errors)
	}
	if len(p.Models) != 2 {
		t.Fatalf("got %d models, want 2", len(p.Models))
	}
	// Sorted by name regardless of upload order.
	if p.Models[0].Name != "easyocr" || p.Models[1].Name != "tesseract" {
		t.Errorf("models = %q, %q; want easyocr, tesseract", p.Models[0].Name, p.Models[1].Name)
	}
	if p.Models[1].Text != "tesseract output" {
		t.Errorf("tesseract text = %q", p.Models[1].Text)
	}
}

func TestParseFilesMissingGroundTruth(t *testing.T) {
	form := buildForm(t, map[string][]byte{
		"model_out.txt": []byte("output"),
	})

	p := ParseFiles(form)

	if p.HasGroundTruth {
		t.Error("expected no ground truth")
	}
	if !containsSubstring(p.Errors, "gt.txt") {
		t.Errorf("errors = %v, want one mentioning gt.txt", p.Errors)
	}
}

func TestParseFilesNoModels(t *testing.T) {
	form := buildForm(t, map[string][]byte{
		"gt.txt": []byte("ground truth"),
	})

	p := ParseFiles(form)

	if len(p.Models) != 0 {
		t.Errorf("models = %v, want none", p.Models)
	}
	if !containsSubstring(p.Errors, "No model output files found") {
		t.Errorf("errors = %v, want missing-models message", p.Errors)
	}
}

func TestParseFilesRejectsNonTxt(t *testing.T) {
	form := buildForm(t, map[string][]byte{
		"gt.txt":        []byte("ground truth"),
		"image.png":     {0x89, 0x50, 0x4e, 0x47},
		"notes_out.txt": []byte("model output"),
	})

	p := ParseFiles(form)

	if !containsSubstring(p.Errors, "Only .txt files are supported") {
		t.Errorf("errors = %v, want extension message", p.Errors)
	}
	if len(p.Models) != 1 || p.Models[0].Name != "notes" {
		t.Errorf("models = %v", p.Models)
	}
}

func TestParseFilesRejectsInvalidUTF8(t *testing.T) {
	form := buildForm(t, map[string][]byte{
		"gt.txt":        {0xff, 0xfe, 0x00},
		"model_out.txt": []byte("fine"),
	})

	p := ParseFiles(form)

	if p.HasGroundTruth {
		t.Error("invalid UTF-8 gt.txt should not become ground truth")
	}
	if !containsSubstring(p.Errors, "UTF-8") {
		t.Errorf("errors = %v, want encoding message", p.Errors)
	}
}

func TestParseFilesMisnamedTxt(t *testing.T) {
	form := buildForm(t, map[string][]byte{
		"gt.txt":    []byte("ground truth"),
		"extra.txt": []byte("neither gt nor model output"),
		"m_out.txt": []byte("output"),
	})

	p := ParseFiles(form)

	if !containsSubstring(p.Errors, "must be either 'gt.txt' or") {
		t.Errorf("errors = %v, want naming message", p.Errors)
	}
}

func TestExtractModelName(t *testing.T) {
	cases := map[string]string{
		"tesseract_out.txt":     "tesseract",
		"google_vision_out.txt": "google_vision",
		"plain.txt":             "plain",
	}
	for in, want := range cases {
		if got := ExtractModelName(in); got != want {
			t.Errorf("ExtractModelName(%q) = %q, want %q", in, got, want)
		}
	}
}

func containsSubstring(list []string, sub string) bool {
	for _, s := range list {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
