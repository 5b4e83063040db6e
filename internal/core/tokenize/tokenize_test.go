package tokenize

import (
	"reflect"
	"testing"

	"github.com/baditaflorin/go_ocr_accuracy/internal/adapters/normalizer"
	"github.com/baditaflorin/go_ocr_accuracy/internal/core/domain"
)

func TestPreprocess(t *testing.T) {
	tests := []struct {
		name string
		text string
		cfg  domain.NormConfig
		want []string
	}{
		{
			name: "basic lowercasing",
			text: "Hello World",
			cfg:  domain.DefaultNormConfig(),
			want: []string{"hello", "world"},
		},
		{
			name: "punctuation stripped",
			text: "Hello, World!",
			cfg:  domain.DefaultNormConfig(),
			want: []string{"hello", "world"},
		},
		{
			name: "multiple spaces",
			text: "one   two    three",
			cfg:  domain.DefaultNormConfig(),
			want: []string{"one", "two", "three"},
		},
		{
			name: "tabs and newlines",
			text: "hello\tworld\r\ntest",
			cfg:  domain.DefaultNormConfig(),
			want: []string{"hello", "world", "test"},
		},
		{
			name: "punctuation-only tokens dropped",
			text: "hello . world !!",
			cfg:  domain.DefaultNormConfig(),
			want: []string{"hello", "world"},
		},
		{
			name: "case sensitive keeps case",
			text: "Hello World",
			cfg:  domain.NormConfig{CaseSensitive: true},
			want: []string{"Hello", "World"},
		},
		{
			name: "punctuation kept when not ignored",
			text: "hello. world!",
			cfg:  domain.NormConfig{IgnorePunctuation: false},
			want: []string{"hello.", "world!"},
		},
		{
			name: "empty text",
			text: "",
			cfg:  domain.DefaultNormConfig(),
			want: []string{},
		},
		{
			name: "whitespace only",
			text: "   \t\n  ",
			cfg:  domain.DefaultNormConfig(),
			want: []string{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			normalized, tokens := Preprocess(tc.text, normalizer.NewDefault(tc.cfg))
			if !reflect.DeepEqual(normalized, tc.want) {
				t.Errorf("normalized = %v, want %v", normalized, tc.want)
			}
			if len(tokens) != len(normalized) {
				t.Fatalf("tokens (%d) and normalized (%d) out of lockstep", len(tokens), len(normalized))
			}
			for i, tok := range tokens {
				if tok.Normalized != normalized[i] {
					t.Errorf("token %d normalized %q does not match sequence entry %q", i, tok.Normalized, normalized[i])
				}
				if tok.Position != i {
					t.Errorf("token %d has position %d", i, tok.Position)
				}
			}
		})
	}
}

func TestPreprocessKeepsOriginalSurfaceForm(t *testing.T) {
	_, tokens := Preprocess("Hello, WORLD!", normalizer.NewDefault(domain.DefaultNormConfig()))

	if len(tokens) != 2 {
		t.Fatalf("got %d tokens, want 2", len(tokens))
	}
	if tokens[0].Original != "Hello," || tokens[0].Normalized != "hello" {
		t.Errorf("token 0 = %+v, want original \"Hello,\" normalized \"hello\"", tokens[0])
	}
	if tokens[1].Original != "WORLD!" || tokens[1].Normalized != "world" {
		t.Errorf("token 1 = %+v, want original \"WORLD!\" normalized \"world\"", tokens[1])
	}
}

func TestPreprocessPositionsAfterFiltering(t *testing.T) {
	// The dropped punctuation-only token must not leave a hole in the
	// position numbering.
	_, tokens := Preprocess("one . two", normalizer.NewDefault(domain.DefaultNormConfig()))

	if len(tokens) != 2 {
		t.Fatalf("got %d tokens, want 2", len(tokens))
	}
	if tokens[0].Position != 0 || tokens[1].Position != 1 {
		t.Errorf("positions = %d, %d; want 0, 1", tokens[0].Position, tokens[1].Position)
	}
	if tokens[1].Original != "two" {
		t.Errorf("token 1 original = %q, want \"two\"", tokens[1].Original)
	}
}

func TestPreprocessIdempotent(t *testing.T) {
	// Normalizing already-normalized text with the same config returns it
	// unchanged.
	cfg := domain.DefaultNormConfig()
	norm := normalizer.NewDefault(cfg)

	first, _ := Preprocess("Hello, World! Testing... 123", norm)
	second, _ := Preprocess(joinWords(first), norm)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("second pass changed output: %v vs %v", first, second)
	}
}

func joinWords(words []string) string {
	out := ""
	for i, w := range words {
		if i > 0 {
			out += " "
		}
		out += w
	}
	return out
}
