package editdist

import (
	"math"
	"testing"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want int
	}{
		{"identical", "hello", "hello", 0},
		{"single deletion", "hello", "helo", 1},
		{"single insertion", "helo", "hello", 1},
		{"single substitution", "hello", "hallo", 1},
		{"both empty", "", "", 0},
		{"empty left", "", "abc", 3},
		{"empty right", "abc", "", 3},
		{"completely different", "abc", "xyz", 3},
		{"kitten sitting", "kitten", "sitting", 3},
		{"case sensitive", "Hello", "hello", 1},
		{"unicode runes", "café", "cafe", 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Distance(tc.a, tc.b); got != tc.want {
				t.Errorf("Distance(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestDistanceSymmetry(t *testing.T) {
	pairs := [][2]string{
		{"hello", "helo"},
		{"test", "tst"},
		{"", "word"},
		{"quick", "quik"},
	}
	for _, p := range pairs {
		if d1, d2 := Distance(p[0], p[1]), Distance(p[1], p[0]); d1 != d2 {
			t.Errorf("Distance(%q, %q) = %d but Distance(%q, %q) = %d", p[0], p[1], d1, p[1], p[0], d2)
		}
	}
}

func TestCRR(t *testing.T) {
	tests := []struct {
		name string
		gt   string
		ocr  string
		want float64
	}{
		{"identical", "hello", "hello", 1.0},
		{"one error in five chars", "quick", "quik", 0.8},
		{"both empty", "", "", 1.0},
		{"fully wrong", "abc", "xyz", 0.0},
		{"ocr empty", "hello", "", 0.0},
		{"gt empty", "", "hello", 0.0},
		{"half recognized", "ab", "ax", 0.5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := CRR(tc.gt, tc.ocr)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("CRR(%q, %q) = %f, want %f", tc.gt, tc.ocr, got, tc.want)
			}
		})
	}
}

func TestCRRNeverNegative(t *testing.T) {
	// Distance can exceed the length of the shorter word; the rate is
	// clamped at zero.
	if got := CRR("a", "xyz"); got < 0 {
		t.Errorf("CRR(\"a\", \"xyz\") = %f, want >= 0", got)
	}
}
