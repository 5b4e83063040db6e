package normalizer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/baditaflorin/go_ocr_accuracy/internal/core/domain"
	"github.com/baditaflorin/go_ocr_accuracy/internal/pool"
	"github.com/baditaflorin/go_ocr_accuracy/internal/ports"
)

// Decision table entries for ASCII bytes.
const (
	asciiKeep byte = iota
	asciiDrop
	asciiLower
)

// FastNormalizer implements an optimized word normalization strategy
// with a precomputed ASCII decision table and buffer pooling. It
// produces byte-identical output to DefaultNormalizer.
type FastNormalizer struct {
	cfg domain.NormConfig

	// Pre-computed decision table for ASCII characters (0-127)
	asciiTable [128]byte

	// Punctuation runes outside the ASCII range, if any were configured
	widePunct map[rune]struct{}

	bytePool *pool.BufferPool
}

// NewFast creates a new fast normalizer with precomputed tables.
func NewFast(cfg domain.NormConfig) ports.WordNormalizer {
	n := &FastNormalizer{
		cfg:      cfg,
		bytePool: pool.NewBufferPool(256),
	}

	for i := 0; i < 128; i++ {
		r := rune(i)
		switch {
		case cfg.IgnorePunctuation && strings.ContainsRune(cfg.Punctuation, r):
			n.asciiTable[i] = asciiDrop
		case !cfg.CaseSensitive && r >= 'A' && r <= 'Z':
			n.asciiTable[i] = asciiLower
		default:
			n.asciiTable[i] = asciiKeep
		}
	}

	if cfg.IgnorePunctuation {
		for _, r := range cfg.Punctuation {
			if r >= 128 {
				if n.widePunct == nil {
					n.widePunct = make(map[rune]struct{})
				}
				n.widePunct[r] = struct{}{}
			}
		}
	}

	return n
}

// NormalizeWord returns the matchable form of a single word.
func (n *FastNormalizer) NormalizeWord(word string) string {
	if len(word) == 0 {
		return ""
	}

	// The ASCII check must cover the whole word before the table branch
	// is taken; an early break on a rewritable byte would leave trailing
	// non-ASCII runes unexamined.
	ascii := true
	for i := 0; i < len(word); i++ {
		if word[i] >= 128 {
			ascii = false
			break
		}
	}

	// Fast path: ASCII words that need no rewriting are returned as is.
	if ascii {
		clean := true
		for i := 0; i < len(word); i++ {
			if n.asciiTable[word[i]] != asciiKeep {
				clean = false
				break
			}
		}
		if clean {
			return word
		}
	}

	buffer := n.bytePool.Get()
	defer n.bytePool.Put(buffer)
	if cap(*buffer) < len(word) {
		*buffer = make([]byte, 0, len(word))
	}

	if ascii {
		for i := 0; i < len(word); i++ {
			b := word[i]
			switch n.asciiTable[b] {
			case asciiKeep:
				*buffer = append(*buffer, b)
			case asciiLower:
				*buffer = append(*buffer, b+('a'-'A'))
			}
		}
		return string(*buffer)
	}

	for _, r := range word {
		if r < 128 {
			switch n.asciiTable[r] {
			case asciiKeep:
				*buffer = append(*buffer, byte(r))
			case asciiLower:
				*buffer = append(*buffer, byte(r)+('a'-'A'))
			}
			continue
		}
		if _, drop := n.widePunct[r]; drop {
			continue
		}
		if !n.cfg.CaseSensitive {
			r = unicode.ToLower(r)
		}
		*buffer = utf8.AppendRune(*buffer, r)
	}
	return string(*buffer)
}
