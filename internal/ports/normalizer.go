package ports

// WordNormalizer maps one raw token to the normalized form used for
// matching. Returning the empty string drops the token entirely.
type WordNormalizer interface {
	NormalizeWord(word string) string
}
