package indexer

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// DefaultMaxChunkSize is the chunk budget in characters (runes).
	DefaultMaxChunkSize = 200

	sentenceDelimiter = ". "
)

// Chunk splits text into sentence-aligned chunks of at most maxSize
// characters. Fragments are separated on ". " and greedily packed; every
// fragment is appended with its ". " suffix restored, and each emitted chunk
// is trimmed of surrounding whitespace.
//
// A single fragment longer than maxSize becomes its own oversized chunk.
// The result is never empty: blank input yields its first maxSize
// characters as the only chunk.
func Chunk(text string, maxSize int) []string {
	if maxSize <= 0 {
		maxSize = DefaultMaxChunkSize
	}
	if strings.TrimFunc(text, unicode.IsSpace) == "" {
		return []string{truncateRunes(text, maxSize)}
	}

	var chunks []string
	var current strings.Builder
	currentLen := 0

	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			chunks = append(chunks, s)
		}
		current.Reset()
		currentLen = 0
	}

	for _, fragment := range strings.Split(text, sentenceDelimiter) {
		fragLen := utf8.RuneCountInString(fragment)
		if currentLen > 0 && currentLen+fragLen > maxSize {
			flush()
		}
		current.WriteString(fragment)
		current.WriteString(sentenceDelimiter)
		currentLen += fragLen + len(sentenceDelimiter)
	}
	flush()

	if len(chunks) == 0 {
		return []string{truncateRunes(text, maxSize)}
	}
	return chunks
}

// truncateRunes returns the first n runes of s.
func truncateRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
