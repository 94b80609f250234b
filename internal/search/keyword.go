package search

import "strings"

// titleWeight counts a title hit as this many content hits.
const titleWeight = 2

// KeywordScore scores a case-insensitive substring match of query in a note.
// With h = 2*hits(title) + hits(content) the score is h/(h+1): 0 without a
// match, rising towards 1 as hits accumulate.
func KeywordScore(query, title, content string) float64 {
	q := strings.ToLower(query)
	if q == "" {
		return 0
	}
	h := titleWeight*strings.Count(strings.ToLower(title), q) + strings.Count(strings.ToLower(content), q)
	if h == 0 {
		return 0
	}
	return float64(h) / float64(h+1)
}
