package domain

import "strings"

// SearchOptions configures a search query.
type SearchOptions struct {
	// Limit is the maximum number of results.
	Limit int

	// Part restricts results to one part (e.g. "part1").
	Part string
}

// SearchEntry is an indexed chapter.
type SearchEntry struct {
	Slug    string
	Title   string
	Content string
	Part    string
	Chapter string
	Tags    []string
}

// SearchResult represents a single search hit.
type SearchResult struct {
	// Chapter is the matched chapter.
	Chapter ChapterRef `json:"chapter"`

	// Score is the relevance score.
	Score float64 `json:"score"`

	// Highlights contains snippets with matched terms.
	Highlights []string `json:"highlights,omitempty"`
}

// Score weights of a search hit.
const (
	titleHitScore   = 2
	contentHitScore = 1
	tagHitScore     = 1.5
)

// Score rates how well the entry matches query. Title, content and tag
// hits are case-insensitive substring matches; zero means no match.
func (e SearchEntry) Score(query string) float64 {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return 0
	}
	var score float64
	if strings.Contains(strings.ToLower(e.Title), q) {
		score += titleHitScore
	}
	if strings.Contains(strings.ToLower(e.Content), q) {
		score += contentHitScore
	}
	for _, tag := range e.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			score += tagHitScore
			break
		}
	}
	return score
}

// Snippet returns the content around the first hit of query, radius runes
// on each side. Without a content hit the snippet starts at the beginning.
func (e SearchEntry) Snippet(query string, radius int) string {
	content := []rune(e.Content)
	lower := []rune(strings.ToLower(e.Content))
	q := []rune(strings.ToLower(strings.TrimSpace(query)))

	at := runeIndex(lower, q)
	if at < 0 {
		at = 0
	}
	start := max(0, at-radius)
	end := min(len(content), at+len(q)+radius)
	return strings.TrimSpace(string(content[start:end]))
}

func runeIndex(s, sub []rune) int {
	if len(sub) == 0 || len(sub) > len(s) {
		return -1
	}
	for i := 0; i+len(sub) <= len(s); i++ {
		match := true
		for j := range sub {
			if s[i+j] != sub[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

// Ref returns the chapter listing entry of the indexed chapter.
func (e SearchEntry) Ref() ChapterRef {
	return ChapterRef{Slug: e.Slug, Title: e.Title, Part: e.Part, Chapter: e.Chapter, Tags: e.Tags}
}
