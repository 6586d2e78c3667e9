package mdx

import (
	"regexp"
	"strings"

	"github.com/semiconbook/chaptermap/internal/core/domain"
)

var (
	atxHeading   = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	nonIDChars   = regexp.MustCompile(`[^a-z0-9\s]`)
	idWhitespace = regexp.MustCompile(`\s+`)
)

// GenerateID derives an anchor ID from heading text: lower case ASCII
// letters and digits joined by hyphens. Text without ASCII words yields "".
func GenerateID(text string) string {
	id := nonIDChars.ReplaceAllString(strings.ToLower(text), "")
	id = idWhitespace.ReplaceAllString(strings.TrimSpace(id), "-")
	return id
}

// ExtractTOC lists every heading of body outside code fences.
func ExtractTOC(body string) []domain.TocItem {
	var fence fenceTracker
	var toc []domain.TocItem
	for _, line := range splitLines(body) {
		if fence.step(line) {
			continue
		}
		m := atxHeading.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		text := strings.TrimSpace(m[2])
		toc = append(toc, domain.TocItem{
			Level: len(m[1]),
			Text:  text,
			ID:    GenerateID(text),
		})
	}
	return toc
}

// Title returns the text of the first level one heading, or "".
func Title(body string) string {
	for _, item := range ExtractTOC(body) {
		if item.Level == 1 {
			return item.Text
		}
	}
	return ""
}
