package services

import (
	"sort"
	"strconv"
	"strings"

	"github.com/semiconbook/chaptermap/internal/core/domain"
)

// chapterOrder parses "partN/chM" into its numbers.
// ok is false for slugs of any other shape.
func chapterOrder(slug string) (part, chapter int, ok bool) {
	p, c, found := strings.Cut(slug, "/")
	if !found {
		return 0, 0, false
	}
	part, err := strconv.Atoi(strings.TrimPrefix(p, "part"))
	if err != nil || !strings.HasPrefix(p, "part") {
		return 0, 0, false
	}
	c = strings.TrimPrefix(c, "ch")
	if i := strings.IndexFunc(c, func(r rune) bool { return r < '0' || r > '9' }); i >= 0 {
		c = c[:i]
	}
	chapter, err = strconv.Atoi(c)
	if err != nil {
		return 0, 0, false
	}
	return part, chapter, true
}

// sortChapters orders refs by part then chapter number. Slugs that do not
// follow the partN/chM shape go last, by slug.
func sortChapters(refs []domain.ChapterRef) {
	sort.SliceStable(refs, func(i, j int) bool {
		pi, ci, oki := chapterOrder(refs[i].Slug)
		pj, cj, okj := chapterOrder(refs[j].Slug)
		switch {
		case oki != okj:
			return oki
		case !oki:
			return refs[i].Slug < refs[j].Slug
		case pi != pj:
			return pi < pj
		case ci != cj:
			return ci < cj
		default:
			return refs[i].Slug < refs[j].Slug
		}
	})
}

// neighbours returns the navigation of slug within ordered refs.
// Unknown slugs have no neighbours.
func neighbours(refs []domain.ChapterRef, slug string) domain.Navigation {
	for i := range refs {
		if refs[i].Slug != slug {
			continue
		}
		var nav domain.Navigation
		if i > 0 {
			prev := refs[i-1].Slug
			nav.Prev = &prev
		}
		if i+1 < len(refs) {
			next := refs[i+1].Slug
			nav.Next = &next
		}
		return nav
	}
	return domain.Navigation{}
}
