package mapping

import (
	"maps"

	"github.com/semiconbook/chaptermap/internal/core/domain"
)

// Merge overlays a chapter configuration on a base configuration.
//
// Chapter rules come first so they win priority ties against the base
// rules. Registries and global props are merged with chapter entries
// winning; scalar settings are taken from the chapter when set.
func Merge(base, chapter *domain.ChapterConfig) *domain.ChapterConfig {
	if base == nil {
		base = &domain.ChapterConfig{Interactive: true}
	}
	if chapter == nil {
		out := *base
		out.Rules = append([]domain.Rule(nil), base.Rules...)
		out.Registry = maps.Clone(base.Registry)
		out.GlobalProps = maps.Clone(base.GlobalProps)
		return &out
	}

	out := &domain.ChapterConfig{
		Slug:             chapter.Slug,
		Rules:            make([]domain.Rule, 0, len(chapter.Rules)+len(base.Rules)),
		Registry:         make(map[string]domain.ComponentEntry, len(base.Registry)+len(chapter.Registry)),
		GlobalProps:      make(map[string]any, len(base.GlobalProps)+len(chapter.GlobalProps)),
		DefaultComponent: pick(chapter.DefaultComponent, base.DefaultComponent),
		Theme:            pick(chapter.Theme, base.Theme),
		Layout:           domain.LayoutType(pick(string(chapter.Layout), string(base.Layout))),
		CustomLayout:     pick(chapter.CustomLayout, base.CustomLayout),
		Interactive:      chapter.Interactive,
	}
	out.Rules = append(out.Rules, chapter.Rules...)
	out.Rules = append(out.Rules, base.Rules...)
	maps.Copy(out.Registry, base.Registry)
	maps.Copy(out.Registry, chapter.Registry)
	maps.Copy(out.GlobalProps, base.GlobalProps)
	maps.Copy(out.GlobalProps, chapter.GlobalProps)
	return out
}

func pick(preferred, fallback string) string {
	if preferred != "" {
		return preferred
	}
	return fallback
}
