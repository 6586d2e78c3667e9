// Package themes holds the named chapter colour schemes.
package themes

import (
	"sort"

	"github.com/semiconbook/chaptermap/internal/core/domain"
)

// DefaultName is the theme used when a chapter has none.
const DefaultName = "default"

var catalogue = map[string]domain.Theme{
	"default": {
		Name: "default", Primary: "#007AFF", Secondary: "#34C759", Accent: "#FF9500",
		Background: "#F8FAFC", Text: "#1E293B", Heading: "#0F172A", Border: "#E2E8F0",
		CardVariant: "default", Animation: "fade",
	},
	"history": {
		Name: "history", Primary: "#8B5CF6", Secondary: "#A78BFA", Accent: "#C4B5FD",
		Background: "#F9FAFB", Text: "#1F2937", Heading: "#1F2937", Border: "#E5E7EB",
		CardVariant: "gradient", Animation: "slide",
	},
	"crystal": {
		Name: "crystal", Primary: "#3B82F6", Secondary: "#60A5FA", Accent: "#93C5FD",
		Background: "#F0F9FF", Text: "#1E3A8A", Heading: "#1E3A8A", Border: "#BFDBFE",
		CardVariant: "shadowed", Animation: "scale",
	},
	"quantum": {
		Name: "quantum", Primary: "#EC4899", Secondary: "#F472B6", Accent: "#F9A8D4",
		Background: "#FFF1F2", Text: "#9D174D", Heading: "#9D174D", Border: "#FECACA",
		CardVariant: "rounded", Animation: "fade",
	},
	"statistics": {
		Name: "statistics", Primary: "#10B981", Secondary: "#34D399", Accent: "#6EE7B7",
		Background: "#ECFDF5", Text: "#065F46", Heading: "#065F46", Border: "#A7F3D0",
		CardVariant: "outlined", Animation: "wipe",
	},
	"transport": {
		Name: "transport", Primary: "#F59E0B", Secondary: "#FBBF24", Accent: "#FCD34D",
		Background: "#FFFBEB", Text: "#92400E", Heading: "#92400E", Border: "#FDE68A",
		CardVariant: "gradient", Animation: "slide",
	},
	"nonequilibrium": {
		Name: "nonequilibrium", Primary: "#EF4444", Secondary: "#F87171", Accent: "#FCA5A5",
		Background: "#FEF2F2", Text: "#991B1B", Heading: "#991B1B", Border: "#FCA5A5",
		CardVariant: "shadowed", Animation: "flip",
	},
	"highfield": {
		Name: "highfield", Primary: "#6366F1", Secondary: "#818CF8", Accent: "#A5B4FC",
		Background: "#EEF2FF", Text: "#3730A3", Heading: "#3730A3", Border: "#C7D2FE",
		CardVariant: "rounded", Animation: "scale",
	},
}

// chapterThemes assigns themes to chapter slugs.
var chapterThemes = map[string]string{
	"part0/ch0": "history",
	"part1/ch1": "crystal",
	"part1/ch2": "quantum",
	"part1/ch3": "statistics",
	"part2/ch4": "transport",
	"part2/ch5": "nonequilibrium",
	"part2/ch6": "highfield",
}

// ByName returns the named theme.
func ByName(name string) (domain.Theme, bool) {
	t, ok := catalogue[name]
	return t, ok
}

// ForChapter returns the theme assigned to slug, or the default theme.
func ForChapter(slug string) domain.Theme {
	if name, ok := chapterThemes[slug]; ok {
		return catalogue[name]
	}
	return catalogue[DefaultName]
}

// Resolve picks the theme for a chapter: an explicit known name wins,
// then the slug assignment, then the default.
func Resolve(name, slug string) domain.Theme {
	if t, ok := ByName(name); ok && name != DefaultName {
		return t
	}
	return ForChapter(slug)
}

// Names returns all theme names, sorted.
func Names() []string {
	names := make([]string, 0, len(catalogue))
	for name := range catalogue {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
