package domain

// LayoutType is the page layout wrapping a rendered chapter.
type LayoutType string

const (
	LayoutDefault    LayoutType = "default"
	LayoutSidebar    LayoutType = "sidebar"
	LayoutFullscreen LayoutType = "fullscreen"
	LayoutCustom     LayoutType = "custom"
)

// ChapterConfig is the static mapping configuration of a chapter.
type ChapterConfig struct {
	// Slug is the chapter the config applies to; empty for the default config.
	Slug string

	// Rules are the mapping rules in declaration order.
	Rules []Rule

	// Registry lists the components the chapter may use.
	Registry map[string]ComponentEntry

	// DefaultComponent renders blocks when nothing else applies.
	DefaultComponent string

	// Theme is the theme name.
	Theme string

	// GlobalProps are passed to every component.
	GlobalProps map[string]any

	// Layout is the page layout.
	Layout LayoutType

	// CustomLayout names the layout component for LayoutCustom.
	CustomLayout string

	// Interactive enables interactive components.
	Interactive bool
}
