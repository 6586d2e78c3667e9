package domain

// RenderMode says where a component renders.
type RenderMode string

const (
	// RenderClient marks interactive components.
	RenderClient RenderMode = "client"

	// RenderServer marks static components.
	RenderServer RenderMode = "server"
)

// ComponentEntry describes a registered component.
type ComponentEntry struct {
	// Name is the identifier rules refer to.
	Name string `json:"name" toml:"name" yaml:"name"`

	// Module is the module reference the component is loaded from.
	Module string `json:"module,omitempty" toml:"module,omitempty" yaml:"module,omitempty"`

	// Mode is the rendering mode.
	Mode RenderMode `json:"mode,omitempty" toml:"mode,omitempty" yaml:"mode,omitempty"`

	// DefaultProps are merged under rule props.
	DefaultProps map[string]any `json:"default_props,omitempty" toml:"default_props,omitempty" yaml:"default_props,omitempty"`

	// ExportName selects a named export of the module.
	ExportName string `json:"export,omitempty" toml:"export,omitempty" yaml:"export,omitempty"`
}
