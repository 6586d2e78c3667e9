package mapping

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/semiconbook/chaptermap/internal/core/domain"
)

// Format is a chapter configuration file format.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, true
	case ".yaml", ".yml":
		return FormatYAML, true
	default:
		return "", false
	}
}

// fileConfig is the on-disk shape of a chapter configuration.
type fileConfig struct {
	Theme            string                   `toml:"theme" yaml:"theme"`
	DefaultComponent string                   `toml:"default_component" yaml:"default_component"`
	Layout           string                   `toml:"layout" yaml:"layout"`
	CustomLayout     string                   `toml:"custom_layout" yaml:"custom_layout"`
	Interactive      *bool                    `toml:"interactive" yaml:"interactive"`
	GlobalProps      map[string]any           `toml:"global_props" yaml:"global_props"`
	Components       map[string]fileComponent `toml:"components" yaml:"components"`
	Rules            []fileRule               `toml:"rules" yaml:"rules"`
}

type fileComponent struct {
	Module       string         `toml:"module" yaml:"module"`
	Mode         string         `toml:"mode" yaml:"mode"`
	Export       string         `toml:"export" yaml:"export"`
	DefaultProps map[string]any `toml:"default_props" yaml:"default_props"`
}

type fileRule struct {
	Name      string           `toml:"name" yaml:"name"`
	Match     domain.Predicate `toml:"match" yaml:"match"`
	Component string           `toml:"component" yaml:"component"`
	Props     map[string]any   `toml:"props" yaml:"props"`
	PropsFunc string           `toml:"props_func" yaml:"props_func"`
	Priority  int              `toml:"priority" yaml:"priority"`
	Condition string           `toml:"condition" yaml:"condition"`
	ClassName string           `toml:"class_name" yaml:"class_name"`
	Fallback  string           `toml:"fallback" yaml:"fallback"`
}

// LoadChapterConfig decodes a chapter configuration. Unknown fields are
// rejected. The result is not yet validated as a rule set.
func LoadChapterConfig(data []byte, format Format, slug string) (*domain.ChapterConfig, error) {
	var fc fileConfig
	var err error
	switch format {
	case FormatTOML:
		err = toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(&fc)
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&fc)
		if errors.Is(err, io.EOF) {
			err = nil
		}
	default:
		err = fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		return nil, &domain.ConfigError{Chapter: slug, Reason: "decode " + string(format), Err: fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)}
	}
	return fc.toDomain(slug)
}

func (fc *fileConfig) toDomain(slug string) (*domain.ChapterConfig, error) {
	cfg := &domain.ChapterConfig{
		Slug:             slug,
		DefaultComponent: fc.DefaultComponent,
		Theme:            fc.Theme,
		GlobalProps:      fc.GlobalProps,
		Layout:           domain.LayoutType(fc.Layout),
		CustomLayout:     fc.CustomLayout,
		Interactive:      true,
		Registry:         make(map[string]domain.ComponentEntry, len(fc.Components)),
	}
	if fc.Interactive != nil {
		cfg.Interactive = *fc.Interactive
	}

	switch cfg.Layout {
	case "":
	case domain.LayoutDefault, domain.LayoutSidebar, domain.LayoutFullscreen:
	case domain.LayoutCustom:
		if cfg.CustomLayout == "" {
			return nil, &domain.ConfigError{Chapter: slug, Reason: "custom layout without custom_layout", Err: domain.ErrInvalidConfig}
		}
	default:
		return nil, &domain.ConfigError{Chapter: slug, Reason: fmt.Sprintf("unknown layout %q", cfg.Layout), Err: domain.ErrInvalidConfig}
	}

	for name, c := range fc.Components {
		mode := domain.RenderMode(c.Mode)
		switch mode {
		case "":
			mode = domain.RenderServer
		case domain.RenderClient, domain.RenderServer:
		default:
			return nil, &domain.ConfigError{Chapter: slug, Reason: fmt.Sprintf("component %s: unknown mode %q", name, c.Mode), Err: domain.ErrInvalidConfig}
		}
		cfg.Registry[name] = domain.ComponentEntry{
			Name:         name,
			Module:       c.Module,
			Mode:         mode,
			DefaultProps: c.DefaultProps,
			ExportName:   c.Export,
		}
	}

	for _, r := range fc.Rules {
		cfg.Rules = append(cfg.Rules, domain.Rule{
			Name:          r.Name,
			Match:         r.Match,
			Component:     r.Component,
			Props:         r.Props,
			PropsFuncName: r.PropsFunc,
			Priority:      r.Priority,
			ConditionName: r.Condition,
			ClassName:     r.ClassName,
			Fallback:      r.Fallback,
		})
	}
	return cfg, nil
}

// BuildRuleSet validates the rules of cfg.
func BuildRuleSet(cfg *domain.ChapterConfig, opts ...Option) (*RuleSet, error) {
	return NewRuleSet(cfg.Rules, append([]Option{WithChapter(cfg.Slug)}, opts...)...)
}
