package mapping

import (
	"embed"
	"errors"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/semiconbook/chaptermap/internal/core/domain"
)

//go:embed configs
var embedded embed.FS

const defaultConfigName = "default"

// DefaultConfig returns the embedded default configuration.
func DefaultConfig() (*domain.ChapterConfig, error) {
	cfg, ok, err := EmbeddedChapter(defaultConfigName)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &domain.ConfigError{Reason: "embedded default config missing", Err: domain.ErrInvalidConfig}
	}
	cfg.Slug = ""
	return cfg, nil
}

// EmbeddedChapter returns the embedded configuration of a chapter.
// The boolean is false when the chapter has none.
func EmbeddedChapter(slug string) (*domain.ChapterConfig, bool, error) {
	for _, ext := range []string{".toml", ".yaml", ".yml"} {
		name := path.Join("configs", slug+ext)
		data, err := embedded.ReadFile(name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, false, err
		}
		format, _ := FormatFromPath(name)
		cfg, err := LoadChapterConfig(data, format, slug)
		if err != nil {
			return nil, false, err
		}
		return cfg, true, nil
	}
	return nil, false, nil
}

// EmbeddedSlugs lists the chapters with an embedded configuration.
func EmbeddedSlugs() []string {
	var slugs []string
	_ = fs.WalkDir(embedded, "configs", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		if _, ok := FormatFromPath(p); !ok {
			return nil
		}
		slug := strings.TrimPrefix(strings.TrimSuffix(p, path.Ext(p)), "configs/")
		if slug != defaultConfigName {
			slugs = append(slugs, slug)
		}
		return nil
	})
	sort.Strings(slugs)
	return slugs
}
