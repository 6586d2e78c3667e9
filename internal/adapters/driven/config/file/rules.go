package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/semiconbook/chaptermap/internal/core/domain"
	"github.com/semiconbook/chaptermap/internal/core/ports/driven"
	"github.com/semiconbook/chaptermap/internal/logger"
	"github.com/semiconbook/chaptermap/internal/mapping"
)

// Ensure RuleStore implements the interface.
var _ driven.ChapterConfigSource = (*RuleStore)(nil)

// ruleExtensions are tried in order for a chapter's rule file.
var ruleExtensions = []string{".toml", ".yaml", ".yml"}

// defaultRulesName is the file name (without extension) of the base rules.
const defaultRulesName = "default"

// RuleStore loads chapter rule sets from user-editable files, falling back to
// the embedded configurations. A user file replaces the embedded file of the
// same chapter; the result is always merged over the default rules.
//
// The store is lazy: the rules directory is only created on first Load.
type RuleStore struct {
	mu       sync.RWMutex
	rulesDir string
	cache    map[string]*domain.ChapterConfig
	initOnce sync.Once
	initErr  error
}

// NewRuleStore creates a rule store.
// If rulesDir is empty, defaults to ~/.chaptermap/rules/.
func NewRuleStore(rulesDir string) (*RuleStore, error) {
	if rulesDir == "" {
		home, err := DefaultHome()
		if err != nil {
			return nil, err
		}
		rulesDir = filepath.Join(home, "rules")
	}
	return &RuleStore{
		rulesDir: rulesDir,
		cache:    make(map[string]*domain.ChapterConfig),
	}, nil
}

// Load returns the merged configuration of a chapter.
func (s *RuleStore) Load(ctx context.Context, slug string) (*domain.ChapterConfig, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		logger.Warn("rules directory unavailable, using embedded rules: %v", s.initErr)
	}

	s.mu.RLock()
	if cfg, ok := s.cache[slug]; ok {
		s.mu.RUnlock()
		return cfg, nil
	}
	s.mu.RUnlock()

	base, err := s.lookup(defaultRulesName)
	if err != nil {
		return nil, err
	}
	if base == nil {
		return nil, &domain.ConfigError{Reason: "no default rules", Err: domain.ErrInvalidConfig}
	}
	chapter, err := s.lookup(slug)
	if err != nil {
		return nil, err
	}

	cfg := mapping.Merge(base, chapter)
	cfg.Slug = slug

	s.mu.Lock()
	if cached, ok := s.cache[slug]; ok {
		cfg = cached
	} else {
		s.cache[slug] = cfg
	}
	s.mu.Unlock()
	return cfg, nil
}

// lookup returns the user file of name, else the embedded one, else nil.
func (s *RuleStore) lookup(name string) (*domain.ChapterConfig, error) {
	cfg, err := s.loadFromFile(name)
	if err != nil || cfg != nil {
		return cfg, err
	}
	if name == defaultRulesName {
		return mapping.DefaultConfig()
	}
	cfg, _, err = mapping.EmbeddedChapter(name)
	return cfg, err
}

// loadFromFile reads a user rule file. It returns nil when none exists.
func (s *RuleStore) loadFromFile(name string) (*domain.ChapterConfig, error) {
	for _, ext := range ruleExtensions {
		path := filepath.Join(s.rulesDir, filepath.FromSlash(name)+ext)
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read rules %s: %w", path, err)
		}
		format, _ := mapping.FormatFromPath(path)
		slug := name
		if name == defaultRulesName {
			slug = ""
		}
		cfg, err := mapping.LoadChapterConfig(data, format, slug)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		logger.Debug("loaded rules %s", path)
		return cfg, nil
	}
	return nil, nil
}

// Invalidate drops the cached configuration of a chapter.
func (s *RuleStore) Invalidate(slug string) {
	s.mu.Lock()
	delete(s.cache, slug)
	s.mu.Unlock()
}

// Reload clears the cache, forcing fresh loads from disk.
func (s *RuleStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]*domain.ChapterConfig)
	s.mu.Unlock()
}

// Dir returns the rules directory path.
func (s *RuleStore) Dir() string {
	return s.rulesDir
}

// Slugs lists the chapters with an embedded or user rule file.
func (s *RuleStore) Slugs() []string {
	seen := make(map[string]bool)
	for _, slug := range mapping.EmbeddedSlugs() {
		seen[slug] = true
	}
	_ = filepath.WalkDir(s.rulesDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if _, ok := mapping.FormatFromPath(path); !ok {
			return nil
		}
		rel, err := filepath.Rel(s.rulesDir, path)
		if err != nil {
			return nil
		}
		slug := filepath.ToSlash(strings.TrimSuffix(rel, filepath.Ext(rel)))
		if slug != defaultRulesName {
			seen[slug] = true
		}
		return nil
	})

	slugs := make([]string, 0, len(seen))
	for slug := range seen {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs
}

// initialise creates the rules directory and its README.
// Called once via sync.Once on first Load().
func (s *RuleStore) initialise() {
	if err := os.MkdirAll(s.rulesDir, 0o700); err != nil {
		s.initErr = fmt.Errorf("create rules directory: %w", err)
		return
	}
	if err := s.createReadme(); err != nil {
		s.initErr = err
	}
}

// createReadme writes a README file explaining the rules directory.
func (s *RuleStore) createReadme() error {
	path := filepath.Join(s.rulesDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil
	}

	content := `# chaptermap rules

Files in this directory override the built-in chapter rule sets.

## Files

- ` + "`default.toml`" + ` replaces the base rules shared by every chapter
- ` + "`part1/ch1.toml`" + ` (or ` + "`.yaml`" + `) replaces the rules of chapter part1/ch1

Chapter rules are placed before the base rules, so they win priority ties.

## Example

` + "```toml" + `
theme = "crystal"

[[rules]]
name = "lattice"
match = { kind = "keywords", values = ["晶格", "晶胞"] }
component = "ConceptExplanationModule"
priority = 8
` + "```" + `

Run ` + "`chaptermap rules validate`" + ` after editing.
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return fmt.Errorf("create rules readme: %w", err)
	}
	return nil
}
