package file

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semiconbook/chaptermap/internal/core/domain"
	"github.com/semiconbook/chaptermap/internal/mapping"
)

func writeRules(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func ruleNames(cfg *domain.ChapterConfig) []string {
	names := make([]string, 0, len(cfg.Rules))
	for _, r := range cfg.Rules {
		names = append(names, r.Name)
	}
	return names
}

func TestNewRuleStore_WithCustomDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "rules")

	store, err := NewRuleStore(dir)

	require.NoError(t, err)
	assert.Equal(t, dir, store.Dir())
	assert.NoDirExists(t, dir, "constructor must not touch the filesystem")
}

func TestRuleStore_Load_CreatesDirAndReadme(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "rules")
	store, err := NewRuleStore(dir)
	require.NoError(t, err)

	_, err = store.Load(context.Background(), "part1/ch1")

	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "README.md"))
}

func TestRuleStore_Load_EmbeddedChapter(t *testing.T) {
	store, err := NewRuleStore(t.TempDir())
	require.NoError(t, err)

	cfg, err := store.Load(context.Background(), "part0/ch0")
	require.NoError(t, err)

	embedded, ok, err := mapping.EmbeddedChapter("part0/ch0")
	require.NoError(t, err)
	require.True(t, ok)
	base, err := mapping.DefaultConfig()
	require.NoError(t, err)

	assert.Equal(t, "part0/ch0", cfg.Slug)
	assert.Equal(t, "history", cfg.Theme)
	assert.Equal(t, "DefaultContentModule", cfg.DefaultComponent)
	require.Len(t, cfg.Rules, len(embedded.Rules)+len(base.Rules))
	assert.Equal(t, embedded.Rules[0].Name, cfg.Rules[0].Name)
	assert.Contains(t, cfg.Registry, "SemiconductorHistoryModule")
}

func TestRuleStore_Load_DefaultOnly(t *testing.T) {
	store, err := NewRuleStore(t.TempDir())
	require.NoError(t, err)

	cfg, err := store.Load(context.Background(), "part9/ch99")
	require.NoError(t, err)

	base, err := mapping.DefaultConfig()
	require.NoError(t, err)
	assert.Equal(t, "part9/ch99", cfg.Slug)
	assert.Equal(t, ruleNames(base), ruleNames(cfg))
}

func TestRuleStore_Load_UserFileOverridesEmbedded(t *testing.T) {
	dir := t.TempDir()
	writeRules(t, dir, "part0/ch0.yaml", `
theme: crystal
rules:
  - name: user-lattice
    match: { kind: keywords, values: [晶格] }
    component: ConceptExplanationModule
    priority: 8
`)
	store, err := NewRuleStore(dir)
	require.NoError(t, err)

	cfg, err := store.Load(context.Background(), "part0/ch0")
	require.NoError(t, err)

	assert.Equal(t, "crystal", cfg.Theme)
	assert.Equal(t, "user-lattice", cfg.Rules[0].Name)
	assert.NotContains(t, cfg.Registry, "SemiconductorHistoryModule")
}

func TestRuleStore_Load_UserDefaultReplacesEmbedded(t *testing.T) {
	dir := t.TempDir()
	writeRules(t, dir, "default.toml", `
default_component = "NarrativeContentModule"

[[rules]]
name = "fallback"
match = { kind = "default" }
component = "NarrativeContentModule"
`)
	store, err := NewRuleStore(dir)
	require.NoError(t, err)

	cfg, err := store.Load(context.Background(), "part9/ch99")
	require.NoError(t, err)

	assert.Equal(t, "NarrativeContentModule", cfg.DefaultComponent)
	assert.Equal(t, []string{"fallback"}, ruleNames(cfg))
}

func TestRuleStore_Load_InvalidUserFile(t *testing.T) {
	dir := t.TempDir()
	writeRules(t, dir, "part1/ch1.toml", `unknown_field = 1`)
	store, err := NewRuleStore(dir)
	require.NoError(t, err)

	_, err = store.Load(context.Background(), "part1/ch1")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	assert.Contains(t, err.Error(), "ch1.toml")
}

func TestRuleStore_Load_Cancelled(t *testing.T) {
	store, err := NewRuleStore(t.TempDir())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = store.Load(ctx, "part0/ch0")

	assert.ErrorIs(t, err, context.Canceled)
}

func TestRuleStore_CacheAndInvalidate(t *testing.T) {
	dir := t.TempDir()
	store, err := NewRuleStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	first, err := store.Load(ctx, "part1/ch1")
	require.NoError(t, err)
	second, err := store.Load(ctx, "part1/ch1")
	require.NoError(t, err)
	assert.Same(t, first, second)

	writeRules(t, dir, "part1/ch1.toml", `theme = "quantum"`)
	cached, err := store.Load(ctx, "part1/ch1")
	require.NoError(t, err)
	assert.NotEqual(t, "quantum", cached.Theme)

	store.Invalidate("part1/ch1")
	fresh, err := store.Load(ctx, "part1/ch1")
	require.NoError(t, err)
	assert.Equal(t, "quantum", fresh.Theme)

	writeRules(t, dir, "part1/ch1.toml", `theme = "transport"`)
	store.Reload()
	reloaded, err := store.Load(ctx, "part1/ch1")
	require.NoError(t, err)
	assert.Equal(t, "transport", reloaded.Theme)
}

func TestRuleStore_Load_ConcurrentAccess(t *testing.T) {
	store, err := NewRuleStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]*domain.ChapterConfig, 20)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cfg, err := store.Load(context.Background(), "part0/ch0")
			assert.NoError(t, err)
			results[i] = cfg
		}()
	}
	wg.Wait()

	for _, cfg := range results {
		require.NotNil(t, cfg)
		assert.Equal(t, "history", cfg.Theme)
	}
}

func TestRuleStore_Slugs(t *testing.T) {
	dir := t.TempDir()
	writeRules(t, dir, "part2/ch4.toml", `theme = "transport"`)
	writeRules(t, dir, "default.toml", ``)
	writeRules(t, dir, "notes.txt", `ignored`)
	store, err := NewRuleStore(dir)
	require.NoError(t, err)

	slugs := store.Slugs()

	assert.Contains(t, slugs, "part0/ch0")
	assert.Contains(t, slugs, "part2/ch4")
	assert.NotContains(t, slugs, "default")
	assert.NotContains(t, slugs, "notes")
	assert.IsIncreasing(t, slugs)
}
