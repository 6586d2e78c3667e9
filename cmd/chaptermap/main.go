// Command chaptermap maps semiconductor textbook chapters to presentation
// components and renders them in the terminal, over MCP or as JSON.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/semiconbook/chaptermap/internal/adapters/driven/config/file"
	"github.com/semiconbook/chaptermap/internal/adapters/driven/content/filesystem"
	"github.com/semiconbook/chaptermap/internal/adapters/driven/presenter/jsonout"
	"github.com/semiconbook/chaptermap/internal/adapters/driven/presenter/terminal"
	"github.com/semiconbook/chaptermap/internal/adapters/driven/storage/memory"
	"github.com/semiconbook/chaptermap/internal/adapters/driven/storage/sqlite"
	"github.com/semiconbook/chaptermap/internal/adapters/driving/cli"
	"github.com/semiconbook/chaptermap/internal/components"
	"github.com/semiconbook/chaptermap/internal/core/domain"
	"github.com/semiconbook/chaptermap/internal/core/ports/driven"
	"github.com/semiconbook/chaptermap/internal/core/services"
	"github.com/semiconbook/chaptermap/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

// searchIndex is a search index that must be closed.
type searchIndex interface {
	driven.SearchIndex
	Close() error
}

// bootstrap wires the adapters. Flag values win over config.toml, which
// wins over built-in defaults.
func bootstrap(ctx context.Context, s cli.Settings) (*cli.Services, error) {
	configDir := s.ConfigDir
	if configDir == "" {
		home, err := file.DefaultHome()
		if err != nil {
			return nil, err
		}
		configDir = home
	}
	config, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	contentDir := pick(s.ContentDir, config.GetString(file.KeyContentDir))
	rulesDir := pick(s.RulesDir, config.GetString(file.KeyRulesDir))
	dataDir := pick(s.DataDir, config.GetString(file.KeyDataDir))
	logger.Debug("content=%s rules=%s data=%s", contentDir, rulesDir, dataDir)

	if info, err := os.Stat(filepath.Join(contentDir, filesystem.ChaptersDir)); err != nil || !info.IsDir() {
		logger.Warn("no %s directory under %s", filesystem.ChaptersDir, contentDir)
	}

	source := filesystem.New(contentDir)
	rules, err := file.NewRuleStore(rulesDir)
	if err != nil {
		return nil, fmt.Errorf("rules: %w", err)
	}

	index, persistent := openIndex(dataDir)
	search := services.NewSearchService(source, index)
	if !persistent {
		if _, err := search.Reindex(ctx); err != nil {
			logger.Warn("building in-memory index: %v", err)
		}
	}

	return &cli.Services{
		Chapters:  services.NewChapterService(source, rules, components.NewDefaultRegistry()),
		Search:    search,
		Refresher: search,
		Watcher:   source,
		Rules:     rules,
		Config:    config,
		Presenter: newPresenter,
		Close: func() error {
			return errors.Join(index.Close(), source.Close())
		},
	}, nil
}

// openIndex opens the SQLite index, falling back to an in-memory index
// when the data directory is unusable. The bool reports persistence.
func openIndex(dataDir string) (searchIndex, bool) {
	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		logger.Warn("search index unavailable, using memory index: %v", err)
		return memory.NewSearchIndex(), false
	}
	return store, true
}

func newPresenter(opts cli.PresentOptions) (driven.Presenter, error) {
	switch opts.Format {
	case "", terminal.FormatName:
		var topts []terminal.Option
		if opts.Width > 0 {
			topts = append(topts, terminal.WithWidth(opts.Width))
		}
		if opts.Style != "" {
			topts = append(topts, terminal.WithStyle(opts.Style))
		}
		topts = append(topts, terminal.WithProps(opts.Props))
		return terminal.New(topts...), nil
	case jsonout.FormatName:
		return jsonout.New(false), nil
	default:
		return nil, fmt.Errorf("format %q: %w", opts.Format, domain.ErrInvalidInput)
	}
}

func pick(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
