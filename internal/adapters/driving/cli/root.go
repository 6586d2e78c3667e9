// Package cli provides the cobra command tree of chaptermap.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/semiconbook/chaptermap/internal/core/ports/driven"
	"github.com/semiconbook/chaptermap/internal/core/ports/driving"
	"github.com/semiconbook/chaptermap/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// skipServices marks commands that run without the services.
const skipServices = "skip-services"

// Settings are the global flag values.
type Settings struct {
	ContentDir string
	RulesDir   string
	DataDir    string
	ConfigDir  string
	Verbose    bool
}

// Refresher re-indexes one chapter.
type Refresher interface {
	Refresh(ctx context.Context, slug string) error
}

// RuleCache drops cached chapter rule sets.
type RuleCache interface {
	Invalidate(slug string)
	Reload()

	// Slugs lists the chapters that have a rule file.
	Slugs() []string
}

// Services aggregates the ports the commands drive. Only Chapters is
// required; commands needing a missing optional port report it.
type Services struct {
	Chapters  driving.ChapterService
	Search    driving.SearchService
	Refresher Refresher
	Watcher   driven.ContentWatcher
	Rules     RuleCache
	Config    driven.ConfigStore
	Presenter PresenterFactory

	// Close releases resources such as the index database.
	Close func() error
}

// PresentOptions select and configure a presenter.
type PresentOptions struct {
	Format string
	Width  int
	Style  string
	Props  bool
}

// PresenterFactory returns the presenter for the options.
type PresenterFactory func(opts PresentOptions) (driven.Presenter, error)

// Bootstrap builds the services from the global settings.
type Bootstrap func(ctx context.Context, settings Settings) (*Services, error)

var (
	settings  Settings
	services  *Services
	bootstrap Bootstrap
)

var rootCmd = &cobra.Command{
	Use:   "chaptermap",
	Short: "Map textbook chapters to presentation components",
	Long: `chaptermap loads semiconductor textbook chapters (Markdown/MDX with
frontmatter), splits them into sections and blocks, and maps every block to a
presentation component through per-chapter rule sets.

Rules come from the built-in rule sets, overridden by TOML or YAML files in
the rules directory (~/.chaptermap/rules by default).`,
	SilenceUsage:      true,
	PersistentPreRunE: prepare,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&settings.ContentDir, "content-dir", "", "directory containing chapters/ (default from config, then .)")
	flags.StringVar(&settings.RulesDir, "rules-dir", "", "directory with chapter rule overrides (default ~/.chaptermap/rules)")
	flags.StringVar(&settings.DataDir, "data-dir", "", "directory for the search index (default ~/.chaptermap/data)")
	flags.StringVar(&settings.ConfigDir, "config-dir", "", "directory containing config.toml (default ~/.chaptermap)")
	flags.BoolVarP(&settings.Verbose, "verbose", "v", false, "enable debug logging")
}

// SetServices injects ready-made services. Bootstrap is skipped when set.
func SetServices(s *Services) {
	services = s
}

// SetBootstrap sets the function that builds the services on first use.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command. Interrupts cancel the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer closeServices()
	return rootCmd.ExecuteContext(ctx)
}

func prepare(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(settings.Verbose)
	if services != nil || bootstrap == nil || cmd.Annotations[skipServices] == "true" {
		return nil
	}
	svc, err := bootstrap(cmd.Context(), settings)
	if err != nil {
		return fmt.Errorf("initialising: %w", err)
	}
	services = svc
	return nil
}

func closeServices() {
	if services == nil || services.Close == nil {
		return
	}
	if err := services.Close(); err != nil {
		logger.Warn("closing services: %v", err)
	}
}

func chapterService() (driving.ChapterService, error) {
	if services == nil || services.Chapters == nil {
		return nil, errors.New("chapter service not configured")
	}
	return services.Chapters, nil
}

func searchService() (driving.SearchService, error) {
	if services == nil || services.Search == nil {
		return nil, errors.New("search service not configured")
	}
	return services.Search, nil
}

func configStore() (driven.ConfigStore, error) {
	if services == nil || services.Config == nil {
		return nil, errors.New("config store not configured")
	}
	return services.Config, nil
}

// printJSON writes v as indented JSON.
func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

// preview shortens text to n runes on a single line.
func preview(text string, n int) string {
	runes := []rune(text)
	for i, r := range runes {
		if r == '\n' || r == '\r' || r == '\t' {
			runes[i] = ' '
		}
	}
	if len(runes) <= n {
		return string(runes)
	}
	return string(runes[:n]) + "…"
}
