package cli

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/semiconbook/chaptermap/internal/core/domain"
	"github.com/semiconbook/chaptermap/internal/logger"
)

var watchInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-index and re-render chapters as they change",
	Long: `Watches the chapters directory. Each changed chapter is re-indexed and
re-rendered, and a one-line report is printed. Bursts of file events are
paced to at most one chapter per --interval.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 250*time.Millisecond, "minimum time between re-renders")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if _, err := chapterService(); err != nil {
		return err
	}
	if services.Watcher == nil {
		return errors.New("content watcher not configured")
	}

	ctx := cmd.Context()
	changes, err := services.Watcher.Watch(ctx)
	if err != nil {
		return err
	}

	limit := rate.Inf
	if watchInterval > 0 {
		limit = rate.Every(watchInterval)
	}
	limiter := rate.NewLimiter(limit, 1)

	cmd.Println("Watching for changes (Ctrl+C to stop)...")
	for {
		select {
		case <-ctx.Done():
			return nil
		case change, ok := <-changes:
			if !ok {
				return nil
			}
			if err := limiter.Wait(ctx); err != nil {
				return nil
			}
			handleChange(ctx, cmd, change)
		}
	}
}

func handleChange(ctx context.Context, cmd *cobra.Command, change domain.ContentChange) {
	logger.Debug("%s %s (%s)", change.Type, change.Slug, change.Path)
	if services.Rules != nil {
		services.Rules.Invalidate(change.Slug)
	}
	if services.Refresher != nil {
		if err := services.Refresher.Refresh(ctx, change.Slug); err != nil {
			logger.Warn("re-indexing %s: %v", change.Slug, err)
		}
	}

	if change.Type == domain.ChangeDeleted {
		cmd.Printf("  removed %s\n", change.Slug)
		return
	}
	chapter, err := services.Chapters.Render(ctx, change.Slug)
	if err != nil {
		cmd.Printf("  error   %s: %v\n", change.Slug, err)
		return
	}
	cmd.Printf("  %-7s %s: %d blocks, %d warnings\n", change.Type, change.Slug, len(chapter.Blocks), len(chapter.Warnings))
}
