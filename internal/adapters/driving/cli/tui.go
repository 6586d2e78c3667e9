package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/semiconbook/chaptermap/internal/adapters/driving/tui"
	"github.com/semiconbook/chaptermap/internal/logger"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse chapters interactively",
	Long: `Open a full-screen reader: list chapters, render them through their
rule sets, follow prev/next links and search the index.

Keys:
  enter    open chapter
  [ ]      previous / next chapter
  /        search
  ?        help
  q        quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	chapters, err := chapterService()
	if err != nil {
		return err
	}

	ports := tui.NewPorts(chapters, services.Search, nil)
	if services.Presenter != nil {
		opts := PresentOptions{Format: "terminal"}
		if store := services.Config; store != nil {
			opts.Style = store.GetString(renderStyleKey)
		}
		p, perr := services.Presenter(opts)
		if perr != nil {
			logger.Warn("terminal presenter unavailable, using plain text: %v", perr)
		} else {
			ports.Presenter = p
		}
	}

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("starting tui: %w", err)
	}
	return app.WithContext(cmd.Context()).Run()
}
