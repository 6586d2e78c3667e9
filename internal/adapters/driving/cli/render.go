package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// Config keys read as render defaults.
const (
	renderWidthKey = "render.width"
	renderStyleKey = "render.style"
)

var renderOpts PresentOptions

var renderCmd = &cobra.Command{
	Use:   "render [slug]",
	Short: "Render a chapter",
	Long: `Maps every block of a chapter to its component and prints the result.

Blocks whose component fails are shown as error placeholders; the rest of
the chapter still renders. Width and style default to render.width and
render.style from the config file.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderOpts.Format, "format", "f", "terminal", "output format: terminal or json")
	renderCmd.Flags().IntVarP(&renderOpts.Width, "width", "w", 0, "wrap width (0 = detect)")
	renderCmd.Flags().StringVar(&renderOpts.Style, "style", "", "terminal style: auto, dark, light, notty, ascii")
	renderCmd.Flags().BoolVar(&renderOpts.Props, "props", false, "show resolved props of each block")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	svc, err := chapterService()
	if err != nil {
		return err
	}
	if services.Presenter == nil {
		return errors.New("presenter not configured")
	}

	opts := renderOpts
	if store := services.Config; store != nil {
		if !cmd.Flags().Changed("width") {
			opts.Width = store.GetInt(renderWidthKey)
		}
		if !cmd.Flags().Changed("style") {
			opts.Style = store.GetString(renderStyleKey)
		}
	}

	presenter, err := services.Presenter(opts)
	if err != nil {
		return err
	}

	chapter, err := svc.Render(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	out, err := presenter.Present(chapter)
	if err != nil {
		return fmt.Errorf("present failed: %w", err)
	}
	cmd.Print(out)
	return nil
}
