package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var chaptersJSON bool

var chaptersCmd = &cobra.Command{
	Use:   "chapters",
	Short: "List chapters and their navigation",
}

var chaptersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List chapters in reading order",
	Args:  cobra.NoArgs,
	RunE:  runChaptersList,
}

var chaptersNavCmd = &cobra.Command{
	Use:   "nav [slug]",
	Short: "Show the previous and next chapter",
	Args:  cobra.ExactArgs(1),
	RunE:  runChaptersNav,
}

func init() {
	chaptersCmd.PersistentFlags().BoolVar(&chaptersJSON, "json", false, "output as JSON")
	chaptersCmd.AddCommand(chaptersListCmd)
	chaptersCmd.AddCommand(chaptersNavCmd)
	rootCmd.AddCommand(chaptersCmd)
}

func runChaptersList(cmd *cobra.Command, _ []string) error {
	svc, err := chapterService()
	if err != nil {
		return err
	}

	refs, err := svc.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing chapters: %w", err)
	}

	if chaptersJSON {
		return printJSON(cmd, refs)
	}
	if len(refs) == 0 {
		cmd.Println("No chapters found.")
		return nil
	}
	for _, ref := range refs {
		cmd.Printf("  %-20s %s\n", ref.Slug, ref.Title)
	}
	return nil
}

func runChaptersNav(cmd *cobra.Command, args []string) error {
	svc, err := chapterService()
	if err != nil {
		return err
	}

	nav, err := svc.Navigation(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("navigation: %w", err)
	}

	if chaptersJSON {
		return printJSON(cmd, nav)
	}
	prev, next := "(none)", "(none)"
	if nav.Prev != nil {
		prev = *nav.Prev
	}
	if nav.Next != nil {
		next = *nav.Next
	}
	cmd.Printf("prev: %s\nnext: %s\n", prev, next)
	return nil
}
