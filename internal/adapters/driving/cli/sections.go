package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	sectionsJSON bool
	blocksJSON   bool
)

var sectionsCmd = &cobra.Command{
	Use:   "sections [slug]",
	Short: "Split a chapter into titled sections",
	Long: `Splits a chapter at its headings. Headings that name a known section
(章节目标, 本章逻辑位, 核心内容, ...) are tagged with their component.`,
	Args: cobra.ExactArgs(1),
	RunE: runSections,
}

var blocksCmd = &cobra.Command{
	Use:   "blocks [slug]",
	Short: "Show the classified blocks of a chapter",
	Args:  cobra.ExactArgs(1),
	RunE:  runBlocks,
}

func init() {
	sectionsCmd.Flags().BoolVar(&sectionsJSON, "json", false, "output as JSON")
	blocksCmd.Flags().BoolVar(&blocksJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(sectionsCmd)
	rootCmd.AddCommand(blocksCmd)
}

func runSections(cmd *cobra.Command, args []string) error {
	svc, err := chapterService()
	if err != nil {
		return err
	}

	sections, err := svc.Sections(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("splitting chapter: %w", err)
	}

	if sectionsJSON {
		return printJSON(cmd, sections)
	}
	if len(sections) == 0 {
		cmd.Println("No sections found.")
		return nil
	}
	for i, sec := range sections {
		title := sec.Title
		if title == "" {
			title = "(untitled)"
		}
		if sec.Component != "" {
			cmd.Printf("  [%d] %s → %s\n", i, title, sec.Component)
		} else {
			cmd.Printf("  [%d] %s\n", i, title)
		}
		if p := preview(sec.Content, 60); p != "" {
			cmd.Printf("      %s\n", p)
		}
	}
	return nil
}

func runBlocks(cmd *cobra.Command, args []string) error {
	svc, err := chapterService()
	if err != nil {
		return err
	}

	blocks, err := svc.Blocks(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("tokenizing chapter: %w", err)
	}

	if blocksJSON {
		return printJSON(cmd, blocks)
	}
	if len(blocks) == 0 {
		cmd.Println("No blocks found.")
		return nil
	}
	for _, b := range blocks {
		kind := string(b.Type)
		if b.ContentType != "" && b.ContentType != b.Type {
			kind += "/" + string(b.ContentType)
		}
		cmd.Printf("  [%d] %-22s %s\n", b.Position, kind, preview(b.Text, 50))
	}
	return nil
}
