package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
)

var (
	explainJSON  bool
	explainBlock int
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Check and debug chapter mapping rules",
}

var rulesValidateCmd = &cobra.Command{
	Use:   "validate [slug...]",
	Short: "Validate the rule sets of chapters",
	Long: `Builds the rule set of each chapter and reports configuration errors:
unknown components, invalid regular expressions, missing default rules and
unknown props or condition functions. Without arguments every chapter with
content or a rule file is validated.`,
	RunE: runRulesValidate,
}

var rulesExplainCmd = &cobra.Command{
	Use:   "explain [slug]",
	Short: "Show which rules matched each block",
	Args:  cobra.ExactArgs(1),
	RunE:  runRulesExplain,
}

func init() {
	rulesExplainCmd.Flags().BoolVar(&explainJSON, "json", false, "output as JSON")
	rulesExplainCmd.Flags().IntVarP(&explainBlock, "block", "b", -1, "only explain the block at this position")
	rulesCmd.AddCommand(rulesValidateCmd)
	rulesCmd.AddCommand(rulesExplainCmd)
	rootCmd.AddCommand(rulesCmd)
}

func runRulesValidate(cmd *cobra.Command, args []string) error {
	svc, err := chapterService()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	slugs := args
	if len(slugs) == 0 {
		refs, err := svc.List(ctx)
		if err != nil {
			return fmt.Errorf("listing chapters: %w", err)
		}
		for _, ref := range refs {
			slugs = append(slugs, ref.Slug)
		}
		if services.Rules != nil {
			for _, slug := range services.Rules.Slugs() {
				if !slices.Contains(slugs, slug) {
					slugs = append(slugs, slug)
				}
			}
		}
	}

	failed := 0
	for _, slug := range slugs {
		if err := svc.Validate(ctx, slug); err != nil {
			failed++
			cmd.Printf("  FAIL %s: %v\n", slug, err)
			continue
		}
		cmd.Printf("  ok   %s\n", slug)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d rule sets invalid", failed, len(slugs))
	}
	return nil
}

func runRulesExplain(cmd *cobra.Command, args []string) error {
	svc, err := chapterService()
	if err != nil {
		return err
	}

	explanations, err := svc.Explain(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("explain failed: %w", err)
	}
	if explainBlock >= 0 {
		filtered := explanations[:0:0]
		for _, e := range explanations {
			if e.Block.Position == explainBlock {
				filtered = append(filtered, e)
			}
		}
		if len(filtered) == 0 {
			return fmt.Errorf("block %d not found in %s", explainBlock, args[0])
		}
		explanations = filtered
	}

	if explainJSON {
		return printJSON(cmd, explanations)
	}
	for _, e := range explanations {
		cmd.Printf("[%d] %s  %s\n", e.Block.Position, e.Block.ContentType, preview(e.Block.Text, 50))
		if e.Feature != "" {
			cmd.Printf("    feature %s → %s\n", e.Feature, e.FeatureComponent)
		}
		if len(e.Candidates) == 0 {
			cmd.Println("    (no rule matched)")
		}
		for i, c := range e.Candidates {
			marker := " "
			if i == 0 {
				marker = "*"
			}
			cmd.Printf("  %s %-28s → %-28s priority %d, score %d\n", marker, c.Rule, c.Component, c.Priority, c.Score)
		}
	}
	return nil
}
