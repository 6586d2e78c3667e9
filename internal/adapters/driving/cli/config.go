package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
)

// settingKeys are the keys shown by config show.
var settingKeys = []string{"content.dir", "rules.dir", "data.dir", "render.width", "render.style"}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change settings",
	Long: `Settings live in config.toml in the config directory. Command-line flags
override them.

Keys:
  content.dir    directory containing chapters/
  rules.dir      directory with chapter rule overrides
  data.dir       directory for the search index
  render.width   wrap width for render (0 = detect)
  render.style   terminal style: auto, dark, light, notty, ascii`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	store, err := configStore()
	if err != nil {
		return err
	}

	cmd.Printf("Config file: %s\n\n", store.Path())
	keys := append([]string{}, settingKeys...)
	for _, key := range store.Keys() {
		if !slices.Contains(keys, key) {
			keys = append(keys, key)
		}
	}
	for _, key := range keys {
		val, ok := store.Get(key)
		if !ok {
			cmd.Printf("  %-14s (unset)\n", key)
			continue
		}
		cmd.Printf("  %-14s %v\n", key, val)
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	store, err := configStore()
	if err != nil {
		return err
	}

	if err := store.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("setting %s: %w", args[0], err)
	}
	cmd.Printf("%s = %s\n", args[0], args[1])
	return nil
}
