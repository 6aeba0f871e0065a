package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/user/reactvid-cli/annotation"
	"github.com/user/reactvid-cli/config"
)

var sortCmd = &cobra.Command{
	Use:       "sort [asc|desc|toggle]",
	Short:     "Show or change the comment sort order",
	Long:      `Show the display order of comments, or set it. The choice is saved to the config file and applies to lists, the TUI and exports.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"asc", "desc", "toggle"},
	RunE: func(cmd *cobra.Command, args []string) error {
		current, err := annotation.ParseSortOrder(cfg.SortOrder)
		if err != nil {
			return err
		}
		if len(args) == 0 {
			fmt.Printf("Sort order: %s (%s)\n", current, sortLabel(current))
			return nil
		}

		var next annotation.SortOrder
		switch args[0] {
		case "toggle":
			next = annotation.Ascending
			if current == annotation.Ascending {
				next = annotation.Descending
			}
		default:
			next, err = annotation.ParseSortOrder(args[0])
			if err != nil {
				return err
			}
		}

		cfg.SortOrder = string(next)
		path := configPath
		if path == "" {
			if path, err = config.DefaultPath(); err != nil {
				return err
			}
		}
		if err := cfg.Save(path); err != nil {
			return fmt.Errorf("failed to save sort order: %w", err)
		}
		fmt.Printf("Sort order: %s (%s)\n", next, sortLabel(next))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sortCmd)
}
