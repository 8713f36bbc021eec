package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/lawnstrings/pkg/core"
)

var diffCmd = &cobra.Command{
	Use:   "diff [old] [new]",
	Short: "Compare two string tables",
	Long: `Compare NEW against OLD and write the result next to OLD as <old>_diff.

Modes:
  added    keys present only in NEW
  changed  keys present in both whose value differs (NEW's value)
  full     added followed by changed`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		format := formatFlag(cmd, "format")
		modeName, _ := cmd.Flags().GetString("mode")
		mode, err := core.ParseCompareMode(modeName)
		if err != nil {
			fatal("Invalid --mode", err)
		}

		out, err := engine.CompareFiles(cmd.Context(), args[0], args[1], format, mode, excludeFlag(cmd))
		if err != nil {
			fatal("Error comparing", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
	},
}

func init() {
	rootCmd.AddCommand(diffCmd)
	diffCmd.Flags().StringP("format", "f", "plain", "Format of both inputs")
	diffCmd.Flags().StringP("mode", "m", "added", "Comparison mode (added, changed, full)")
	diffCmd.Flags().StringP("exclude", "e", "", "File listing keys to ignore")
}
