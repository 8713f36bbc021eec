package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sortCmd = &cobra.Command{
	Use:   "sort [files...]",
	Short: "Sort string tables by key in natural order",
	Long: `Write a copy of each input as <name>_sorted with its keys in natural
order: digit runs compare by value, so LEVEL_9 comes before LEVEL_10.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		format := formatFlag(cmd, "format")
		applyEncodingFlags(cmd, "encoding", "encoding")

		failed := 0
		for _, src := range inputsFlag(args) {
			out, err := engine.SortFile(cmd.Context(), src, format)
			if err != nil {
				failed++
				continue
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
		}
		if failed > 0 {
			fatal("Error sorting", fmt.Errorf("%d file(s) failed", failed))
		}
	},
}

func init() {
	rootCmd.AddCommand(sortCmd)
	sortCmd.Flags().StringP("format", "f", "plain", "Format of the inputs")
	sortCmd.Flags().String("encoding", "", "Plain-text encoding of inputs and outputs (utf8-bom, utf16le)")
}
