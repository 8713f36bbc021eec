package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/lawnstrings/pkg/core"
)

var convertCmd = &cobra.Command{
	Use:   "convert [files...]",
	Short: "Convert string tables between formats",
	Long: `Convert each input from --from to --to. Inputs may be glob patterns
("res/**/*.txt"). Results are written next to the input as <name>_converted
unless output.dir is configured.

Formats: plain, json-list, json-map, rton-list, rton-map.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		from := formatFlag(cmd, "from")
		to := formatFlag(cmd, "to")
		applyEncodingFlags(cmd, "in-encoding", "out-encoding")

		failed := 0
		for _, src := range inputsFlag(args) {
			out, err := engine.ConvertFile(cmd.Context(), src, from, to)
			if errors.Is(err, core.ErrRedundantConversion) {
				continue
			}
			if err != nil {
				failed++
				continue
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
		}
		if failed > 0 {
			fatal("Error converting", fmt.Errorf("%d file(s) failed", failed))
		}
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().StringP("from", "f", "plain", "Input format")
	convertCmd.Flags().StringP("to", "t", "json-map", "Output format")
	convertCmd.Flags().String("in-encoding", "", "Plain-text input encoding (utf8-bom, utf16le)")
	convertCmd.Flags().String("out-encoding", "", "Plain-text output encoding (utf8-bom, utf16le)")
}
