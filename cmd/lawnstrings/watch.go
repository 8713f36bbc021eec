package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/lawnstrings/pkg/adapters/lifecycle"
)

var watchCmd = &cobra.Command{
	Use:   "watch [file]",
	Short: "Convert a file again every time it changes",
	Long: `Convert FILE from --from to --to once, then again after every change,
until interrupted. Every run overwrites the same output file.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		from := formatFlag(cmd, "from")
		to := formatFlag(cmd, "to")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		events, err := engine.Watch(ctx, args[0], from, to)
		if err != nil {
			fatal("Error starting watch", err)
		}

		src := lifecycle.NewSource(events)
		if err := src.Start(ctx); err != nil {
			fatal("Error starting watch", err)
		}
		for ev := range src.Events() {
			fmt.Fprintln(cmd.OutOrStdout(), ev.String())
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringP("from", "f", "plain", "Input format")
	watchCmd.Flags().StringP("to", "t", "json-map", "Output format")
}
