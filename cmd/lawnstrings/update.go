package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:   "update [local]",
	Short: "Extract the strings a server has and a local table lacks",
	Long: `Download the server's plain-text strings and write the entries whose
keys are missing from LOCAL to <local>_update.txt.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		server, _ := cmd.Flags().GetString("server")

		out, err := engine.Update(cmd.Context(), args[0], server, excludeFlag(cmd))
		if err != nil {
			fatal("Error updating", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)
	updateCmd.Flags().StringP("server", "s", "release", "Server name")
	updateCmd.Flags().StringP("exclude", "e", "", "File listing keys to ignore")
}
