package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/lawnstrings"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of lawnstrings",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "lawnstrings version %s\n", strings.TrimSpace(lawnstrings.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
