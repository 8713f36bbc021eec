package main

import (
	"github.com/spf13/cobra"
)

var manifestCmd = &cobra.Command{
	Use:   "manifest [file]",
	Short: "Print the file list entry for a strings file",
	Long:  `Print the JSON entry (name and MD5 hash) the server's file list holds for FILE.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name, _ := cmd.Flags().GetString("name")

		m, err := engine.Manifest(args[0], name)
		if err != nil {
			fatal("Error hashing", err)
		}
		if _, err := m.WriteTo(cmd.OutOrStdout()); err != nil {
			fatal("Error writing manifest", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(manifestCmd)
	manifestCmd.Flags().StringP("name", "n", "", "Resource name (default: base name of FILE)")
}
