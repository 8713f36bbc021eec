package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/lawnstrings/pkg/adapters/remote"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download resources from a content server",
	Long: `Download the strings, the file list or both from the named server into
<dir>/<server>. Servers come from the remote.servers table of the config.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		server, _ := cmd.Flags().GetString("server")
		dir, _ := cmd.Flags().GetString("dir")
		resName, _ := cmd.Flags().GetString("resource")

		res, err := remote.ParseResource(resName)
		if err != nil {
			fatal("Invalid --resource", err)
		}

		paths, err := engine.Download(cmd.Context(), server, res, dir)
		if err != nil {
			fatal("Error downloading", err)
		}
		for _, p := range paths {
			fmt.Fprintln(cmd.OutOrStdout(), p)
		}
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.Flags().StringP("server", "s", "release", "Server name")
	fetchCmd.Flags().StringP("resource", "r", "strings", "What to download (strings, hash, all)")
	fetchCmd.Flags().StringP("dir", "d", ".", "Base directory")
}
