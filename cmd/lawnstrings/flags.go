package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aretw0/lawnstrings"
	"github.com/aretw0/lawnstrings/pkg/core"
)

func formatFlag(cmd *cobra.Command, name string) core.Format {
	s, _ := cmd.Flags().GetString(name)
	f, err := core.ParseFormat(s)
	if err != nil {
		fatal("Invalid --"+name, err)
	}
	return f
}

// excludeFlag loads the --exclude list, falling back to exclude.file from the config.
func excludeFlag(cmd *cobra.Command) core.ExcludeSet {
	path, _ := cmd.Flags().GetString("exclude")
	if path == "" {
		path = cfg.Exclude.File
	}
	set, err := lawnstrings.LoadExcludeList(path)
	if err != nil {
		fatal("Error reading exclude list", err)
	}
	return set
}

func inputsFlag(args []string) []string {
	inputs, err := lawnstrings.ExpandInputs(args)
	if err != nil {
		fatal("Error resolving inputs", err)
	}
	return inputs
}

// applyEncodingFlags rebuilds the engine when any of the named encoding flags
// was given. Empty names are skipped.
func applyEncodingFlags(cmd *cobra.Command, inFlag, outFlag string) {
	changed := false
	for _, f := range []struct {
		name   string
		target *string
	}{
		{inFlag, &cfg.Encoding.In},
		{outFlag, &cfg.Encoding.Out},
	} {
		if f.name == "" || !cmd.Flags().Changed(f.name) {
			continue
		}
		s, _ := cmd.Flags().GetString(f.name)
		if _, err := core.ParseEncoding(s); err != nil {
			fatal("Invalid --"+f.name, err)
		}
		*f.target = s
		changed = true
	}
	if changed {
		engine = lawnstrings.New(
			lawnstrings.WithConfig(cfg),
			lawnstrings.WithLogger(slog.Default()),
		)
	}
}
