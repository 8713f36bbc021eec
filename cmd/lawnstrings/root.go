package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/lawnstrings"
)

var (
	verbose    bool
	logFormat  string
	configPath string

	// Populated by PersistentPreRun.
	cfg    *lawnstrings.Config
	engine *lawnstrings.Engine
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "lawnstrings",
	Short: "Convert, sort and compare Plants vs. Zombies 2 string tables",
	Long: `LawnStrings works with the game's localization tables in plain text,
JSON and RTON. Any format converts to any other, keys sort in natural order
and tables can be compared against each other or against a content server.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		path := configPath
		if path == "" {
			if wd, err := os.Getwd(); err == nil {
				path, _ = lawnstrings.FindConfig(wd)
			}
		}

		loaded, err := lawnstrings.LoadConfig(path)
		if err != nil {
			fatal("Error loading config", err)
		}
		cfg = loaded

		logger := newLogger(cmd.ErrOrStderr(), cfg)
		slog.SetDefault(logger)
		if path != "" {
			logger.Debug("config loaded", "file", path)
		}

		engine = lawnstrings.New(
			lawnstrings.WithConfig(cfg),
			lawnstrings.WithLogger(logger),
		)
	},
}

func newLogger(w io.Writer, cfg *lawnstrings.Config) *slog.Logger {
	level := cfg.LogLevel()
	if verbose {
		level = slog.LevelDebug
	}

	format := cfg.Log.Format
	if logFormat != "" {
		format = logFormat
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format (text or json)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: nearest lawnstrings.toml)")
}
