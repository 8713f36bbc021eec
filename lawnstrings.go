package lawnstrings

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/lawnstrings/internal/config"
	"github.com/aretw0/lawnstrings/internal/platform"
	"github.com/aretw0/lawnstrings/pkg/adapters/remote"
	"github.com/aretw0/lawnstrings/pkg/core"
)

// Version exposes the version of the library.
// See version.go for the implementation using go:embed.

// --- Types ---

// Engine runs the file level operations (convert, sort, compare, update, watch).
type Engine = platform.Engine

// EngineState is the snapshot returned by Engine.State.
type EngineState = platform.EngineState

// WatchEvent reports one conversion run of Engine.Watch.
type WatchEvent = platform.WatchEvent

// Config is the content of a lawnstrings configuration file.
type Config = config.Config

type (
	Format      = core.Format
	Encoding    = core.Encoding
	CompareMode = core.CompareMode
	Entry       = core.Entry
	List        = core.List
	Map         = core.Map
	ExcludeSet  = core.ExcludeSet
)

// Supported formats.
const (
	FormatPlainText = core.FormatPlainText
	FormatJSONList  = core.FormatJSONList
	FormatJSONMap   = core.FormatJSONMap
	FormatRTONList  = core.FormatRTONList
	FormatRTONMap   = core.FormatRTONMap
)

// Plain-text encodings.
const (
	EncodingUTF8BOM = core.EncodingUTF8BOM
	EncodingUTF16LE = core.EncodingUTF16LE
)

// Compare modes.
const (
	CompareAdded    = core.CompareAdded
	CompareChanged  = core.CompareChanged
	CompareFullDiff = core.CompareFullDiff
)

// --- Configuration ---

// Option defines a functional option for configuring the Engine.
type Option = platform.Option

// WithLogger sets the logger for the engine and its adapters.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithStrict makes sorting fail on numeric runs that overflow 64 bits.
func WithStrict(strict bool) Option {
	return platform.WithStrict(strict)
}

// WithEncodings sets the plain-text input and output encodings.
func WithEncodings(in, out Encoding) Option {
	return platform.WithEncodings(in, out)
}

// WithOutputDir writes results to dir instead of next to their input.
func WithOutputDir(dir string) Option {
	return platform.WithOutputDir(dir)
}

// WithLineTerminator overrides the platform line terminator of plain-text output.
func WithLineTerminator(s string) Option {
	return platform.WithLineTerminator(s)
}

// WithServers replaces the table of content servers.
func WithServers(servers remote.Servers) Option {
	return platform.WithServers(servers)
}

// WithTransform sets the transform applied to downloaded resources.
func WithTransform(t remote.Transform) Option {
	return platform.WithTransform(t)
}

// WithTimeout bounds each remote request.
func WithTimeout(d time.Duration) Option {
	return platform.WithTimeout(d)
}

// WithHTTPClient replaces the HTTP client used for remote requests.
func WithHTTPClient(hc *http.Client) Option {
	return platform.WithHTTPClient(hc)
}

// WithDebounce sets how long Watch waits for changes to settle.
func WithDebounce(d time.Duration) Option {
	return platform.WithDebounce(d)
}

// WithWatcherErrorHandler receives errors raised while watching.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// WithConfig applies a loaded configuration file.
func WithConfig(cfg *Config) Option {
	return platform.WithConfig(cfg)
}

// --- Factory ---

// New creates an Engine.
func New(opts ...Option) *Engine {
	return platform.New(opts...)
}

// --- Utils ---

// LoadConfig reads the configuration file at path. An empty path looks for
// lawnstrings.{toml,yaml,json} in the working directory and falls back to
// defaults when there is none.
func LoadConfig(path string) (*Config, error) {
	return config.Load(path)
}

// FindConfig recursively looks upwards for a configuration file.
func FindConfig(startDir string) (string, error) {
	return platform.FindConfig(startDir)
}

// ExpandInputs resolves glob patterns into the list of matching files.
func ExpandInputs(args []string) ([]string, error) {
	return platform.ExpandInputs(args)
}

// LoadExcludeList reads the keys to leave out of diffs and updates.
func LoadExcludeList(path string) (ExcludeSet, error) {
	return platform.LoadExcludeList(path)
}

// BuildPath returns the output path for src with suffix and the extension of format.
func BuildPath(src, suffix string, format Format) string {
	return platform.BuildPath(src, suffix, format)
}
