package platform

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/lawnstrings/internal/config"
	"github.com/aretw0/lawnstrings/pkg/adapters/remote"
	"github.com/aretw0/lawnstrings/pkg/core"
)

// options holds the internal configuration for the Engine.
type options struct {
	logger       *slog.Logger
	strict       bool
	encodingIn   core.Encoding
	encodingOut  core.Encoding
	outputDir    string
	newline      string
	servers      remote.Servers
	transform    remote.Transform
	timeout      time.Duration
	httpClient   *http.Client
	debounce     time.Duration
	errorHandler func(error)
}

// Option defines a functional option for configuring the Engine.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		servers:   remote.DefaultServers(),
		transform: remote.TransformPlain,
		timeout:   remote.DefaultTimeout,
		debounce:  100 * time.Millisecond,
	}
}

// WithLogger sets the logger for the engine and its adapters.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStrict makes sorting fail on digit runs beyond the 63-bit range
// instead of comparing them by magnitude.
func WithStrict(strict bool) Option {
	return func(o *options) {
		o.strict = strict
	}
}

// WithEncodings sets the plain-text encodings read and written.
func WithEncodings(in, out core.Encoding) Option {
	return func(o *options) {
		o.encodingIn = in
		o.encodingOut = out
	}
}

// WithOutputDir writes results to dir instead of next to their input.
func WithOutputDir(dir string) Option {
	return func(o *options) {
		o.outputDir = dir
	}
}

// WithLineTerminator overrides the platform line terminator of plain-text output.
func WithLineTerminator(s string) Option {
	return func(o *options) {
		o.newline = s
	}
}

// WithServers replaces the remote server table.
func WithServers(s remote.Servers) Option {
	return func(o *options) {
		o.servers = s
	}
}

// WithTransform sets the compiled-text transform of downloaded resources.
func WithTransform(t remote.Transform) Option {
	return func(o *options) {
		o.transform = t
	}
}

// WithTimeout sets the per-request timeout of downloads.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithHTTPClient injects the HTTP client used for downloads (e.g. in tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) {
		o.httpClient = hc
	}
}

// WithDebounce sets how long Watch waits for writes to settle.
func WithDebounce(d time.Duration) Option {
	return func(o *options) {
		o.debounce = d
	}
}

// WithWatcherErrorHandler registers a callback for errors raised inside the Watch loop.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.errorHandler = fn
	}
}

// WithConfig applies every setting of a loaded configuration file.
// Options given after it still take precedence.
func WithConfig(cfg *config.Config) Option {
	return func(o *options) {
		if cfg == nil {
			return
		}
		if in, out, err := cfg.Encodings(); err == nil {
			o.encodingIn, o.encodingOut = in, out
		}
		if d, err := cfg.RemoteTimeout(); err == nil {
			o.timeout = d
		}
		if t, err := remote.ParseTransform(cfg.Remote.Transform); err == nil {
			o.transform = t
		}
		if len(cfg.Remote.Servers) > 0 {
			o.servers = cfg.Remote.Servers
		}
		o.strict = cfg.Sort.Strict
		o.outputDir = cfg.Output.Dir
	}
}
