package platform

import (
	"log/slog"
	"sync"

	"github.com/aretw0/lawnstrings/pkg/adapters/jsonfmt"
	"github.com/aretw0/lawnstrings/pkg/adapters/plain"
	"github.com/aretw0/lawnstrings/pkg/adapters/remote"
	"github.com/aretw0/lawnstrings/pkg/adapters/rton"
	"github.com/aretw0/lawnstrings/pkg/core"
)

// Engine runs string table operations on files. It wires the codecs into a
// core.Service and owns the remote client.
type Engine struct {
	service *core.Service
	remote  *remote.Client
	logger  *slog.Logger
	opts    *options

	mu       sync.Mutex
	watching []string
	written  int
}

// New creates an Engine.
//
//	eng := platform.New(platform.WithLogger(logger), platform.WithStrict(true))
//	out, err := eng.ConvertFile(ctx, "strings.txt", core.FormatPlainText, core.FormatJSONMap)
func New(opts ...Option) *Engine {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	logger := o.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var plainOpts []plain.Option
	if o.newline != "" {
		plainOpts = append(plainOpts, plain.WithLineTerminator(o.newline))
	}
	plainCodec := plain.NewCodec(plainOpts...)

	service := core.NewService(core.Codecs{
		Plain:    plainCodec,
		Document: jsonfmt.NewCodec(),
		Binary:   rton.NewCodec(),
	}, core.ServiceConfig{
		Logger:      logger,
		StrictOrder: o.strict,
	})

	remoteOpts := []remote.Option{
		remote.WithServers(o.servers),
		remote.WithTransform(o.transform),
		remote.WithPlainCodec(plainCodec),
		remote.WithLogger(logger),
	}
	if o.httpClient != nil {
		remoteOpts = append(remoteOpts, remote.WithHTTPClient(o.httpClient))
	} else {
		remoteOpts = append(remoteOpts, remote.WithTimeout(o.timeout))
	}

	return &Engine{
		service: service,
		remote:  remote.NewClient(remoteOpts...),
		logger:  logger,
		opts:    o,
	}
}

// Service returns the underlying core service.
func (e *Engine) Service() *core.Service {
	return e.service
}

// Remote returns the client used for downloads.
func (e *Engine) Remote() *remote.Client {
	return e.remote
}
