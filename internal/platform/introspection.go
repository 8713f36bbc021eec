package platform

import (
	"slices"

	"github.com/aretw0/introspection"

	"github.com/aretw0/lawnstrings/pkg/core"
)

// EngineState exposes internal state for observability.
type EngineState struct {
	Service      core.ServiceState `json:"service"`
	EncodingIn   string            `json:"encoding_in"`
	EncodingOut  string            `json:"encoding_out"`
	OutputDir    string            `json:"output_dir,omitempty"`
	Servers      []string          `json:"servers"`
	Transform    string            `json:"transform"`
	Timeout      string            `json:"timeout"`
	FilesWritten int               `json:"files_written"`
	Watching     []string          `json:"watching,omitempty"`
}

// State implements introspection.Introspectable.
func (e *Engine) State() any {
	svc, _ := e.service.State().(core.ServiceState)

	e.mu.Lock()
	defer e.mu.Unlock()

	return EngineState{
		Service:      svc,
		EncodingIn:   e.opts.encodingIn.String(),
		EncodingOut:  e.opts.encodingOut.String(),
		OutputDir:    e.opts.outputDir,
		Servers:      e.opts.servers.Names(),
		Transform:    string(e.opts.transform),
		Timeout:      e.opts.timeout.String(),
		FilesWritten: e.written,
		Watching:     slices.Clone(e.watching),
	}
}

// ComponentType implements introspection.Component.
func (e *Engine) ComponentType() string {
	return "engine"
}

var _ introspection.Introspectable = (*Engine)(nil)
var _ introspection.Component = (*Engine)(nil)
