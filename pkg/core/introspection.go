package core

import (
	"maps"

	"github.com/aretw0/introspection"
)

// ServiceState exposes internal state for observability.
type ServiceState struct {
	StrictOrder bool              `json:"strict_order"`
	Codecs      map[string]string `json:"codecs"`
	Operations  map[string]int    `json:"operations"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return ServiceState{
		StrictOrder: s.strict,
		Codecs: map[string]string{
			"plain":    componentType(s.codecs.Plain),
			"document": componentType(s.codecs.Document),
			"binary":   componentType(s.codecs.Binary),
		},
		Operations: maps.Clone(s.stats),
	}
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "service"
}

func componentType(codec any) string {
	if codec == nil {
		return "none"
	}
	if comp, ok := codec.(introspection.Component); ok {
		return comp.ComponentType()
	}
	return "codec"
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)
