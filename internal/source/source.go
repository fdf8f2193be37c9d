// Package source defines the per-agency staging strategies and their
// registry.
package source

import (
	"context"
	"fmt"

	"RecallScanner/internal/domain"
)

// Source produces one agency's staged batch of canonical records from the
// raw documents of the current run.
type Source interface {
	Name() string
	Agency() domain.Agency
	Stage(ctx context.Context) ([]domain.Recall, error)
}

// Registry keeps a mapping from source names to their implementations.
type Registry struct {
	sources map[string]Source
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{sources: map[string]Source{}}
}

// Register adds or replaces a source implementation.
func (r *Registry) Register(src Source) {
	if r.sources == nil {
		r.sources = map[string]Source{}
	}
	r.sources[src.Name()] = src
}

// Resolve returns a source by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Source, error) {
	if src, ok := r.sources[name]; ok {
		return src, nil
	}
	return nil, fmt.Errorf("source %s is not registered", name)
}
