package registry

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/davidbz/lumen/internal/domain"
)

// Registry implements the UpstreamRegistry interface.
type Registry struct {
	mu        sync.RWMutex
	upstreams map[string]domain.Upstream
}

// NewRegistry creates a new upstream registry.
func NewRegistry() *Registry {
	return &Registry{
		mu:        sync.RWMutex{},
		upstreams: make(map[string]domain.Upstream),
	}
}

// Register adds an upstream to the registry.
func (r *Registry) Register(_ context.Context, upstream domain.Upstream) error {
	if upstream == nil {
		return errors.New("upstream cannot be nil")
	}

	name := upstream.Name()
	if name == "" {
		return errors.New("upstream name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.upstreams[name]; exists {
		return fmt.Errorf("upstream %s already registered", name)
	}

	r.upstreams[name] = upstream
	return nil
}

// Get retrieves an upstream by name.
func (r *Registry) Get(_ context.Context, name string) (domain.Upstream, error) {
	if name == "" {
		return nil, errors.New("upstream name cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	upstream, exists := r.upstreams[name]
	if !exists {
		return nil, fmt.Errorf("upstream %s not found", name)
	}

	return upstream, nil
}

// List returns the sorted names of all registered upstreams.
func (r *Registry) List(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.upstreams))
	for name := range r.upstreams {
		names = append(names, name)
	}
	sort.Strings(names)

	return names, nil
}
