package services

import (
	"fmt"
	"sync"

	"github.com/offerta-labs/citemark/internal/core/domain"
	"github.com/offerta-labs/citemark/internal/core/ports/driven"
)

// Ensure BuilderRegistry implements the interface.
var _ driven.LayerRegistry = (*BuilderRegistry)(nil)

// BuilderRegistry selects layer builders by file type. When several
// builders claim a type the highest priority wins, letting the plain
// text fallback yield to format-aware builders.
type BuilderRegistry struct {
	mu       sync.RWMutex
	builders []driven.LayerBuilder
}

// NewBuilderRegistry creates an empty registry.
func NewBuilderRegistry() *BuilderRegistry {
	return &BuilderRegistry{}
}

// Register adds a builder to the registry.
func (r *BuilderRegistry) Register(b driven.LayerBuilder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.builders = append(r.builders, b)
}

// BuilderFor returns the highest-priority builder supporting the file
// type, or domain.ErrUnsupportedType.
func (r *BuilderRegistry) BuilderFor(t domain.FileType) (driven.LayerBuilder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var best driven.LayerBuilder
	for _, b := range r.builders {
		if !supports(b, t) {
			continue
		}
		if best == nil || b.Priority() > best.Priority() {
			best = b
		}
	}
	if best == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedType, t)
	}
	return best, nil
}

func supports(b driven.LayerBuilder, t domain.FileType) bool {
	for _, s := range b.SupportedTypes() {
		if s == t {
			return true
		}
	}
	return false
}
