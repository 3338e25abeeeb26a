package shader

import (
	"github.com/gogpu/drawpool/internal/cache"
	"github.com/gogpu/drawpool/internal/hashx"
)

// DefaultRegistrySize is the number of programs a registry keeps.
const DefaultRegistrySize = 64

// Registry caches compiled programs by source so a shader is compiled
// once however often it is bound.
type Registry struct {
	programs *cache.Cache[uint64, *Program]
}

// NewRegistry returns a registry keeping up to capacity programs. A
// non-positive capacity selects DefaultRegistrySize.
func NewRegistry(capacity int) *Registry {
	if capacity <= 0 {
		capacity = DefaultRegistrySize
	}
	return &Registry{programs: cache.New[uint64, *Program](capacity)}
}

// Get returns the program compiled from source, compiling it on first use.
// Failed compilations are not cached.
func (r *Registry) Get(name, source string) (*Program, error) {
	key := hashx.Bytes([]byte(source))
	if p, ok := r.programs.Get(key); ok && p.source == source {
		return p, nil
	}
	p, err := Compile(name, source)
	if err != nil {
		return nil, err
	}
	r.programs.Set(key, p)
	return p, nil
}

// Len returns the number of cached programs.
func (r *Registry) Len() int { return r.programs.Len() }

// Stats returns cache statistics.
func (r *Registry) Stats() cache.Stats { return r.programs.Stats() }
