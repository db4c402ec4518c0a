package definition

import (
	"sort"
	"sync"
)

//go:generate mockgen -destination=definitiontest/mock_source.go -package=definitiontest github.com/km-arc/go-di/framework/definition Source

// Source is the oracle the container asks for definitions.
//
// GetDefinition must be free of visible side effects and return the same
// answer for the same name until AddDefinition replaces it.
type Source interface {
	GetDefinition(name string) (Definition, bool)
	AddDefinition(name string, def Definition)
}

// MapSource is an in-memory Source safe for concurrent use.
type MapSource struct {
	mu   sync.RWMutex
	defs map[string]Definition
}

// NewMapSource creates a MapSource seeded with defs (which may be nil).
func NewMapSource(defs map[string]Definition) *MapSource {
	s := &MapSource{defs: make(map[string]Definition, len(defs))}
	for name, def := range defs {
		s.defs[name] = def
	}
	return s
}

func (s *MapSource) GetDefinition(name string) (Definition, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	def, ok := s.defs[name]
	return def, ok
}

func (s *MapSource) AddDefinition(name string, def Definition) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defs[name] = def
}

// Names returns the registered names in sorted order.
func (s *MapSource) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.defs))
	for name := range s.defs {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
