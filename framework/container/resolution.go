package container

import (
	"sync"
	"sync/atomic"
)

var frameSeq uint64

// frame is one name being built. ids are unique across resolutions so a
// proxy can tell whether the construction that created it is still running.
type frame struct {
	name string
	id   uint64
}

// resolution holds the mutable state of one top-level Get or Make, or of a
// proxy forced while its creator is still being built: the names currently
// being built, outermost first.
type resolution struct {
	mu    sync.Mutex
	stack []frame

	// guarded by Container.mu; the edges of the wait-for graph
	waitingOn *resolution
	children  map[*resolution]struct{}
}

// enter pushes name, or fails if name is already being built further up.
func (r *resolution) enter(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if path := r.cyclePathLocked(name); path != nil {
		return CyclicDependencyError{Path: path}
	}
	r.stack = append(r.stack, frame{name: name, id: atomic.AddUint64(&frameSeq, 1)})
	return nil
}

func (r *resolution) exit() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stack = r.stack[:len(r.stack)-1]
}

func (r *resolution) inFlight(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.stack {
		if f.name == name {
			return true
		}
	}
	return false
}

func (r *resolution) depth() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stack)
}

// top returns the id of the innermost frame, or 0 when nothing is in flight.
func (r *resolution) top() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.stack) == 0 {
		return 0
	}
	return r.stack[len(r.stack)-1].id
}

// live reports whether the frame with id is still on the stack.
func (r *resolution) live(id uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.stack {
		if f.id == id {
			return true
		}
	}
	return false
}

// cyclePath returns the path that re-entering name would close: from the
// first occurrence of name to name again, or the whole stack followed by
// name when name is not on it.
func (r *resolution) cyclePath(name string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if path := r.cyclePathLocked(name); path != nil {
		return path
	}
	path := make([]string, 0, len(r.stack)+1)
	for _, f := range r.stack {
		path = append(path, f.name)
	}
	return append(path, name)
}

func (r *resolution) cyclePathLocked(name string) []string {
	for i, f := range r.stack {
		if f.name == name {
			path := make([]string, 0, len(r.stack)-i+1)
			for _, g := range r.stack[i:] {
				path = append(path, g.name)
			}
			return append(path, name)
		}
	}
	return nil
}

// fork copies the names in flight into a fresh resolution, for a proxy
// forced while r is still building.
func (r *resolution) fork() *resolution {
	r.mu.Lock()
	defer r.mu.Unlock()
	return &resolution{stack: append([]frame(nil), r.stack...)}
}

// names returns the names in flight, outermost first.
func (r *resolution) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.stack))
	for i, f := range r.stack {
		out[i] = f.name
	}
	return out
}
