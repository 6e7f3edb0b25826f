package health

import (
	"fmt"
	"sync"

	"github.com/jonwraymond/svchealth/cache"
)

type binding struct {
	svc Service
	gen uint64
}

// Registry maps service names to Services.
//
// Every Register and Unregister advances a generation counter recorded on
// the binding, so a probe can tell whether the binding it started with is
// still the current one when it finishes.
type Registry struct {
	mu       sync.RWMutex
	bindings map[string]binding
	order    []string
	gen      uint64
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		bindings: make(map[string]binding),
	}
}

// Register binds name to svc, replacing any previous binding.
func (r *Registry) Register(name string, svc Service) error {
	if err := cache.ValidateKey(name); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidServiceName, name, err)
	}
	if svc == nil {
		return fmt.Errorf("%w: %q", ErrNilService, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.bindings[name]; !exists {
		r.order = append(r.order, name)
	}
	r.gen++
	r.bindings[name] = binding{svc: svc, gen: r.gen}
	return nil
}

// Unregister removes the binding for name and reports whether one existed.
func (r *Registry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.bindings[name]; !ok {
		return false
	}
	r.gen++
	delete(r.bindings, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Lookup returns the Service bound to name.
func (r *Registry) Lookup(name string) (Service, bool) {
	b, ok := r.lookup(name)
	return b.svc, ok
}

func (r *Registry) lookup(name string) (binding, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bindings[name]
	return b, ok
}

// ifCurrent runs fn while holding the read lock if name is still bound with
// generation gen. An Unregister cannot interleave with fn.
func (r *Registry) ifCurrent(name string, gen uint64, fn func()) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bindings[name]
	if !ok || b.gen != gen {
		return false
	}
	fn()
	return true
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Len returns the number of bindings.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bindings)
}
