// internal/component/registry.go
//
// Component registry (cycle-free).
//
// Each concrete component lives under components/<name>.  Components that
// need runtime dependencies are built in cmd/web and handed to Register;
// the router then mounts every component’s Routes() at its Pattern().  Two
// components claiming the same pattern is a wiring bug and chi panics.

package component

import (
	"sort"
	"sync"

	"github.com/go-chi/chi/v5"
)

// Component contract.
//
// Routes() should mount BOTH page and API endpoints, e.g:
//
//	r := chi.NewRouter()
//	r.Get("/", getPage)
//	r.Post("/login", postLogin)
//	return r
type Component interface {
	Name() string
	Pattern() string // mount point, usually "/"
	Routes() chi.Router
}

var (
	mu       sync.RWMutex
	registry = map[string]Component{}
)

// Register adds c, replacing any component with the same name.
func Register(c Component) {
	mu.Lock()
	registry[c.Name()] = c
	mu.Unlock()
}

// All returns every registered component sorted by name.
func All() []Component {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Component, 0, len(registry))
	for _, c := range registry {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Mount attaches every registered component to r.
func Mount(r chi.Router) {
	for _, c := range All() {
		r.Mount(c.Pattern(), c.Routes())
	}
}
