// internal/module/registry.go
//
// A super-light registry: modules call Register(path, handler) in an init()
// function.  cmd/web mounts every registered path with Bind when
// development modules are enabled (`survey.debug`).
//
// Handler signature:
//
//	func(env *module.Env, w http.ResponseWriter, r *http.Request)
//
// Env gives handlers read access to the session store and the active
// config without importing cmd/web.
package module

import (
	"net/http"
	"sort"
	"sync"

	"github.com/yanizio/survey/internal/config"
	"github.com/yanizio/survey/internal/session"
)

// Env is the shared state handed to module handlers.
type Env struct {
	Sessions *session.Store
	Config   *config.Config
}

// Handler is what modules register.
type Handler func(*Env, http.ResponseWriter, *http.Request)

var (
	mu       sync.RWMutex
	registry = map[string]Handler{}
)

// Register is called from module init() functions.
func Register(path string, h Handler) {
	mu.Lock()
	registry[path] = h
	mu.Unlock()
}

// Lookup returns the handler for an exact path or nil.
func Lookup(path string) Handler {
	mu.RLock()
	defer mu.RUnlock()
	return registry[path]
}

// Paths lists every registered path in sorted order.
func Paths() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(registry))
	for p := range registry {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Bind closes h over env.
func Bind(env *Env, h Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) { h(env, w, r) }
}
