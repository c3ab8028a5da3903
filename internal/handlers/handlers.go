// Package handlers stores the Go behaviour of builders under handler names.
// Manifests refer to a handler by name; the registry binds the two.
package handlers

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/specialistvlad/objectmomma/internal/builder"
)

// Handlers holds all the registered builder hooks.
type Handlers struct {
	mu  sync.RWMutex
	all map[string]builder.Hooks
}

// New creates and initializes a new Handlers instance.
func New() *Handlers {
	return &Handlers{
		all: make(map[string]builder.Hooks),
	}
}

// RegisterHandler registers the hooks for a handler name.
func (h *Handlers) RegisterHandler(name string, hooks builder.Hooks) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.all[name]; exists {
		panic(fmt.Sprintf("builder handler with name '%s' already registered", name))
	}
	slog.Debug("Registering builder handler.", "name", name)
	h.all[name] = hooks
}

// Lookup returns the hooks registered under name.
func (h *Handlers) Lookup(name string) (builder.Hooks, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	hooks, ok := h.all[name]
	return hooks, ok
}

// Names returns the registered handler names, sorted.
func (h *Handlers) Names() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	names := make([]string, 0, len(h.all))
	for name := range h.all {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
