package registry

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/specialistvlad/objectmomma/internal/builder"
	"github.com/specialistvlad/objectmomma/internal/ctxlog"
	"github.com/specialistvlad/objectmomma/internal/fault"
	"github.com/specialistvlad/objectmomma/internal/handlers"
	"github.com/specialistvlad/objectmomma/internal/manifest"
)

// Module is the interface that all fixture modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Loader supplies builder manifests. Load returns nil, nil for unknown types.
type Loader interface {
	Load(ctx context.Context, objectType string) (*manifest.Manifest, error)
}

// Lister is implemented by loaders that can enumerate their manifests.
type Lister interface {
	All(ctx context.Context) ([]*manifest.Manifest, error)
}

// Registry caches resolved builders for a single application instance.
type Registry struct {
	mu       sync.RWMutex
	builders map[string]*builder.Builder
	handlers *handlers.Handlers
	loader   Loader
}

// New creates a registry. Both arguments may be nil.
func New(h *handlers.Handlers, loader Loader) *Registry {
	if h == nil {
		h = handlers.New()
	}
	return &Registry{
		builders: make(map[string]*builder.Builder),
		handlers: h,
		loader:   loader,
	}
}

// RegisterHandler binds Go hooks to a handler name.
func (r *Registry) RegisterHandler(name string, hooks builder.Hooks) {
	r.handlers.RegisterHandler(name, hooks)
}

// Register adds a fully formed builder, bypassing the loader.
func (r *Registry) Register(b *builder.Builder) error {
	if err := b.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.builders[b.Type]; exists {
		return fmt.Errorf("builder for type '%s' already registered", b.Type)
	}
	r.builders[b.Type] = b
	return nil
}

// Lookup returns the builder for objectType, resolving and caching it on first use.
func (r *Registry) Lookup(ctx context.Context, objectType string) (*builder.Builder, error) {
	r.mu.RLock()
	b, ok := r.builders[objectType]
	r.mu.RUnlock()
	if ok {
		return b, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resolveLocked(ctx, objectType, nil)
}

// Preload resolves every manifest the loader knows about, surfacing
// configuration errors before the first lookup.
func (r *Registry) Preload(ctx context.Context) error {
	lister, ok := r.loader.(Lister)
	if !ok {
		return nil
	}
	manifests, err := lister.All(ctx)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range manifests {
		if _, err := r.resolveLocked(ctx, m.Type, nil); err != nil {
			return err
		}
	}
	return nil
}

// Types returns the types resolved so far, sorted.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.builders))
	for t := range r.builders {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// resolveLocked must be called with the write lock held. chain holds the
// types currently being resolved through 'extends'.
func (r *Registry) resolveLocked(ctx context.Context, objectType string, chain []string) (*builder.Builder, error) {
	if b, ok := r.builders[objectType]; ok {
		return b, nil
	}
	for _, seen := range chain {
		if seen == objectType {
			return nil, fmt.Errorf("builder '%s': 'extends' cycle: %s", objectType, strings.Join(append(chain, objectType), " -> "))
		}
	}
	logger := ctxlog.FromContext(ctx)

	var m *manifest.Manifest
	if r.loader != nil {
		var err error
		m, err = r.loader.Load(ctx, objectType)
		if err != nil {
			return nil, fmt.Errorf("loading builder '%s': %w", objectType, err)
		}
	}

	var b *builder.Builder
	if m == nil {
		hooks, ok := r.handlers.Lookup(objectType)
		if !ok {
			return nil, fault.New(fault.BuilderNotFound, objectType, "", "no manifest or handler declares this type")
		}
		logger.Debug("Resolved builder from handler only; identifiers are opaque.", "type", objectType)
		b = &builder.Builder{Type: objectType, Hooks: hooks}
	} else {
		tmpl, err := m.Template()
		if err != nil {
			return nil, fmt.Errorf("builder '%s' in %s: %w", objectType, m.FSInformation.FilePath, err)
		}
		hooks, ok := r.handlers.Lookup(m.Handler)
		if !ok {
			logger.Debug("No Go handler registered for builder.", "type", objectType, "handler", m.Handler)
		}
		own := &builder.Builder{
			Type:        objectType,
			Description: m.Description,
			Template:    tmpl,
			Siblings:    m.Siblings,
			Hooks:       hooks,
		}

		if m.Extends == "" {
			b = own
		} else {
			parent, err := r.resolveLocked(ctx, m.Extends, append(chain, objectType))
			if err != nil {
				return nil, fmt.Errorf("builder '%s' extends '%s': %w", objectType, m.Extends, err)
			}
			b = parent.Specialize(own)
		}
	}

	if err := b.Validate(); err != nil {
		return nil, err
	}
	r.builders[objectType] = b
	logger.Debug("Builder resolved.", "type", objectType, "siblings", len(b.Siblings))
	return b, nil
}
