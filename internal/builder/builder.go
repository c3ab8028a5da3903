package builder

import (
	"context"
	"fmt"
	"sync"

	"github.com/specialistvlad/objectmomma/internal/identifier"
)

// Sibling declares that a slot holds the identifier of another object type.
type Sibling struct {
	Slot string
	Type string
}

// Child is what a builder's hooks see of the entity being actualized.
type Child struct {
	// Type is the object type.
	Type string
	// ID is the display identifier.
	ID string
	// Slots are the structured identifier. Sibling slots hold actualized
	// records by the time Locate runs.
	Slots identifier.Slots
}

// String returns a slot as a string.
func (c *Child) String(slot string) string {
	return c.Slots.String(slot)
}

// Ref returns a slot's raw value, typically an actualized sibling record.
func (c *Child) Ref(slot string) any {
	return c.Slots[slot]
}

// Persistable is implemented by records that know whether they are saved.
// It is the default persistence check when a builder sets no IsPersisted hook.
type Persistable interface {
	Persisted() bool
}

// Initializer is a deferred lookup handle returned by Locate. The engine
// unwraps it into a concrete record.
type Initializer interface {
	FirstOrInitialize(ctx context.Context) (any, error)
}

// LocateFunc returns the candidate record for a child: the stored record when
// one matches, otherwise a fresh unsaved one, or an Initializer.
type LocateFunc func(ctx context.Context, c *Child) (any, error)

// PersistedFunc reports whether a record is saved.
type PersistedFunc func(record any) (bool, error)

// BuildFunc populates and saves an unsaved record. attrs is the attribute
// overlay for the child, empty when none is configured.
type BuildFunc func(ctx context.Context, record any, c *Child, attrs map[string]any) error

// DecorateFunc post-processes the final record. It may return a wrapper that
// adds behaviour; returning nil keeps the record as is.
type DecorateFunc func(ctx context.Context, record any, c *Child) (any, error)

// Hooks is the behaviour half of a builder.
type Hooks struct {
	Locate      LocateFunc
	IsPersisted PersistedFunc
	Build       BuildFunc
	Decorate    DecorateFunc
}

// Builder is the full contract for one object type.
type Builder struct {
	Type        string
	Description string
	Template    identifier.Template
	Siblings    []Sibling
	Hooks

	codecOnce sync.Once
	codec     *identifier.Codec
	codecErr  error
}

// Codec returns the identifier codec, compiling it on first use.
func (b *Builder) Codec() (*identifier.Codec, error) {
	b.codecOnce.Do(func() {
		b.codec, b.codecErr = identifier.Compile(b.Type, b.Template)
	})
	return b.codec, b.codecErr
}

// Sibling returns the sibling declaration for slot, if any.
func (b *Builder) Sibling(slot string) (Sibling, bool) {
	for _, s := range b.Siblings {
		if s.Slot == slot {
			return s, true
		}
	}
	return Sibling{}, false
}

// Validate checks the builder's configuration and compiles its codec.
func (b *Builder) Validate() error {
	if b.Type == "" {
		return fmt.Errorf("builder: empty object type")
	}

	codec, err := b.Codec()
	if err != nil {
		return err
	}

	if codec.Opaque() && len(b.Siblings) > 0 {
		return fmt.Errorf("builder %q: siblings declared without an identifier template", b.Type)
	}

	slots := make(map[string]struct{})
	for _, name := range codec.Names() {
		slots[name] = struct{}{}
	}
	seen := make(map[string]struct{}, len(b.Siblings))
	for _, s := range b.Siblings {
		if s.Slot == "" || s.Type == "" {
			return fmt.Errorf("builder %q: sibling needs both a slot and a type", b.Type)
		}
		if _, dup := seen[s.Slot]; dup {
			return fmt.Errorf("builder %q: sibling slot %q declared twice", b.Type, s.Slot)
		}
		seen[s.Slot] = struct{}{}
		if _, ok := slots[s.Slot]; !ok {
			return fmt.Errorf("builder %q: sibling slot %q is not in the identifier template", b.Type, s.Slot)
		}
	}
	return nil
}

// Persisted applies the IsPersisted hook, falling back to Persistable.
func (b *Builder) Persisted(record any) (bool, error) {
	if b.IsPersisted != nil {
		return b.IsPersisted(record)
	}
	if p, ok := record.(Persistable); ok {
		return p.Persisted(), nil
	}
	return false, ErrNoPersistenceCheck
}

// Specialize derives a builder from b. Fields left unset on child are taken
// from b; child.Type must be set.
func (b *Builder) Specialize(child *Builder) *Builder {
	out := &Builder{
		Type:        child.Type,
		Description: child.Description,
		Template:    child.Template,
		Siblings:    child.Siblings,
		Hooks:       child.Hooks,
	}
	if out.Description == "" {
		out.Description = b.Description
	}
	if out.Template == nil {
		out.Template = b.Template
	}
	if out.Siblings == nil {
		out.Siblings = append([]Sibling(nil), b.Siblings...)
	}
	if out.Locate == nil {
		out.Locate = b.Locate
	}
	if out.IsPersisted == nil {
		out.IsPersisted = b.IsPersisted
	}
	if out.Build == nil {
		out.Build = b.Build
	}
	if out.Decorate == nil {
		out.Decorate = b.Decorate
	}
	return out
}
