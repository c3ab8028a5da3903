package actualize

import (
	"context"
	"fmt"

	"github.com/specialistvlad/objectmomma/internal/builder"
	"github.com/specialistvlad/objectmomma/internal/ctxlog"
	"github.com/specialistvlad/objectmomma/internal/fault"
	"github.com/specialistvlad/objectmomma/internal/identifier"
	"github.com/specialistvlad/objectmomma/internal/overlay"
)

// Registry resolves object types to builders.
type Registry interface {
	Lookup(ctx context.Context, objectType string) (*builder.Builder, error)
}

// Engine creates and resolves requests against a registry.
type Engine struct {
	registry Registry
	overlays overlay.Source
}

// Option configures an Engine.
type Option func(*Engine)

// WithOverlays sets the attribute overlay passed to Build hooks.
func WithOverlays(src overlay.Source) Option {
	return func(e *Engine) {
		if src != nil {
			e.overlays = src
		}
	}
}

// New creates an engine reading builders from reg.
func New(reg Registry, opts ...Option) *Engine {
	e := &Engine{
		registry: reg,
		overlays: overlay.None{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Actualize resolves id to a record of objectType under strategy. id is a
// display identifier string or identifier.Slots.
func (e *Engine) Actualize(ctx context.Context, objectType string, id any, strategy Strategy) (any, error) {
	req, err := e.NewRequest(ctx, objectType, id, strategy)
	if err != nil {
		return nil, err
	}
	return req.Record(ctx)
}

// Decode parses a display identifier into slots.
func (e *Engine) Decode(ctx context.Context, objectType, s string) (identifier.Slots, error) {
	codec, err := e.codec(ctx, objectType)
	if err != nil {
		return nil, err
	}
	return codec.Decode(s)
}

// Encode renders slots as a display identifier. Sibling slots may hold nested
// Slots, which are encoded with the sibling's own template.
func (e *Engine) Encode(ctx context.Context, objectType string, slots identifier.Slots) (string, error) {
	b, err := e.registry.Lookup(ctx, objectType)
	if err != nil {
		return "", err
	}
	codec, err := b.Codec()
	if err != nil {
		return "", err
	}

	flat := slots.Clone()
	for _, s := range b.Siblings {
		nested, ok := asSlots(flat[s.Slot])
		if !ok {
			continue
		}
		encoded, err := e.Encode(ctx, s.Type, nested)
		if err != nil {
			return "", err
		}
		flat[s.Slot] = encoded
	}
	return codec.Encode(flat)
}

// AttributesFor returns the overlay attributes for one object.
func (e *Engine) AttributesFor(ctx context.Context, objectType, childID string) (map[string]any, error) {
	return e.overlays.AttributesFor(ctx, objectType, childID)
}

func (e *Engine) codec(ctx context.Context, objectType string) (*identifier.Codec, error) {
	b, err := e.registry.Lookup(ctx, objectType)
	if err != nil {
		return nil, err
	}
	return b.Codec()
}

// NewRequest prepares a request without resolving it. Sibling slots holding
// strings or Slots become nested requests; records and requests pass through.
func (e *Engine) NewRequest(ctx context.Context, objectType string, id any, strategy Strategy) (*Request, error) {
	if err := strategy.Validate(); err != nil {
		return nil, err
	}

	b, err := e.registry.Lookup(ctx, objectType)
	if err != nil {
		return nil, err
	}
	codec, err := b.Codec()
	if err != nil {
		return nil, err
	}

	var slots identifier.Slots
	display, isString := id.(string)
	if isString {
		slots, err = codec.Decode(display)
		if err != nil {
			return nil, err
		}
	} else {
		var ok bool
		slots, ok = asSlots(id)
		if !ok {
			return nil, fault.New(fault.BadIdentifier, objectType, "",
				fmt.Sprintf("identifier must be a string or slots, got %T", id))
		}
		slots = slots.Clone()
	}

	for _, s := range b.Siblings {
		v, ok := slots[s.Slot]
		if !ok {
			continue
		}
		if !needsRequest(v) {
			continue
		}
		sub, err := e.NewRequest(ctx, s.Type, v, strategy)
		if err != nil {
			return nil, err
		}
		slots[s.Slot] = sub
	}

	if !isString {
		display, err = codec.Encode(slots)
		if err != nil {
			return nil, fault.Wrap(fault.BadIdentifier, objectType, "", err)
		}
	}

	ctxlog.FromContext(ctx).Debug("Actualization request created.", "type", objectType, "id", display, "strategy", strategy)
	return &Request{
		engine:   e,
		builder:  b,
		strategy: strategy,
		slots:    slots,
		id:       display,
	}, nil
}

func asSlots(v any) (identifier.Slots, bool) {
	switch t := v.(type) {
	case identifier.Slots:
		return t, true
	case map[string]any:
		return identifier.Slots(t), true
	}
	return nil, false
}

// needsRequest reports whether a sibling slot value is an unresolved identifier.
func needsRequest(v any) bool {
	switch v.(type) {
	case string, identifier.Slots, map[string]any:
		return true
	}
	return false
}
