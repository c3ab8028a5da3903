package actualize

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/objectmomma/internal/builder"
	"github.com/specialistvlad/objectmomma/internal/ctxlog"
	"github.com/specialistvlad/objectmomma/internal/fault"
	"github.com/specialistvlad/objectmomma/internal/identifier"
)

// Request is one pending actualization. It resolves at most once.
type Request struct {
	engine   *Engine
	builder  *builder.Builder
	strategy Strategy
	slots    identifier.Slots
	id       string

	state  State
	record any
	err    error
}

// Type returns the object type.
func (r *Request) Type() string { return r.builder.Type }

// Identifier returns the display identifier.
func (r *Request) Identifier() string { return r.id }

func (r *Request) String() string { return r.id }

// Strategy returns the request's strategy, shared with its siblings.
func (r *Request) Strategy() Strategy { return r.strategy }

// State returns the current state.
func (r *Request) State() State { return r.state }

// Err returns the error resolution stopped with, if any.
func (r *Request) Err() error { return r.err }

// Slots returns a copy of the structured identifier. Sibling slots hold
// *Request values until the request resolves.
func (r *Request) Slots() identifier.Slots { return r.slots.Clone() }

// Sibling returns the nested request for a sibling slot, if one was created.
func (r *Request) Sibling(slot string) (*Request, bool) {
	sub, ok := r.slots[slot].(*Request)
	return sub, ok
}

// Record resolves the request and returns its record. Later calls return the
// same record, or the same error, without touching the builder again.
func (r *Request) Record(ctx context.Context) (any, error) {
	switch r.state {
	case Resolved:
		return r.record, nil
	case Failed:
		return nil, r.err
	}

	record, err := r.resolve(ctx)
	if err != nil {
		r.state = Failed
		r.err = err
		return nil, err
	}
	r.record = record
	r.transition(ctx, Resolved)
	return record, nil
}

func (r *Request) transition(ctx context.Context, s State) {
	r.state = s
	ctxlog.FromContext(ctx).Debug("Actualization state changed.", "type", r.builder.Type, "id", r.id, "state", s)
}

func (r *Request) notImplemented(hook string) error {
	return fault.New(fault.SubclassNotImplemented, r.builder.Type, r.id,
		fmt.Sprintf("builder has no %s hook", hook))
}

func (r *Request) resolve(ctx context.Context) (any, error) {
	b := r.builder
	if b.Locate == nil {
		return nil, r.notImplemented("Locate")
	}
	if b.Build == nil && r.strategy != Find {
		return nil, r.notImplemented("Build")
	}

	child := &builder.Child{Type: b.Type, ID: r.id, Slots: r.slots.Clone()}
	for _, s := range b.Siblings {
		sub, ok := child.Slots[s.Slot].(*Request)
		if !ok {
			continue
		}
		record, err := sub.Record(ctx)
		if err != nil {
			return nil, err
		}
		child.Slots[s.Slot] = record
	}

	candidate, err := b.Locate(ctx, child)
	if err != nil {
		return nil, fmt.Errorf("locating %s %q: %w", b.Type, r.id, err)
	}
	if handle, ok := candidate.(builder.Initializer); ok {
		candidate, err = handle.FirstOrInitialize(ctx)
		if err != nil {
			return nil, fmt.Errorf("locating %s %q: %w", b.Type, r.id, err)
		}
	}
	r.transition(ctx, Located)

	persisted, err := r.persisted(candidate)
	if err != nil {
		return nil, err
	}

	switch {
	case persisted && r.strategy == Create:
		return nil, fault.New(fault.ObjectExists, b.Type, r.id, "record exists already")
	case persisted:
		r.transition(ctx, Existing)
	case r.strategy == Find:
		return nil, fault.New(fault.ObjectNotFound, b.Type, r.id, "record does not exist yet")
	default:
		attrs, err := r.engine.AttributesFor(ctx, b.Type, r.id)
		if err != nil {
			return nil, fmt.Errorf("attributes for %s %q: %w", b.Type, r.id, err)
		}
		if err := b.Build(ctx, candidate, child, attrs); err != nil {
			return nil, fmt.Errorf("building %s %q: %w", b.Type, r.id, err)
		}
		persisted, err = r.persisted(candidate)
		if err != nil {
			return nil, err
		}
		if !persisted {
			return nil, fault.New(fault.NotPersisted, b.Type, r.id, "built but not persisted")
		}
		r.transition(ctx, Built)
	}

	if b.Decorate != nil {
		decorated, err := b.Decorate(ctx, candidate, child)
		if err != nil {
			return nil, fmt.Errorf("decorating %s %q: %w", b.Type, r.id, err)
		}
		if decorated != nil {
			candidate = decorated
		}
		r.transition(ctx, Decorated)
	}
	return candidate, nil
}

func (r *Request) persisted(record any) (bool, error) {
	ok, err := r.builder.Persisted(record)
	if errors.Is(err, builder.ErrNoPersistenceCheck) {
		return false, fault.Wrap(fault.SubclassNotImplemented, r.builder.Type, r.id, err)
	}
	return ok, err
}
