// Package dispatch maps symbolic call names such as "spawn_user" or
// "find_post" onto the actualization engine.
//
// Routes are tried in table order. A route only matches when the object type
// it derives from the call name has a builder, so "find_or_create_user" never
// resolves to a type named "or_create_user" while "user" exists.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jinzhu/inflection"
	"github.com/specialistvlad/objectmomma/internal/actualize"
	"github.com/specialistvlad/objectmomma/internal/ctxlog"
	"github.com/specialistvlad/objectmomma/internal/fault"
)

// Kind says what a call does once parsed.
type Kind int

const (
	// Actualize resolves a record with the call's strategy.
	Actualize Kind = iota
	// Attributes returns the attribute overlay of an object.
	Attributes
)

// Call is a parsed call name.
type Call struct {
	Name       string
	Kind       Kind
	ObjectType string
	Strategy   actualize.Strategy
}

type route struct {
	prefix   string
	suffix   string
	kind     Kind
	strategy actualize.Strategy
}

var routes = []route{
	{suffix: "_attributes", kind: Attributes, strategy: actualize.FindOrCreate},
	{kind: Actualize, strategy: actualize.FindOrCreate},
	{prefix: "find_or_create_", kind: Actualize, strategy: actualize.FindOrCreate},
	{prefix: "spawn_", kind: Actualize, strategy: actualize.FindOrCreate},
	{prefix: "create_", kind: Actualize, strategy: actualize.Create},
	{prefix: "find_", kind: Actualize, strategy: actualize.Find},
}

func (r route) objectType(name string) (string, bool) {
	if !strings.HasPrefix(name, r.prefix) || !strings.HasSuffix(name, r.suffix) {
		return "", false
	}
	t := strings.TrimSuffix(strings.TrimPrefix(name, r.prefix), r.suffix)
	return t, t != ""
}

// Router forwards calls to an engine.
type Router struct {
	engine   *actualize.Engine
	registry actualize.Registry
}

// New creates a router. reg must be the registry the engine reads from.
func New(engine *actualize.Engine, reg actualize.Registry) *Router {
	return &Router{engine: engine, registry: reg}
}

// Parse resolves a call name to a type and strategy.
func (r *Router) Parse(ctx context.Context, name string) (Call, error) {
	for _, rt := range routes {
		objectType, ok := rt.objectType(name)
		if !ok {
			continue
		}
		found, err := r.exists(ctx, objectType)
		if err != nil {
			return Call{}, err
		}
		if found {
			return Call{Name: name, Kind: rt.kind, ObjectType: objectType, Strategy: rt.strategy}, nil
		}
	}
	return Call{}, fault.New(fault.BuilderNotFound, name, "", "no builder matches this call name")
}

func (r *Router) exists(ctx context.Context, objectType string) (bool, error) {
	_, err := r.registry.Lookup(ctx, objectType)
	if errors.Is(err, fault.ErrBuilderNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Call parses name and runs it with id, a display identifier or slots.
// Attribute calls return map[string]any; all others return the record.
func (r *Router) Call(ctx context.Context, name string, id any) (any, error) {
	call, err := r.Parse(ctx, name)
	if err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("Dispatching call.", "call", name, "type", call.ObjectType, "strategy", call.Strategy)

	if call.Kind == Attributes {
		req, err := r.engine.NewRequest(ctx, call.ObjectType, id, call.Strategy)
		if err != nil {
			return nil, err
		}
		return r.engine.AttributesFor(ctx, call.ObjectType, req.Identifier())
	}
	return r.engine.Actualize(ctx, call.ObjectType, id, call.Strategy)
}

// Spawn find-or-creates every identifier in batch. Keys are object types and
// may be plural; they are processed in sorted order.
func (r *Router) Spawn(ctx context.Context, batch map[string][]any) error {
	keys := make([]string, 0, len(batch))
	for k := range batch {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		objectType, err := r.batchType(ctx, key)
		if err != nil {
			return err
		}
		for _, id := range batch[key] {
			if _, err := r.engine.Actualize(ctx, objectType, id, actualize.FindOrCreate); err != nil {
				return fmt.Errorf("spawning %s: %w", key, err)
			}
		}
	}
	return nil
}

func (r *Router) batchType(ctx context.Context, key string) (string, error) {
	found, err := r.exists(ctx, key)
	if err != nil || found {
		return key, err
	}
	singular := inflection.Singular(key)
	if singular != key {
		if found, err = r.exists(ctx, singular); err != nil || found {
			return singular, err
		}
	}
	return "", fault.New(fault.BuilderNotFound, key, "", "no builder for batch key")
}
