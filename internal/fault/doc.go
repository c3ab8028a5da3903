// Package fault defines the error taxonomy raised while actualizing fixtures.
//
// Every failure surfaced by the engine is an *Error carrying a Kind, the
// object type and the identifier of the entity that failed. Callers match on
// the kind with errors.Is against the exported sentinels:
//
//	if errors.Is(err, fault.ErrObjectNotFound) { ... }
//
// Errors raised while resolving a sibling reach the caller unchanged, so the
// identifier names the nested entity rather than the parent.
package fault
