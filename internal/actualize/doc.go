// Package actualize turns an (object type, identifier, strategy) triple into a
// persisted record.
//
// A Request is built from either a display identifier string or structured
// Slots. Slots that the builder declares as siblings are wrapped into nested
// requests of the sibling's type with the same strategy. Calling Record walks
// the request through its states:
//
//	Unresolved -> Located -> Existing | Built -> Decorated -> Resolved
//
// Siblings resolve first, in declaration order, so a builder's Build hook
// always sees actualized sibling records rather than strings. The outcome of
// Record, record or error, is memoized on the request.
//
// Requests are owned by a single call path and are not safe for concurrent
// use. The engine itself holds no mutable state beyond the registry it reads
// from.
package actualize
