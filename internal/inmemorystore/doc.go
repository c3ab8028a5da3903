// Package inmemorystore provides an ephemeral, thread-safe, in-memory
// record store for fixture modules.
//
// # Purpose
//
// Builders need somewhere to look records up and save them. A Table keeps
// records of one Go type in insertion order and hands out sequential ids on
// first save, so a record with a zero ID is by definition unsaved.
//
// # Deferred lookups
//
// Table.Where returns a Scope. A Scope is not evaluated until
// FirstOrInitialize is called, which lets a builder's Locate hook return the
// scope itself and leave evaluation to the caller.
//
// # Concurrency Model
//
// Each table guards its rows with a sync.RWMutex. Records are stored as
// pointers, so callers that mutate a saved record must call Save again or
// otherwise coordinate their own access.
package inmemorystore
