// Package registry resolves object types to builders.
//
// A builder has two halves. The configuration half (identifier template,
// siblings, parent) comes from a manifest Loader, usually HCL files on disk.
// The behaviour half (Locate, Build, Decorate hooks) comes from Go modules
// that register handlers by name. The registry joins them on first lookup,
// validates the result, compiles its identifier codec and caches it.
//
// Registration happens at startup; lookups may come from any goroutine.
package registry
