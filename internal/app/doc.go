// Package app contains the core application logic. It wires the builder
// registry, attribute overlays, actualization engine and call router from a
// Config, and runs a list of calls, decoupled from any specific entrypoint
// like a CLI.
package app
