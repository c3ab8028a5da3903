// Package builder defines the contract an object type is actualized through.
//
// A Builder pairs declarative configuration (identifier template, sibling
// declarations) with behaviour (Hooks). Configuration usually comes from an
// HCL manifest and behaviour from Go code registered under a handler name;
// the registry stitches the two together.
//
// Builders are created once and treated as read-only afterwards. Specialize
// derives a child builder that explicitly inherits whatever it does not set.
package builder
