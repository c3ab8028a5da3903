// Package manifest reads builder manifests: HCL files that declare the
// configuration half of a builder.
//
//	builder "comment" {
//	  description = "A comment left on a post"
//	  identifier  = "${author}'s Comment on ${post}"
//	  sibling "post" {}
//	  sibling "author" { type = "user" }
//	}
//
// Why keep configuration in HCL?
//
// The identifier attribute is kept as an unevaluated HCL template expression.
// That single expression is what renders a display identifier and, inverted by
// the identifier package, what parses one, so test authors never write a
// grammar by hand.
//
// Behaviour (how a record is located, built and decorated) stays in Go and is
// bound by handler name. A manifest's handler defaults to its label.
package manifest
