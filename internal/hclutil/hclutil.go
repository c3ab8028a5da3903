// Package hclutil holds small helpers shared by the packages that read HCL.
package hclutil

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclwrite"
)

// TraversalKey generates a stable, canonical string representation for an hcl.Traversal,
// suitable for use as a map key or in a diagnostic.
func TraversalKey(t hcl.Traversal) string {
	// e.g., post.title[0]
	return string(hclwrite.TokensForTraversal(t).Bytes())
}

// RootNames returns the root variable name of every traversal in expr, in
// source order and including repeats.
func RootNames(expr hcl.Expression) []string {
	if expr == nil {
		return nil
	}
	traversals := expr.Variables()
	names := make([]string, 0, len(traversals))
	for _, t := range traversals {
		names = append(names, t.RootName())
	}
	return names
}
