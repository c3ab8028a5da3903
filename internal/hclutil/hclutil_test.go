package hclutil

import (
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/stretchr/testify/require"
)

// parseTemplate is a test helper to quickly get a template expression from a string.
func parseTemplate(t *testing.T, src string) hcl.Expression {
	t.Helper()
	expr, diags := hclsyntax.ParseTemplate([]byte(src), "test.hcl", hcl.Pos{Line: 1, Column: 1})
	require.False(t, diags.HasErrors(), "template parsing failed: %s", diags.Error())
	return expr
}

func TestRootNames_SourceOrderWithRepeats(t *testing.T) {
	expr := parseTemplate(t, "${b} and ${a} then ${b}")
	require.Equal(t, []string{"b", "a", "b"}, RootNames(expr))
}

func TestRootNames_Nil(t *testing.T) {
	require.Empty(t, RootNames(nil))
}

func TestTraversalKey(t *testing.T) {
	expr := parseTemplate(t, "${post.title}")
	vars := expr.Variables()
	require.Len(t, vars, 1)
	require.Equal(t, "post.title", TraversalKey(vars[0]))
}
