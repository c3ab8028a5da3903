package identifier

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/objectmomma/internal/hclutil"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Template is the single expression that renders an identifier from slots.
type Template interface {
	Render(a Accessor) (string, error)
}

// Func adapts a Go closure into a Template.
type Func func(a Accessor) string

// Render calls f.
func (f Func) Render(a Accessor) (string, error) {
	return f(a), nil
}

// Expr is a Template backed by an HCL template expression. Every variable in
// the expression is a slot; attribute or index traversals are rejected.
type Expr struct {
	expr  hcl.Expression
	names []string
}

// NewExpr wraps an already parsed HCL expression, typically the value of a
// manifest's identifier attribute.
func NewExpr(expr hcl.Expression) (*Expr, error) {
	if expr == nil {
		return nil, fmt.Errorf("identifier: nil template expression")
	}
	var bad []string
	for _, t := range expr.Variables() {
		if len(t) != 1 {
			bad = append(bad, hclutil.TraversalKey(t))
		}
	}
	if len(bad) > 0 {
		return nil, fmt.Errorf("identifier: template slots must be bare names, got %s", strings.Join(bad, ", "))
	}
	return &Expr{expr: expr, names: hclutil.RootNames(expr)}, nil
}

// ParseExpr parses src as an HCL template, e.g. "Post about ${subject}".
func ParseExpr(src string) (*Expr, error) {
	expr, diags := hclsyntax.ParseTemplate([]byte(src), "identifier", hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return nil, fmt.Errorf("identifier: parsing template %q: %w", src, diags)
	}
	return NewExpr(expr)
}

// MustParseExpr is like ParseExpr but panics on error.
func MustParseExpr(src string) *Expr {
	e, err := ParseExpr(src)
	if err != nil {
		panic(err)
	}
	return e
}

// Render asks a for every slot in source order and evaluates the expression.
func (e *Expr) Render(a Accessor) (string, error) {
	vars := make(map[string]cty.Value, len(e.names))
	for _, name := range e.names {
		vars[name] = cty.StringVal(a.Slot(name))
	}

	val, diags := e.expr.Value(&hcl.EvalContext{Variables: vars})
	if diags.HasErrors() {
		return "", fmt.Errorf("identifier: evaluating template: %w", diags)
	}
	if val.IsNull() || !val.IsKnown() {
		return "", fmt.Errorf("identifier: template evaluated to a null or unknown value")
	}
	str, err := convert.Convert(val, cty.String)
	if err != nil {
		return "", fmt.Errorf("identifier: template result is not a string: %w", err)
	}
	return str.AsString(), nil
}
