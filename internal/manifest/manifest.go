package manifest

import (
	"context"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/objectmomma/internal/builder"
	"github.com/specialistvlad/objectmomma/internal/ctxlog"
	"github.com/specialistvlad/objectmomma/internal/identifier"
)

// Manifest is the parsed configuration of one builder.
type Manifest struct {
	Type        string
	Description string
	// Handler names the Go hooks; defaults to Type.
	Handler string
	// Extends names a parent builder to specialize; empty for none.
	Extends string
	// Identifier is the template expression, nil when the builder has none.
	Identifier    hcl.Expression
	Siblings      []builder.Sibling
	FSInformation *FSInfo
}

// Template wraps the identifier expression, or returns nil when absent.
func (m *Manifest) Template() (identifier.Template, error) {
	if m.Identifier == nil {
		return nil, nil
	}
	return identifier.NewExpr(m.Identifier)
}

// rootSchema defines the top-level structure of the file, expecting one or more 'builder' blocks.
type rootSchema struct {
	Builders []*hclBuilder `hcl:"builder,block"`
}

// hclBuilder represents a single 'builder' block in the HCL file for decoding purposes.
type hclBuilder struct {
	Type string   `hcl:"type,label"`
	Body hcl.Body `hcl:",remain"`
}

var builderBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "description"},
		{Name: "handler"},
		{Name: "extends"},
		{Name: "identifier"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "sibling", LabelNames: []string{"slot"}},
	},
}

var siblingBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "type"},
	},
}

// ParseSource parses manifest source held in memory.
func ParseSource(ctx context.Context, src []byte, filename string) ([]*Manifest, hcl.Diagnostics) {
	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, diags
	}
	return ParseFile(ctx, file, filename)
}

// ParseFile decodes an HCL file that contains one or more 'builder' blocks.
func ParseFile(ctx context.Context, hclFile *hcl.File, filePath string) ([]*Manifest, hcl.Diagnostics) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Parsing builder manifests from file", "file_path", filePath)

	var allDiags hcl.Diagnostics
	if hclFile == nil {
		allDiags = append(allDiags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "HCL file is nil",
		})
		return nil, allDiags
	}

	root := &rootSchema{}
	diags := gohcl.DecodeBody(hclFile.Body, nil, root)
	allDiags = append(allDiags, diags...)
	if diags.HasErrors() {
		return nil, allDiags
	}

	manifests := make([]*Manifest, 0, len(root.Builders))
	for _, parsed := range root.Builders {
		content, contentDiags := parsed.Body.Content(builderBodySchema)
		allDiags = append(allDiags, contentDiags...)
		if contentDiags.HasErrors() {
			continue // Skip this builder but continue parsing others
		}

		m := &Manifest{
			Type:          parsed.Type,
			Handler:       parsed.Type,
			FSInformation: NewFSInfo(filePath),
		}

		allDiags = append(allDiags, decodeString(content.Attributes, "description", &m.Description)...)
		allDiags = append(allDiags, decodeString(content.Attributes, "handler", &m.Handler)...)
		allDiags = append(allDiags, decodeString(content.Attributes, "extends", &m.Extends)...)

		if attr, ok := content.Attributes["identifier"]; ok {
			if _, err := identifier.NewExpr(attr.Expr); err != nil {
				allDiags = append(allDiags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Invalid identifier template",
					Detail:   err.Error(),
					Subject:  attr.Expr.Range().Ptr(),
				})
			}
			m.Identifier = attr.Expr
		}

		var siblingDiags hcl.Diagnostics
		m.Siblings, siblingDiags = parseSiblings(content.Blocks)
		allDiags = append(allDiags, siblingDiags...)

		manifests = append(manifests, m)
	}

	if allDiags.HasErrors() {
		return nil, allDiags
	}

	logger.Debug("Successfully parsed builder manifests", "count", len(manifests))
	return manifests, nil
}

func decodeString(attrs hcl.Attributes, name string, target *string) hcl.Diagnostics {
	attr, ok := attrs[name]
	if !ok {
		return nil
	}
	return gohcl.DecodeExpression(attr.Expr, nil, target)
}

// parseSiblings keeps block order, which is the sibling resolution order.
func parseSiblings(blocks hcl.Blocks) ([]builder.Sibling, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	var siblings []builder.Sibling
	seen := make(map[string]*hcl.Block)

	for _, block := range blocks {
		if block.Type != "sibling" {
			continue
		}
		slot := block.Labels[0]
		if prev, dup := seen[slot]; dup {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate sibling",
				Detail:   "Sibling \"" + slot + "\" was already declared at " + prev.DefRange.String() + ".",
				Subject:  &block.DefRange,
			})
			continue
		}
		seen[slot] = block

		content, contentDiags := block.Body.Content(siblingBodySchema)
		diags = append(diags, contentDiags...)
		if contentDiags.HasErrors() {
			continue
		}

		sibling := builder.Sibling{Slot: slot, Type: slot}
		diags = append(diags, decodeString(content.Attributes, "type", &sibling.Type)...)
		siblings = append(siblings, sibling)
	}
	return siblings, diags
}
