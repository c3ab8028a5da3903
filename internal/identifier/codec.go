package identifier

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/specialistvlad/objectmomma/internal/fault"
)

// slotPattern matches one slot value: letters, digits, whitespace,
// underscore, apostrophe, quote, period and hyphen.
const slotPattern = `([-\w\s_'"\.]+)`

// Codec encodes and decodes identifiers for one object type. It is immutable
// once compiled and safe for concurrent use.
type Codec struct {
	objectType  string
	tmpl        Template
	names       []string
	occurrences []string
	pattern     *regexp.Regexp
}

// Compile inverts t into a Codec. A nil template yields the opaque codec whose
// only slot is ChildIDSlot.
func Compile(objectType string, t Template) (*Codec, error) {
	c := &Codec{objectType: objectType, tmpl: t}
	if t == nil {
		c.names = []string{ChildIDSlot}
		return c, nil
	}

	rec := &recorder{}
	if _, err := t.Render(rec); err != nil {
		return nil, fmt.Errorf("compiling %q identifier: trace pass: %w", objectType, err)
	}
	c.names = rec.names
	c.occurrences = rec.occurrences

	rendered, err := t.Render(wildcard{})
	if err != nil {
		return nil, fmt.Errorf("compiling %q identifier: pattern pass: %w", objectType, err)
	}

	var sb strings.Builder
	sb.WriteString("^")
	for i, literal := range strings.Split(rendered, wildcardToken) {
		if i > 0 {
			sb.WriteString(slotPattern)
		}
		sb.WriteString(regexp.QuoteMeta(literal))
	}
	sb.WriteString("$")

	c.pattern, err = regexp.Compile(sb.String())
	if err != nil {
		return nil, fmt.Errorf("compiling %q identifier: %w", objectType, err)
	}
	return c, nil
}

// Opaque reports whether the codec has no template.
func (c *Codec) Opaque() bool {
	return c.tmpl == nil
}

// Names returns slot names in first-access order.
func (c *Codec) Names() []string {
	return slices.Clone(c.names)
}

// Pattern returns the anchored matching expression, or "" for the opaque codec.
func (c *Codec) Pattern() string {
	if c.pattern == nil {
		return ""
	}
	return c.pattern.String()
}

// Decode parses s into slots. It fails with fault.BadIdentifier when s does
// not match the template.
func (c *Codec) Decode(s string) (Slots, error) {
	if c.tmpl == nil {
		return Slots{ChildIDSlot: s}, nil
	}

	m := c.pattern.FindStringSubmatch(s)
	if m == nil {
		return nil, fault.New(fault.BadIdentifier, c.objectType, s, "does not match identifier template")
	}
	groups := m[1:]

	out := make(Slots, len(c.names))
	if len(c.occurrences) != len(groups) {
		for i, name := range c.names {
			if i < len(groups) {
				out[name] = groups[i]
			}
		}
		return out, nil
	}

	for i, name := range c.occurrences {
		prev, ok := out[name]
		if !ok {
			out[name] = groups[i]
			continue
		}
		if prev != groups[i] {
			return nil, fault.New(fault.BadIdentifier, c.objectType, s,
				fmt.Sprintf("slot %q matched both %q and %q", name, prev, groups[i]))
		}
	}
	return out, nil
}

// Encode renders slots through the template.
func (c *Codec) Encode(slots Slots) (string, error) {
	if c.tmpl == nil {
		v, ok := slots[ChildIDSlot]
		if !ok {
			return "", fmt.Errorf("encoding %q identifier: missing slot %q", c.objectType, ChildIDSlot)
		}
		return Stringify(v), nil
	}

	acc := &values{slots: slots}
	out, err := c.tmpl.Render(acc)
	if err != nil {
		return "", fmt.Errorf("encoding %q identifier: %w", c.objectType, err)
	}
	if len(acc.missing) > 0 {
		return "", fmt.Errorf("encoding %q identifier: missing slots %s", c.objectType, strings.Join(acc.missing, ", "))
	}
	return out, nil
}
