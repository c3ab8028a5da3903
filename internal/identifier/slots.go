package identifier

import (
	"fmt"
	"maps"
)

// ChildIDSlot is the single slot of a builder that declares no template.
const ChildIDSlot = "child_id"

// Slots is a structured identifier: slot name to value. A value is a scalar,
// a raw identifier string, a nested Slots, a pending sibling request or an
// actualized record.
type Slots map[string]any

// Clone returns a shallow copy of s.
func (s Slots) Clone() Slots {
	if s == nil {
		return Slots{}
	}
	return maps.Clone(s)
}

// String returns the stringified value of a slot, or "" when absent.
func (s Slots) String(name string) string {
	v, ok := s[name]
	if !ok {
		return ""
	}
	return Stringify(v)
}

// Identifiable is implemented by values that know their own display identifier,
// such as pending sibling requests.
type Identifiable interface {
	Identifier() string
}

// Stringify renders a slot value for substitution into a template.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case Identifiable:
		return t.Identifier()
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}
