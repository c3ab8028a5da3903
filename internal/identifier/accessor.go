package identifier

// Accessor is the evaluation context a template expression reads slots from.
type Accessor interface {
	Slot(name string) string
}

// wildcardToken stands in for every slot during the pattern pass.
const wildcardToken = "\x00slot\x00"

// recorder is the trace-pass accessor.
type recorder struct {
	names       []string
	occurrences []string
	seen        map[string]struct{}
}

func (r *recorder) Slot(name string) string {
	r.occurrences = append(r.occurrences, name)
	if r.seen == nil {
		r.seen = make(map[string]struct{})
	}
	if _, ok := r.seen[name]; !ok {
		r.seen[name] = struct{}{}
		r.names = append(r.names, name)
	}
	return ""
}

// wildcard is the pattern-pass accessor.
type wildcard struct{}

func (wildcard) Slot(string) string {
	return wildcardToken
}

// values substitutes real slot values and remembers which slots were missing.
type values struct {
	slots   Slots
	missing []string
}

func (v *values) Slot(name string) string {
	val, ok := v.slots[name]
	if !ok {
		v.missing = append(v.missing, name)
		return ""
	}
	return Stringify(val)
}
