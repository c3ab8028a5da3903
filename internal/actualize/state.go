package actualize

// State is the position of a request in its resolution.
type State int

const (
	// Unresolved: Record has not been called yet.
	Unresolved State = iota
	// Located: the candidate record has been looked up.
	Located
	// Existing: the candidate was already persisted; nothing was built.
	Existing
	// Built: the candidate was populated and persisted.
	Built
	// Decorated: the decoration hook has run.
	Decorated
	// Resolved: the record is cached on the request.
	Resolved
	// Failed: resolution stopped with an error, which is cached on the request.
	Failed
)

func (s State) String() string {
	switch s {
	case Unresolved:
		return "unresolved"
	case Located:
		return "located"
	case Existing:
		return "existing"
	case Built:
		return "built"
	case Decorated:
		return "decorated"
	case Resolved:
		return "resolved"
	case Failed:
		return "failed"
	}
	return "unknown"
}
