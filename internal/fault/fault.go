package fault

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an actualization failure.
type Kind int

const (
	// Unknown is the zero Kind; it never appears on errors built by this package.
	Unknown Kind = iota
	// BadIdentifier: the input string does not match the type's template.
	BadIdentifier
	// BuilderNotFound: the object type has no resolvable builder.
	BuilderNotFound
	// SubclassNotImplemented: a hook required by the current strategy is missing.
	SubclassNotImplemented
	// ObjectExists: Create was requested but the record is already persisted.
	ObjectExists
	// ObjectNotFound: Find was requested but the record is not persisted.
	ObjectNotFound
	// NotPersisted: the build hook ran but the record still reports unpersisted.
	NotPersisted
	// InvalidStrategy: the strategy is outside Create, Find, FindOrCreate.
	InvalidStrategy
)

// String returns the kind name used in error messages.
func (k Kind) String() string {
	switch k {
	case BadIdentifier:
		return "BadIdentifier"
	case BuilderNotFound:
		return "BuilderNotFound"
	case SubclassNotImplemented:
		return "SubclassNotImplemented"
	case ObjectExists:
		return "ObjectExists"
	case ObjectNotFound:
		return "ObjectNotFound"
	case NotPersisted:
		return "NotPersisted"
	case InvalidStrategy:
		return "InvalidStrategy"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// Sentinels for errors.Is matching. They compare equal to any *Error of the same Kind.
var (
	ErrBadIdentifier          = &Error{Kind: BadIdentifier}
	ErrBuilderNotFound        = &Error{Kind: BuilderNotFound}
	ErrSubclassNotImplemented = &Error{Kind: SubclassNotImplemented}
	ErrObjectExists           = &Error{Kind: ObjectExists}
	ErrObjectNotFound         = &Error{Kind: ObjectNotFound}
	ErrNotPersisted           = &Error{Kind: NotPersisted}
	ErrInvalidStrategy        = &Error{Kind: InvalidStrategy}
)

// Error is a classified actualization failure.
type Error struct {
	Kind       Kind
	ObjectType string
	Identifier string
	Detail     string
	Err        error
}

// New builds an *Error of the given kind.
func New(kind Kind, objectType, identifier, detail string) *Error {
	return &Error{Kind: kind, ObjectType: objectType, Identifier: identifier, Detail: detail}
}

// Wrap builds an *Error of the given kind around a cause.
func Wrap(kind Kind, objectType, identifier string, err error) *Error {
	e := &Error{Kind: kind, ObjectType: objectType, Identifier: identifier, Err: err}
	if err != nil {
		e.Detail = err.Error()
	}
	return e
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString("objectmomma: ")
	sb.WriteString(e.Kind.String())
	if e.ObjectType != "" {
		sb.WriteString(" [")
		sb.WriteString(e.ObjectType)
		sb.WriteString("]")
	}
	if e.Identifier != "" {
		fmt.Fprintf(&sb, " %q", e.Identifier)
	}
	if e.Detail != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Detail)
	}
	return sb.String()
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the Kind of the first *Error in err's chain, or Unknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}
