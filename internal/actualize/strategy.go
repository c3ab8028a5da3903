package actualize

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/objectmomma/internal/fault"
)

// Strategy selects which persistence states a request may end in.
type Strategy int

const (
	// Create requires the record not to exist yet and builds it.
	Create Strategy = iota + 1
	// Find requires the record to exist already.
	Find
	// FindOrCreate returns the existing record or builds a new one.
	FindOrCreate
)

var strategyNames = map[Strategy]string{
	Create:       "create",
	Find:         "find",
	FindOrCreate: "find_or_create",
}

func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// Validate fails with fault.InvalidStrategy for anything but the three
// defined strategies, including the zero value.
func (s Strategy) Validate() error {
	if _, ok := strategyNames[s]; !ok {
		return fault.New(fault.InvalidStrategy, "", "", fmt.Sprintf("%s is not one of create, find, find_or_create", s))
	}
	return nil
}

// ParseStrategy parses a strategy name. "spawn" is accepted as FindOrCreate.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "create":
		return Create, nil
	case "find":
		return Find, nil
	case "find_or_create", "spawn":
		return FindOrCreate, nil
	}
	return 0, fault.New(fault.InvalidStrategy, "", "", fmt.Sprintf("unknown strategy %q", name))
}

// MarshalText implements encoding.TextMarshaler.
func (s Strategy) MarshalText() ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Strategy) UnmarshalText(text []byte) error {
	parsed, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
