package builder

import "errors"

// ErrNoPersistenceCheck is returned by Persisted when the builder has no
// IsPersisted hook and the record does not implement Persistable.
var ErrNoPersistenceCheck = errors.New("builder: record does not implement Persistable and no IsPersisted hook is set")
