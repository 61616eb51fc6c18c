package compiler

import (
	"errors"
	"fmt"
)

// StructureError reports a structural or type inconsistency found while
// constructing a building block, either directly or during proto
// conversion. Construction fails eagerly; a StructureError is never
// deferred to use time.
type StructureError struct {
	// Kind is the building-block kind being constructed.
	Kind string

	// Message describes the violated invariant.
	Message string
}

// Error implements the error interface.
func (e *StructureError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// ErrUnknownKind is returned by FromProto when a computation message
// carries no recognized variant body. It is distinct from StructureError:
// the message is not malformed, it is from a newer or foreign vocabulary.
var ErrUnknownKind = errors.New("unknown computation kind")

func structureErrorf(kind, format string, args ...any) *StructureError {
	return &StructureError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// IsStructureError reports whether err is (or wraps) a StructureError.
func IsStructureError(err error) bool {
	var se *StructureError
	return errors.As(err, &se)
}
