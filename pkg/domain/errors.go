package domain

import (
	"errors"
	"fmt"
)

// ErrInvariantViolation is the parent of every structural error. Callers that
// only care whether the graph refused an edit can match on it.
var ErrInvariantViolation = errors.New("invariant violation")

// ErrMissingParent is returned when a child is attached under a path that does not exist.
var ErrMissingParent = fmt.Errorf("%w: missing parent", ErrInvariantViolation)

// ErrDuplicateChild is returned when a sibling with the same name already exists.
var ErrDuplicateChild = fmt.Errorf("%w: duplicate child", ErrInvariantViolation)

// ErrUnknownPermission is returned when a permission spec cannot be unpacked.
var ErrUnknownPermission = fmt.Errorf("%w: unknown permission variant", ErrInvariantViolation)

// ErrEmptyName is returned for nodes or commands without a name.
var ErrEmptyName = fmt.Errorf("%w: empty name", ErrInvariantViolation)

// ErrPhaseTransition is returned when a lifecycle transition is repeated or out of order.
var ErrPhaseTransition = errors.New("invalid lifecycle transition")

// ErrPermissionExists is returned by permission stores for a node that is already known.
// The engine swallows it.
var ErrPermissionExists = errors.New("permission already registered")
