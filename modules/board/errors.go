package board

import (
	"errors"
	"fmt"
)

// Sentinel errors for board operations. The API layer maps these to response
// codes: unknown owner/creator and the membership rules reject with 401,
// validation failures with 400.
var (
	// ErrOwnerUnknown is returned when a task operation names a user id that
	// does not resolve to an existing user.
	ErrOwnerUnknown = errors.New("owner does not resolve to an existing user")

	// ErrCreatorUnknown is returned when a project is created on behalf of an
	// unknown user id.
	ErrCreatorUnknown = errors.New("creator does not resolve to an existing user")

	// ErrDuplicateMember is returned when a user is added to a project they
	// already belong to.
	ErrDuplicateMember = errors.New("user is already a member of the project")

	// ErrDuplicateTask is returned when a task is added to a project that
	// already lists it.
	ErrDuplicateTask = errors.New("task is already in the project")

	// ErrOwnerNotMember is returned when a task is filed under a project
	// whose member set does not include the task's owner.
	ErrOwnerNotMember = errors.New("task owner is not a member of the project")
)

// ValidationError reports a field constraint violation. The operation is
// rejected before any store write.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

func newValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
