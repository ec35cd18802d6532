package repositories

import (
	"errors"
	"fmt"
)

// RepositoryError represents a repository-level error.
type RepositoryError struct {
	Operation string
	Entity    string
	Err       error
}

func (re *RepositoryError) Error() string {
	return fmt.Sprintf("repository error during %s for %s: %v", re.Operation, re.Entity, re.Err)
}

func (re *RepositoryError) Unwrap() error {
	return re.Err
}

// NotFoundError represents an entity not found error.
type NotFoundError struct {
	Entity string
	ID     interface{}
}

func (nfe *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %v not found", nfe.Entity, nfe.ID)
}

// VersionConflictError is returned when an optimistic save observes a
// version other than the one the caller loaded. Callers retry the whole
// read-transform-write sequence; the repository never retries itself.
type VersionConflictError struct {
	Entity          string
	ID              interface{}
	ExpectedVersion int64
}

func (vce *VersionConflictError) Error() string {
	return fmt.Sprintf("%s with ID %v modified concurrently (expected version %d)", vce.Entity, vce.ID, vce.ExpectedVersion)
}

// IsVersionConflict reports whether err wraps a VersionConflictError.
func IsVersionConflict(err error) bool {
	var vce *VersionConflictError
	return errors.As(err, &vce)
}
