package directory

import (
	"errors"
	"fmt"
	"strings"
)

// Kind identifies which directory collection a resolution runs against
type Kind string

const (
	KindCategory    Kind = "category"
	KindSupplier    Kind = "supplier"
	KindSupermarket Kind = "supermarket"
)

// ErrCacheEmpty is returned when a snapshot is requested before the cache has
// ever been populated
var ErrCacheEmpty = errors.New("directory cache has never been populated")

// ErrCreatedNotVisible indicates a supermarket was created successfully but
// did not appear in the directory after a forced refresh. This is a fatal
// inconsistency, not a retryable condition.
var ErrCreatedNotVisible = errors.New("supermarket not visible in directory after creation")

// NotFoundError is returned when a name has no match in the directory. It
// carries the full list of known names so import operators can spot typos.
type NotFoundError struct {
	Kind  Kind
	Name  string
	Known []string
}

func (e *NotFoundError) Error() string {
	if len(e.Known) == 0 {
		return fmt.Sprintf("%s '%s' not found (no %ss exist yet)", e.Kind, e.Name, e.Kind)
	}
	return fmt.Sprintf("%s '%s' not found. Valid %ss: %s", e.Kind, e.Name, e.Kind, strings.Join(e.Known, ", "))
}

// CreationFailedError is returned when the auto-creation fallback itself
// failed. It keeps the original not-found context alongside the backend
// failure.
type CreationFailedError struct {
	Name     string
	NotFound *NotFoundError
	Err      error
}

func (e *CreationFailedError) Error() string {
	return fmt.Sprintf("supermarket '%s' not found and auto-creation failed: %v", e.Name, e.Err)
}

func (e *CreationFailedError) Unwrap() error {
	return e.Err
}

// RefreshFailedError is returned when any of the three directory fetches
// failed. No resolution can proceed without directory data, so this aborts
// the whole batch.
type RefreshFailedError struct {
	Resource string
	Err      error
}

func (e *RefreshFailedError) Error() string {
	return fmt.Sprintf("failed to refresh %s directory: %v", e.Resource, e.Err)
}

func (e *RefreshFailedError) Unwrap() error {
	return e.Err
}
