package restaurant

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a lookup by id matches no record.
	ErrNotFound = errors.New("restaurant: not found")
	// ErrNetwork classifies every failure of the remote fetch.
	ErrNetwork = errors.New("restaurant: remote fetch failed")
)

// NotFoundError reports the id of a failed lookup.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("restaurant %d does not exist", e.ID)
}

// Is makes errors.Is(err, ErrNotFound) hold for any *NotFoundError.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NetworkError wraps the cause of a failed remote fetch: a transport error,
// a non-success status, or a body that could not be parsed.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.URL == "" {
		return fmt.Sprintf("%v: %v", ErrNetwork, e.Err)
	}
	return fmt.Sprintf("%v: GET %s: %v", ErrNetwork, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is makes errors.Is(err, ErrNetwork) hold for any *NetworkError.
func (e *NetworkError) Is(target error) bool {
	return target == ErrNetwork
}
