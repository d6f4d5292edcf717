package provider

import "fmt"

// Error wraps a failed call to an external collaborator (identity provider,
// object store, or knowledge store). Callers match it with errors.As to map
// provider failures to user-visible messages without inspecting the cause.
type Error struct {
	Service string // "identity" | "objectstore" | "knowledge"
	Op      string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Service, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap builds a provider Error unless err is nil.
func Wrap(service, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Service: service, Op: op, Err: err}
}
