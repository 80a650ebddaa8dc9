package vfs

import "fmt"

// ReadError is a failure to read a file that was opened successfully. Its
// content can not be served, not even partially.
type ReadError struct {
	Name string
	Err  error
}

// NewReadError wraps err as a failure to read name
func NewReadError(name string, err error) *ReadError {
	return &ReadError{Name: name, Err: err}
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %q: %v", e.Name, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// Is matches any *ReadError, so callers can test for the kind of failure
// with errors.Is(err, &vfs.ReadError{})
func (e *ReadError) Is(target error) bool {
	// nolint: errorlint // type equality
	_, ok := target.(*ReadError)
	return ok
}
