package rpc

import "fmt"

// StatusError is a non-2xx answer from the node.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("http %d", e.StatusCode)
	}
	return fmt.Sprintf("http %d: %s", e.StatusCode, e.Message)
}

// QueryError is returned by every Client method that failed. Err carries the upstream cause.
type QueryError struct {
	Operation string
	Err       error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s: %v", e.Operation, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }
