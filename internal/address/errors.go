package address

import "fmt"

// These constants mirror domain error codes to avoid circular imports.
const (
	codeInvalid     = "invalid"
	codeUnavailable = "unavailable"
)

// LoadError is returned by Store.Load when the dataset cannot be fetched
// (Code "unavailable") or parsed (Code "invalid"). The store keeps its
// previous contents.
type LoadError struct {
	Code   string
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	switch e.Code {
	case codeInvalid:
		return fmt.Sprintf("address dataset %s is malformed: %v", e.Source, e.Err)
	default:
		return fmt.Sprintf("address dataset %s is unreachable: %v", e.Source, e.Err)
	}
}

// Unwrap returns the underlying cause.
func (e *LoadError) Unwrap() error {
	return e.Err
}

// ErrorCode returns the error code for HTTP status mapping.
func (e *LoadError) ErrorCode() string {
	return e.Code
}

func unreachable(source string, err error) error {
	return &LoadError{Code: codeUnavailable, Source: source, Err: err}
}

func malformed(source string, err error) error {
	return &LoadError{Code: codeInvalid, Source: source, Err: err}
}
