package storage

import "fmt"

// These constants mirror domain error codes to avoid circular imports.
// The handler layer maps these to HTTP status codes.
const (
	codeInvalid  = "invalid"
	codeNotFound = "not_found"
)

// StorageError represents a storage-specific error with a code and message.
type StorageError struct {
	Code    string
	Message string
}

func (e *StorageError) Error() string {
	return e.Message
}

// ErrorCode returns the error code for HTTP status mapping.
func (e *StorageError) ErrorCode() string {
	return e.Code
}

func newStorageError(code, message string) *StorageError {
	return &StorageError{Code: code, Message: message}
}

var (
	// ErrR2AccountIDRequired is returned when R2 account ID is missing.
	ErrR2AccountIDRequired = newStorageError(codeInvalid, "R2 account ID is required")

	// ErrR2CredentialsRequired is returned when R2 credentials are missing.
	ErrR2CredentialsRequired = newStorageError(codeInvalid, "R2 credentials are required")

	// ErrR2BucketRequired is returned when R2 bucket name is missing.
	ErrR2BucketRequired = newStorageError(codeInvalid, "R2 bucket name is required")
)

// ErrObjectNotFound creates an error for a missing dataset object.
func ErrObjectNotFound(key string) error {
	return newStorageError(codeNotFound, fmt.Sprintf("object not found: %s", key))
}

// ErrUnknownProvider creates an error for unknown storage providers.
func ErrUnknownProvider(provider string) error {
	return newStorageError(codeInvalid, fmt.Sprintf("unknown storage provider: %s", provider))
}
