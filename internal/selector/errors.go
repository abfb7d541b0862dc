package selector

import (
	"fmt"
	"strings"
)

// codeInvalid mirrors domain.EINVALID to avoid an import.
const codeInvalid = "invalid"

// ConfigurationError is returned by New when required configuration is
// missing.
type ConfigurationError struct {
	Missing []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("selector: missing required configuration: %s", strings.Join(e.Missing, ", "))
}

// ErrorCode returns the error code for HTTP status mapping.
func (e *ConfigurationError) ErrorCode() string {
	return codeInvalid
}
