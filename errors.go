package unitedlogs

import (
	"errors"
	"fmt"
)

var (
	ErrMissingAPIKey      = errors.New("api key not specified")
	ErrMissingEnvironment = errors.New("environment not specified")
	ErrMissingDomain      = errors.New("domain not specified and no fallback configured")
	ErrUnknownLevel       = errors.New("unknown log level")

	// ErrLevelDisabled is reported by Send when the level is not enabled on the client.
	// No request is made in that case.
	ErrLevelDisabled = errors.New("log level disabled")

	ErrUnsupportedParam = errors.New("unsupported param value")
	ErrNoSuccessField   = errors.New("response has no success field")
)

// ConfigurationError is returned by New when the client cannot be constructed.
type ConfigurationError struct {
	Field string
	Err   error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("unitedlogs: invalid %s: %v", e.Field, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// StatusError is the Result.Err for a response outside the 2xx range. Body is
// truncated to maxErrorBody bytes.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}
