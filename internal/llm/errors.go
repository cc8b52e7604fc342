package llm

import (
	"context"
	"errors"
	"fmt"
)

// ConfigurationError reports a missing or invalid setting detected before any request is sent.
type ConfigurationError struct {
	Setting string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Setting, e.Reason)
}

// TransportError wraps network failures, timeouts and non-2xx API responses.
// StatusCode is zero when no HTTP response was received.
type TransportError struct {
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("completion API returned status %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("completion API request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Timeout reports whether the request failed because a deadline expired.
func (e *TransportError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var te interface{ Timeout() bool }
	return errors.As(e.Err, &te) && te.Timeout()
}

// SchemaValidationError reports a completion that does not match the requested structured output.
type SchemaValidationError struct {
	Reason string
	Err    error
}

func (e *SchemaValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("structured output error: %s: %v", e.Reason, e.Err)
	}
	return "structured output error: " + e.Reason
}

func (e *SchemaValidationError) Unwrap() error { return e.Err }
