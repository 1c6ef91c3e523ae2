// Package llmerr classifies provider failures as transient or fatal.
//
// Provider packages wrap retryable failures in [TransientError]; callers
// test with [IsTransient]. Every other error is treated as fatal.
package llmerr

import (
	"errors"
	"fmt"
	"net/http"
)

// TransientError marks an error as retryable.
type TransientError struct {
	// StatusCode is the HTTP status reported by the provider.
	StatusCode int
	Err        error
}

func (e *TransientError) Error() string {
	if e == nil || e.Err == nil {
		return "transient error"
	}
	return e.Err.Error()
}

func (e *TransientError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// RetryableStatus reports whether an HTTP status is worth retrying:
// rate limiting and server-side failures.
func RetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code/100 == 5
}

// FromStatus wraps err in a TransientError when code is retryable and
// returns it unchanged otherwise.
func FromStatus(code int, err error) error {
	if err == nil {
		return nil
	}
	if RetryableStatus(code) {
		return &TransientError{StatusCode: code, Err: err}
	}
	return err
}

// StatusError builds the error for a non-2xx provider response.
func StatusError(provider string, code int, body string) error {
	return FromStatus(code, fmt.Errorf("%s: status %d: %s", provider, code, body))
}

// IsTransient reports whether err should be retried. Only rate limiting and
// server-side failures qualify; timeouts and cancellation are fatal.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}
