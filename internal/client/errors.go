package client

import (
	"errors"
	"fmt"
)

// Error kinds reported for failed provider calls.
const (
	KindTransient = "transient"
	KindPermanent = "permanent"
	KindDecode    = "decode"
	KindUnknown   = "unknown"
)

// TransientError is a network failure, timeout, throttle or 5xx from the provider.
// The same request may succeed later.
type TransientError struct {
	Endpoint   string
	StatusCode int // zero when no response was received
	Err        error
}

func (e *TransientError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("stats provider %s: transient status %d: %v", e.Endpoint, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("stats provider %s: transient failure: %v", e.Endpoint, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// PermanentError is a non-retryable 4xx from the provider, e.g. an unknown player id.
type PermanentError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *PermanentError) Error() string {
	return fmt.Sprintf("stats provider %s: status %d: %v", e.Endpoint, e.StatusCode, e.Err)
}

func (e *PermanentError) Unwrap() error { return e.Err }

// DecodeError means the provider answered 2xx with a payload we could not read.
type DecodeError struct {
	Endpoint string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("stats provider %s: decode response: %v", e.Endpoint, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// IsTransient reports whether err wraps a TransientError.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

// IsPermanent reports whether err wraps a PermanentError.
func IsPermanent(err error) bool {
	var pe *PermanentError
	return errors.As(err, &pe)
}

// IsProviderError reports whether err came from the provider boundary at all.
func IsProviderError(err error) bool {
	return ErrorKind(err) != KindUnknown
}

// ErrorKind classifies err for logs, metrics and run reports.
func ErrorKind(err error) string {
	var (
		te *TransientError
		pe *PermanentError
		de *DecodeError
	)
	switch {
	case errors.As(err, &te):
		return KindTransient
	case errors.As(err, &pe):
		return KindPermanent
	case errors.As(err, &de):
		return KindDecode
	default:
		return KindUnknown
	}
}
