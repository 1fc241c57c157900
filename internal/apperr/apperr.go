// Package apperr defines the error classes pipeman distinguishes between.
//
// Configuration and resolution errors are fatal at startup. Transport and
// mapping errors are scoped to a single refresh cycle.
package apperr

import (
	"errors"
	"fmt"
)

// ConfigurationError reports a missing or invalid setting
type ConfigurationError struct {
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Key == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Key, e.Reason)
}

// ResolutionError reports that the current project could not be determined
type ResolutionError struct {
	Reason string
	Err    error
}

func (e *ResolutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot resolve project: %s: %v", e.Reason, e.Err)
	}
	return "cannot resolve project: " + e.Reason
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// TransportError wraps a failed API call
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// MappingError reports a response record that cannot be normalized
type MappingError struct {
	Entity string
	Reason string
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("cannot map %s: %s", e.Entity, e.Reason)
}

// UnknownStatusError reports a status outside the configured precedence order.
// It means the status vocabulary drifted and the order needs updating.
type UnknownStatusError struct {
	Status string
}

func (e *UnknownStatusError) Error() string {
	return fmt.Sprintf("unknown status %q", e.Status)
}

// Transport wraps err as a TransportError for operation op.
// A nil err stays nil.
func Transport(op string, err error) error {
	if err == nil {
		return nil
	}
	return &TransportError{Op: op, Err: err}
}

// IsFatal reports whether err should abort the process
func IsFatal(err error) bool {
	var cfgErr *ConfigurationError
	var resErr *ResolutionError
	return errors.As(err, &cfgErr) || errors.As(err, &resErr)
}

// IsTransport reports whether err came from a failed API call
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsMapping reports whether err is a mapping or unknown-status error
func IsMapping(err error) bool {
	var me *MappingError
	var ue *UnknownStatusError
	return errors.As(err, &me) || errors.As(err, &ue)
}

// Class returns a short label for logging
func Class(err error) string {
	switch {
	case err == nil:
		return ""
	case IsFatal(err):
		var cfgErr *ConfigurationError
		if errors.As(err, &cfgErr) {
			return "configuration"
		}
		return "resolution"
	case IsTransport(err):
		return "transport"
	case IsMapping(err):
		var ue *UnknownStatusError
		if errors.As(err, &ue) {
			return "unknown_status"
		}
		return "mapping"
	default:
		return "internal"
	}
}
