package hxtodo

import (
	"errors"

	"github.com/pthm/hxtodo/lib/encoding"
)

// Sentinel errors for action dispatch.
var (
	ErrUnknownAction    = errors.New("hxtodo: unknown action")
	ErrInvalidFormat    = errors.New("hxtodo: invalid action payload")
	ErrSignatureInvalid = errors.New("hxtodo: payload signature verification failed")
	ErrDecryptFailed    = errors.New("hxtodo: payload decryption failed")
	ErrActionMismatch   = errors.New("hxtodo: payload does not match action")
	ErrHTMXRequired     = errors.New("hxtodo: HTMX request required")
)

// IsNotFound checks if err is an unknown-action error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUnknownAction)
}

// IsBadPayload checks if err is caused by a malformed or tampered payload.
func IsBadPayload(err error) bool {
	return errors.Is(err, ErrInvalidFormat) ||
		errors.Is(err, ErrSignatureInvalid) ||
		errors.Is(err, ErrDecryptFailed) ||
		errors.Is(err, ErrActionMismatch)
}

// wrapEncodingError maps encoding package errors to hxtodo sentinel errors.
func wrapEncodingError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, encoding.ErrSignatureInvalid):
		return ErrSignatureInvalid
	case errors.Is(err, encoding.ErrDecryptFailed):
		return ErrDecryptFailed
	default:
		return ErrInvalidFormat
	}
}
