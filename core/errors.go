package core

import "github.com/pkg/errors"

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

// ValidationError reports a rejected form: missing required fields, malformed email, unknown course...
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		if len(err.Fields) > 0 {
			return err.Fields[0].Field + ": " + err.Fields[0].Error
		}
		return ""
	}
	return err.Err.Error()
}

// AuthError is returned when credentials are rejected or the auth backend cannot be reached.
type AuthError struct {
	Msg string
	Err error
}

func NewAuthError(msg string, err ...error) error {
	ae := &AuthError{Msg: msg}
	if len(err) > 0 {
		ae.Err = err[0]
	}
	return ae
}

func (err AuthError) Error() string { return err.Msg }
func (err AuthError) Unwrap() error { return err.Err }

// AuthorizationError is returned when a valid session lacks the required role.
type AuthorizationError struct {
	Msg string
}

func NewAuthorizationError(msg string) error {
	return &AuthorizationError{Msg: msg}
}

func (err AuthorizationError) Error() string { return err.Msg }

// NotFoundError is returned when a looked-up record or account does not exist.
type NotFoundError struct {
	Msg string
}

func NewNotFoundError(msg string) error {
	return &NotFoundError{Msg: msg}
}

func (err NotFoundError) Error() string { return err.Msg }

// StoreError wraps a failed record store call (fetch, update, delete).
type StoreError struct {
	Op  string
	Err error
}

func NewStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}

func (err StoreError) Error() string { return err.Err.Error() }
func (err StoreError) Unwrap() error { return err.Err }

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsAuthError(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
