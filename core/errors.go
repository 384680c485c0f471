package core

import "github.com/pkg/errors"

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

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
		return "validation failed"
	}
	return err.Err.Error()
}

// NotFoundError means the referenced object does not exist or is not visible to the caller.
type NotFoundError struct {
	message string
}

func NewNotFoundError(msg string) error {
	return &NotFoundError{message: msg}
}

func (err NotFoundError) Error() string {
	return err.message
}

func IsNotFound(err error) bool {
	_, ok := errors.Cause(err).(*NotFoundError)
	return ok
}

// AuthorizationError means the caller lacks the role or ownership an operation requires.
type AuthorizationError struct {
	message string
}

func NewAuthorizationError(msg string) error {
	return &AuthorizationError{message: msg}
}

func (err AuthorizationError) Error() string {
	return err.message
}

func IsAuthorization(err error) bool {
	_, ok := errors.Cause(err).(*AuthorizationError)
	return ok
}

// ExternalServiceError reports a failing collaborator (profile lookup, file upload, ...).
// It has no Cause method, so errors.Cause stops here.
type ExternalServiceError struct {
	Service string
	Err     error
}

func NewExternalServiceError(service string, err error) error {
	return &ExternalServiceError{Service: service, Err: err}
}

func (err ExternalServiceError) Error() string {
	if err.Err == nil {
		return err.Service + " unavailable"
	}
	return err.Service + ": " + err.Err.Error()
}

func (err ExternalServiceError) Unwrap() error {
	return err.Err
}

func IsExternalService(err error) bool {
	_, ok := errors.Cause(err).(*ExternalServiceError)
	return ok
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
