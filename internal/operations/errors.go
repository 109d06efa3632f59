package operations

import (
	"errors"
	"net/http"
)

const (
	ErrMissingFields        = "missing_fields"
	ErrInvalidEmail         = "invalid_email"
	ErrDomainNotAllowed     = "domain_not_allowed"
	ErrEmailTaken           = "email_already_registered"
	ErrInvalidCredentials   = "invalid_credentials"
	ErrInvalidOrExpiredCode = "invalid_or_expired_code"
	ErrEmailDeliveryFailed  = "email_delivery_failed"
	ErrUserNotFound         = "user_not_found"
	ErrCompanyNotFound      = "company_not_found"
	ErrUnknownTeacher       = "unknown_teacher"
	ErrServerError          = "server_error"
)

type Error struct {
	Code   string
	Status int
	Err    error
}

func (e *Error) Error() string {
	return e.Code
}

func (e *Error) Unwrap() error {
	return e.Err
}

func fail(status int, code string) *Error {
	return &Error{Code: code, Status: status}
}

// internal wraps an unexpected failure. The cause is kept for server side
// logging only.
func internal(err error) *Error {
	return &Error{Code: ErrServerError, Status: http.StatusInternalServerError, Err: err}
}

// AsError unwraps err into an *Error, falling back to a generic 500.
func AsError(err error) *Error {
	var opErr *Error
	if errors.As(err, &opErr) {
		return opErr
	}
	return internal(err)
}
