package domain

import "errors"

// Sentinel errors for domain-level error discrimination. Services wrap these
// so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")
	ErrRateLimited  = errors.New("rate limited")
)

// Auth-flow errors. All wrap a base sentinel so the handler layer only needs
// to know the coarse class; the message still carries the precise cause.
var (
	ErrInvalidCredentials  = wrap("invalid email or password", ErrUnauthorized)
	ErrAccountLocked       = wrap("account is locked, try again later", ErrUnauthorized)
	ErrEmailNotVerified    = wrap("email not verified", ErrUnauthorized)
	ErrInvalidRefreshToken = wrap("invalid refresh token", ErrUnauthorized)
	ErrDuplicateAccount    = wrap("email already registered", ErrBadRequest)
)

// OTP errors.
var (
	ErrOTPExpiredOrNotFound = wrap("OTP expired or not found", ErrBadRequest)
	ErrMaxAttemptsExceeded  = wrap("maximum attempts exceeded", ErrBadRequest)
)

// Category-hierarchy rule violations.
var (
	ErrCircularReference = wrap("cannot move category under its own subcategory", ErrBadRequest)
	ErrHasSubcategories  = wrap("cannot delete category with subcategories", ErrBadRequest)
	ErrHasProducts       = wrap("cannot delete category with associated products", ErrBadRequest)
)

func wrap(msg string, base error) error {
	return &domainError{msg: msg, base: base}
}

type domainError struct {
	msg  string
	base error
}

func (e *domainError) Error() string { return e.msg }
func (e *domainError) Unwrap() error { return e.base }
