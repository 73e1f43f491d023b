package service

import "errors"

// Sentinel errors returned by the services.  Handlers map them to HTTP
// status codes with errors.Is; wrapped variants carry detail in the
// message.
var (
	ErrValidation         = errors.New("validation failed")
	ErrDuplicateUser      = errors.New("username or email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")
	ErrTrainNotFound      = errors.New("train not found")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrCapacityExceeded   = errors.New("not enough seats available")
)
