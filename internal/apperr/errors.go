package apperr

import "errors"

// ErrInvalid is returned when the input fails domain validation.
var ErrInvalid = errors.New("invalid input")

// ErrConflict indicates a uniqueness or state conflict (HTTP 409).
var ErrConflict = errors.New("conflict")

// ErrNotFound indicates that the requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrAlreadyAssigned indicates that the delivery is already claimed by another courier.
var ErrAlreadyAssigned = errors.New("already assigned")

// ErrNotOwner indicates that the caller does not hold the delivery it tries to change.
var ErrNotOwner = errors.New("not owner")

// ErrNoFile indicates that a media upload arrived without a file payload.
var ErrNoFile = errors.New("no file provided")

// ErrMissingID indicates that a sync update change carries no server-side delivery id.
var ErrMissingID = errors.New("missing id")
