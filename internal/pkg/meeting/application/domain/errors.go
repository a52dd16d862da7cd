package meeting

import "errors"

// Domain-level errors for meeting behaviors. Controllers map these to HTTP
// statuses; worker code maps them to retry decisions.
var (
	ErrNotFound      = errors.New("meeting: not found")
	ErrForbidden     = errors.New("meeting: caller is not allowed to perform this action")
	ErrStateConflict = errors.New("meeting: lifecycle transition not allowed from current status")
	ErrValidation    = errors.New("meeting: invalid input")
)
