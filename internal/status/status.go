package status

import "errors"

var (
	ErrTicketNotFound   = errors.New("ticket: not found")
	ErrValidation       = errors.New("ticket: validation failed")
	ErrInvalidAction    = errors.New("ticket: invalid status action")
	ErrStoreUnavailable = errors.New("store: unavailable")
)
