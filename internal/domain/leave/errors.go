package leave

import "errors"

var (
	ErrRequestNotFound     = errors.New("request not found")
	ErrAlreadyProcessed    = errors.New("already processed")
	ErrNotAuthorized       = errors.New("you are not authorized to act on this request")
	ErrInvalidDays         = errors.New("invalid dates or 0 leave days")
	ErrInsufficientBalance = errors.New("insufficient balance")
)
