package employee

import "errors"

var (
	ErrNotFound        = errors.New("employee not found")
	ErrAccessDenied    = errors.New("access denied: email not found")
	ErrDuplicateID     = errors.New("employee with this ID already exists")
	ErrDuplicateEmail  = errors.New("employee with this email already exists")
	ErrManagerNotFound = errors.New("manager not found")
	ErrManagerCycle    = errors.New("manager assignment would create a cycle")
	ErrVersionConflict = errors.New("employee row was modified concurrently")
	ErrForbidden       = errors.New("not authorized")
	ErrValidation      = errors.New("validation failed")
)
