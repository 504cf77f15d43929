package attendance

import (
	"errors"
	"time"
)

const (
	KindCheckIn  = "Check In"
	KindCheckOut = "Check Out"
)

var (
	ErrAlreadyMarked = errors.New("attendance already marked for today")
	ErrNonWorkingDay = errors.New("attendance cannot be marked on a non-working day")
	ErrUnknownKind   = errors.New("unknown attendance kind")
	ErrForbidden     = errors.New("not allowed")
)

// Mark is a single check-in or check-out for one employee on one day. The
// (employee, day, kind) triple is unique.
type Mark struct {
	ID       int64     `json:"id"`
	Day      string    `json:"day"`
	EmpID    string    `json:"empId"`
	EmpName  string    `json:"empName,omitempty"`
	Kind     string    `json:"kind"`
	MarkedAt time.Time `json:"markedAt"`
	Lat      string    `json:"lat,omitempty"`
	Lng      string    `json:"lng,omitempty"`
	Device   string    `json:"device,omitempty"`
}
