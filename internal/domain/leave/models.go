package leave

import "time"

const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
)

const (
	SessionFullDay    = "Full Day"
	SessionFirstHalf  = "First Half"
	SessionSecondHalf = "Second Half"
)

type Request struct {
	RequestID string    `json:"requestId"`
	EmpID     string    `json:"empId"`
	LeaveType string    `json:"leaveType"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Reason    string    `json:"reason"`
	Status    string    `json:"status"`
	// Days is fixed at submission time and never recomputed afterwards, even
	// if the holiday list changes before approval.
	Days      float64   `json:"days"`
	CreatedAt time.Time `json:"createdAt"`
}

type Holiday struct {
	Date  time.Time `json:"date"`
	Title string    `json:"title"`
	Kind  string    `json:"kind"`
}

type SubmitForm struct {
	LeaveType string
	Session   string
	Start     time.Time
	End       time.Time
	Reason    string
}
