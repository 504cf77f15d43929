package employee

import (
	"math"
	"time"
)

const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

// Balances holds the four leave balances tracked per employee. Values are
// rounded to two decimals after every mutation; they are allowed to go
// negative on deduction (overdraft is not floored).
type Balances struct {
	Casual    float64 `json:"casual"`
	Sick      float64 `json:"sick"`
	Maternity float64 `json:"maternity"`
	Paternity float64 `json:"paternity"`
}

func (b Balances) Rounded() Balances {
	return Balances{
		Casual:    Round2(b.Casual),
		Sick:      Round2(b.Sick),
		Maternity: Round2(b.Maternity),
		Paternity: Round2(b.Paternity),
	}
}

// Round2 rounds half away from zero to two decimal places, matching how every
// balance mutation in the system is stored.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

type Employee struct {
	EmpID         string    `json:"empId"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Role          string    `json:"role"`
	Department    string    `json:"department"`
	Designation   string    `json:"designation"`
	DateOfJoining time.Time `json:"dateOfJoining"`
	DateOfBirth   time.Time `json:"dateOfBirth"`
	Mobile        string    `json:"mobile"`
	Status        string    `json:"status"`
	PasswordHash  string    `json:"-"`
	Balances      Balances  `json:"balances"`
	LastAccrualOn time.Time `json:"lastAccrualOn"`
	ManagerID     string    `json:"managerId"`
	// RowVersion is the optimistic-concurrency token: every balance write must
	// present the version it read, and loses to any concurrent writer.
	RowVersion int64 `json:"-"`
}

func (e Employee) Active() bool {
	return e.Status == StatusActive
}
