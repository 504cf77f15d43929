package payroll

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

const (
	LineEarning   = "Earning"
	LineDeduction = "Deduction"
)

var (
	ErrForbidden     = errors.New("not allowed")
	ErrNotFound      = errors.New("payslip not found")
	ErrInvalidPeriod = errors.New("invalid pay period")
)

// Line is one payslip component. Amounts are decimal: payroll sums must not
// drift the way binary floats do.
type Line struct {
	Type   string          `json:"type"`
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

type Payslip struct {
	PayslipID   string          `json:"payslipId"`
	EmpID       string          `json:"empId"`
	EmpName     string          `json:"empName,omitempty"`
	Month       int             `json:"month"`
	Year        int             `json:"year"`
	NetPay      decimal.Decimal `json:"netPay"`
	GeneratedAt time.Time       `json:"generatedAt"`
}
