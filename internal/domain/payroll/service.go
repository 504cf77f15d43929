package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"hrms/internal/domain/auth"
	"hrms/internal/domain/employee"
)

type Directory interface {
	ByID(ctx context.Context, empID string) (employee.Employee, error)
}

type Recorder interface {
	Record(ctx context.Context, actor, action, details string) error
}

type Service struct {
	DB        *pgxpool.Pool
	Directory Directory
	Audit     Recorder
	Now       func() time.Time
}

func New(db *pgxpool.Pool, directory Directory, audit Recorder) *Service {
	return &Service{DB: db, Directory: directory, Audit: audit, Now: time.Now}
}

// Generate computes and stores one payslip for an employee and period.
func (s *Service) Generate(ctx context.Context, actor employee.Employee, empID string, month, year int, baseSalary decimal.Decimal, lines []Line) (Payslip, error) {
	if !auth.IsPrivileged(actor.Role) {
		return Payslip{}, ErrForbidden
	}
	if month < 1 || month > 12 || year < 2000 {
		return Payslip{}, ErrInvalidPeriod
	}
	emp, err := s.Directory.ByID(ctx, empID)
	if err != nil {
		return Payslip{}, err
	}

	_, _, net := Compute(baseSalary, lines)
	slip := Payslip{
		PayslipID:   fmt.Sprintf("PAY-%d", s.Now().UnixMilli()),
		EmpID:       emp.EmpID,
		EmpName:     emp.Name,
		Month:       month,
		Year:        year,
		NetPay:      net,
		GeneratedAt: s.Now(),
	}
	_, err = s.DB.Exec(ctx, `
		INSERT INTO payslips (payslip_id, emp_id, pay_month, pay_year, net_pay, generated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		slip.PayslipID, slip.EmpID, slip.Month, slip.Year, slip.NetPay, slip.GeneratedAt)
	if err != nil {
		return Payslip{}, err
	}

	if s.Audit != nil {
		details := fmt.Sprintf("%s for %s %d-%02d net %s", slip.PayslipID, empID, year, month, net.StringFixed(2))
		if err := s.Audit.Record(ctx, actor.Email, "payroll.generate", details); err != nil {
			slog.Warn("audit payroll.generate failed", "err", err)
		}
	}
	return slip, nil
}

// List returns payslips visible to the caller: everything for ADMIN, HR and
// ACCOUNTANT, own slips for everyone else.
func (s *Service) List(ctx context.Context, caller employee.Employee) ([]Payslip, error) {
	query := `
		SELECT p.payslip_id, p.emp_id, e.name, p.pay_month, p.pay_year, p.net_pay, p.generated_at
		FROM payslips p
		JOIN employees e ON e.emp_id = p.emp_id`
	args := []any{}
	if !auth.CanViewAllAttendance(caller.Role) {
		query += ` WHERE p.emp_id = $1`
		args = append(args, caller.EmpID)
	}
	query += ` ORDER BY p.pay_year DESC, p.pay_month DESC, p.generated_at DESC`

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Payslip{}
	for rows.Next() {
		var slip Payslip
		if err := rows.Scan(&slip.PayslipID, &slip.EmpID, &slip.EmpName, &slip.Month, &slip.Year, &slip.NetPay, &slip.GeneratedAt); err != nil {
			return nil, err
		}
		out = append(out, slip)
	}
	return out, rows.Err()
}

// ByID fetches one payslip with the same visibility rule as List.
func (s *Service) ByID(ctx context.Context, caller employee.Employee, payslipID string) (Payslip, error) {
	var slip Payslip
	err := s.DB.QueryRow(ctx, `
		SELECT p.payslip_id, p.emp_id, e.name, p.pay_month, p.pay_year, p.net_pay, p.generated_at
		FROM payslips p
		JOIN employees e ON e.emp_id = p.emp_id
		WHERE p.payslip_id = $1`, payslipID).
		Scan(&slip.PayslipID, &slip.EmpID, &slip.EmpName, &slip.Month, &slip.Year, &slip.NetPay, &slip.GeneratedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Payslip{}, ErrNotFound
		}
		return Payslip{}, err
	}
	if !auth.CanViewAllAttendance(caller.Role) && slip.EmpID != caller.EmpID {
		return Payslip{}, ErrForbidden
	}
	return slip, nil
}
