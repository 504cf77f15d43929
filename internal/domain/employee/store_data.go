package employee

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const employeeColumns = `
  emp_id, name, email, role, department, designation,
  date_of_joining, date_of_birth, mobile, status, password_hash,
  bal_casual, bal_sick, bal_maternity, bal_paternity,
  last_accrual_on, manager_id, row_version
`

func scanEmployee(row pgx.Row) (Employee, error) {
	var e Employee
	var dob, lastAccrual *time.Time
	var managerID *string
	err := row.Scan(
		&e.EmpID, &e.Name, &e.Email, &e.Role, &e.Department, &e.Designation,
		&e.DateOfJoining, &dob, &e.Mobile, &e.Status, &e.PasswordHash,
		&e.Balances.Casual, &e.Balances.Sick, &e.Balances.Maternity, &e.Balances.Paternity,
		&lastAccrual, &managerID, &e.RowVersion,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrNotFound
	}
	if err != nil {
		return Employee{}, err
	}
	if dob != nil {
		e.DateOfBirth = *dob
	}
	if lastAccrual != nil {
		e.LastAccrualOn = *lastAccrual
	}
	if managerID != nil {
		e.ManagerID = *managerID
	}
	return e, nil
}

func (s *Store) ByEmail(ctx context.Context, email string) (Employee, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT `+employeeColumns+`
    FROM employees
    WHERE lower(email) = lower($1)
  `, strings.TrimSpace(email))
	return scanEmployee(row)
}

func (s *Store) ByID(ctx context.Context, empID string) (Employee, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT `+employeeColumns+`
    FROM employees
    WHERE emp_id = $1
  `, empID)
	return scanEmployee(row)
}

func (s *Store) List(ctx context.Context) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+employeeColumns+`
    FROM employees
    ORDER BY emp_id
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) Insert(ctx context.Context, emp Employee) error {
	var managerID any
	if emp.ManagerID != "" {
		managerID = emp.ManagerID
	}
	var dob any
	if !emp.DateOfBirth.IsZero() {
		dob = emp.DateOfBirth
	}
	var lastAccrual any
	if !emp.LastAccrualOn.IsZero() {
		lastAccrual = emp.LastAccrualOn
	}
	_, err := s.DB.Exec(ctx, `
    INSERT INTO employees (
      emp_id, name, email, role, department, designation,
      date_of_joining, date_of_birth, mobile, status, password_hash,
      bal_casual, bal_sick, bal_maternity, bal_paternity,
      last_accrual_on, manager_id
    )
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
  `, emp.EmpID, emp.Name, emp.Email, emp.Role, emp.Department, emp.Designation,
		emp.DateOfJoining, dob, emp.Mobile, emp.Status, emp.PasswordHash,
		emp.Balances.Casual, emp.Balances.Sick, emp.Balances.Maternity, emp.Balances.Paternity,
		lastAccrual, managerID)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		if strings.Contains(pgErr.ConstraintName, "email") {
			return ErrDuplicateEmail
		}
		return ErrDuplicateID
	}
	return err
}

func (s *Store) UpdateProfile(ctx context.Context, empID, mobile string, dob time.Time) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employees SET mobile = $1, date_of_birth = $2 WHERE emp_id = $3
  `, mobile, dob, empID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) UpdateManager(ctx context.Context, empID, managerID string) error {
	var manager any
	if managerID != "" {
		manager = managerID
	}
	tag, err := s.DB.Exec(ctx, `
    UPDATE employees SET manager_id = $1 WHERE emp_id = $2
  `, manager, empID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) UpdateBalances(ctx context.Context, empID string, balances Balances, lastAccrualOn *time.Time, expectedVersion int64) error {
	query := `
    UPDATE employees
    SET bal_casual = $1, bal_sick = $2, bal_maternity = $3, bal_paternity = $4,
        row_version = row_version + 1
  `
	args := []any{balances.Casual, balances.Sick, balances.Maternity, balances.Paternity}
	if lastAccrualOn != nil {
		query += ", last_accrual_on = $5 WHERE emp_id = $6 AND row_version = $7"
		args = append(args, *lastAccrualOn, empID, expectedVersion)
	} else {
		query += " WHERE emp_id = $5 AND row_version = $6"
		args = append(args, empID, expectedVersion)
	}

	tag, err := s.DB.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrVersionConflict
	}
	return nil
}
