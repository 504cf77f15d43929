package employee

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"hrms/internal/domain/auth"
)

type Service struct {
	Store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{Store: store}
}

var mobilePattern = regexp.MustCompile(`^\d{10}$`)

// Resolve maps a caller email to an employee record: the access context for
// every authenticated operation. The match is trimmed and case-insensitive;
// the role is normalized and balances are rounded for display.
func (s *Service) Resolve(ctx context.Context, email string) (Employee, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return Employee{}, ErrAccessDenied
	}
	emp, err := s.Store.ByEmail(ctx, email)
	if err != nil {
		if err == ErrNotFound {
			return Employee{}, ErrAccessDenied
		}
		return Employee{}, err
	}
	emp.Role = auth.NormalizeRole(emp.Role)
	emp.Balances = emp.Balances.Rounded()
	return emp, nil
}

type CreateInput struct {
	EmpID         string    `json:"empId"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Role          string    `json:"role"`
	Department    string    `json:"department"`
	Designation   string    `json:"designation"`
	DateOfJoining time.Time `json:"-"`
	DateOfBirth   time.Time `json:"-"`
	Mobile        string    `json:"mobile"`
	ManagerID     string    `json:"managerId"`
	Password      string    `json:"password"`
}

// Create adds an employee. New hires start with zero casual balance and the
// last-accrual marker at their joining date, so the pro-rata accrual picks
// them up from day one; the sick balance starts at the yearly entitlement.
func (s *Service) Create(ctx context.Context, actor auth.UserContext, input CreateInput) (Employee, error) {
	if !auth.IsPrivileged(actor.Role) {
		return Employee{}, ErrForbidden
	}

	input.EmpID = strings.TrimSpace(input.EmpID)
	input.Email = strings.TrimSpace(input.Email)
	if input.EmpID == "" || input.Name == "" || input.Email == "" {
		return Employee{}, fmt.Errorf("%w: empId, name and email are required", ErrValidation)
	}
	role := auth.NormalizeRole(input.Role)
	if !auth.ValidRole(role) {
		return Employee{}, fmt.Errorf("%w: unknown role %q", ErrValidation, input.Role)
	}
	if input.Mobile == "" || input.DateOfBirth.IsZero() {
		return Employee{}, fmt.Errorf("%w: mobile number and DOB are required", ErrValidation)
	}
	if !mobilePattern.MatchString(input.Mobile) {
		return Employee{}, fmt.Errorf("%w: mobile number must be 10 digits", ErrValidation)
	}
	if age(input.DateOfBirth, time.Now()) < 18 {
		return Employee{}, fmt.Errorf("%w: employee must be at least 18 years old", ErrValidation)
	}
	if input.DateOfJoining.IsZero() {
		return Employee{}, fmt.Errorf("%w: date of joining is required", ErrValidation)
	}
	if input.ManagerID != "" {
		if err := s.checkManagerChain(ctx, input.EmpID, input.ManagerID); err != nil {
			return Employee{}, err
		}
	}

	passwordHash := ""
	if input.Password != "" {
		hashed, err := auth.HashPassword(input.Password)
		if err != nil {
			return Employee{}, err
		}
		passwordHash = hashed
	}

	emp := Employee{
		EmpID:         input.EmpID,
		Name:          input.Name,
		Email:         input.Email,
		Role:          role,
		Department:    input.Department,
		Designation:   input.Designation,
		DateOfJoining: input.DateOfJoining,
		DateOfBirth:   input.DateOfBirth,
		Mobile:        input.Mobile,
		Status:        StatusActive,
		PasswordHash:  passwordHash,
		Balances:      Balances{Casual: 0, Sick: 7, Maternity: 0, Paternity: 0},
		LastAccrualOn: input.DateOfJoining,
		ManagerID:     input.ManagerID,
	}
	if err := s.Store.Insert(ctx, emp); err != nil {
		return Employee{}, err
	}
	return emp, nil
}

// AssignManager re-points an employee's manager reference. The manager graph
// must stay a forest, so the chain above the proposed manager is walked to
// reject assignments that would close a loop.
func (s *Service) AssignManager(ctx context.Context, actor auth.UserContext, empID, managerID string) error {
	if !auth.IsPrivileged(actor.Role) {
		return ErrForbidden
	}
	if _, err := s.Store.ByID(ctx, empID); err != nil {
		return err
	}
	if managerID != "" {
		if err := s.checkManagerChain(ctx, empID, managerID); err != nil {
			return err
		}
	}
	return s.Store.UpdateManager(ctx, empID, managerID)
}

func (s *Service) checkManagerChain(ctx context.Context, empID, managerID string) error {
	if managerID == empID {
		return ErrManagerCycle
	}
	const maxDepth = 100
	current := managerID
	for depth := 0; current != ""; depth++ {
		if depth >= maxDepth {
			return ErrManagerCycle
		}
		manager, err := s.Store.ByID(ctx, current)
		if err != nil {
			if err == ErrNotFound {
				return ErrManagerNotFound
			}
			return err
		}
		if manager.EmpID == empID {
			return ErrManagerCycle
		}
		current = manager.ManagerID
	}
	return nil
}

func (s *Service) UpdateProfile(ctx context.Context, actor auth.UserContext, mobile string, dob time.Time) error {
	if mobile == "" || dob.IsZero() {
		return fmt.Errorf("%w: mobile number and DOB are required", ErrValidation)
	}
	if !mobilePattern.MatchString(mobile) {
		return fmt.Errorf("%w: mobile number must be 10 digits", ErrValidation)
	}
	if age(dob, time.Now()) < 18 {
		return fmt.Errorf("%w: you must be at least 18 years old", ErrValidation)
	}
	return s.Store.UpdateProfile(ctx, actor.EmpID, mobile, dob)
}

func (s *Service) List(ctx context.Context) ([]Employee, error) {
	employees, err := s.Store.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range employees {
		employees[i].Role = auth.NormalizeRole(employees[i].Role)
		employees[i].Balances = employees[i].Balances.Rounded()
	}
	return employees, nil
}

func (s *Service) ByID(ctx context.Context, empID string) (Employee, error) {
	return s.Store.ByID(ctx, empID)
}

func age(dob, now time.Time) int {
	years := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		years--
	}
	return years
}
