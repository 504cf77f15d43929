package employee

import (
	"context"
	"errors"
	"testing"
	"time"

	"hrms/internal/domain/auth"
)

type memStore struct {
	employees map[string]*Employee
	byEmail   map[string]string
}

func newMemStore() *memStore {
	return &memStore{employees: map[string]*Employee{}, byEmail: map[string]string{}}
}

func (m *memStore) add(emp Employee) {
	m.employees[emp.EmpID] = &emp
	m.byEmail[emp.Email] = emp.EmpID
}

func (m *memStore) ByEmail(_ context.Context, email string) (Employee, error) {
	empID, ok := m.byEmail[email]
	if !ok {
		return Employee{}, ErrNotFound
	}
	return *m.employees[empID], nil
}

func (m *memStore) ByID(_ context.Context, empID string) (Employee, error) {
	emp, ok := m.employees[empID]
	if !ok {
		return Employee{}, ErrNotFound
	}
	return *emp, nil
}

func (m *memStore) List(_ context.Context) ([]Employee, error) {
	out := []Employee{}
	for _, emp := range m.employees {
		out = append(out, *emp)
	}
	return out, nil
}

func (m *memStore) Insert(_ context.Context, emp Employee) error {
	if _, exists := m.employees[emp.EmpID]; exists {
		return ErrDuplicateID
	}
	if _, exists := m.byEmail[emp.Email]; exists {
		return ErrDuplicateEmail
	}
	m.add(emp)
	return nil
}

func (m *memStore) UpdateProfile(_ context.Context, empID, mobile string, dob time.Time) error {
	emp, ok := m.employees[empID]
	if !ok {
		return ErrNotFound
	}
	emp.Mobile = mobile
	emp.DateOfBirth = dob
	return nil
}

func (m *memStore) UpdateManager(_ context.Context, empID, managerID string) error {
	emp, ok := m.employees[empID]
	if !ok {
		return ErrNotFound
	}
	emp.ManagerID = managerID
	return nil
}

func (m *memStore) UpdateBalances(_ context.Context, empID string, balances Balances, lastAccrualOn *time.Time, expectedVersion int64) error {
	emp, ok := m.employees[empID]
	if !ok {
		return ErrNotFound
	}
	if emp.RowVersion != expectedVersion {
		return ErrVersionConflict
	}
	emp.Balances = balances
	if lastAccrualOn != nil {
		emp.LastAccrualOn = *lastAccrualOn
	}
	emp.RowVersion++
	return nil
}

func hrActor() auth.UserContext {
	return auth.UserContext{EmpID: "HR1", Email: "hr@corp.test", Role: auth.RoleHR}
}

func validInput() CreateInput {
	return CreateInput{
		EmpID:         "E100",
		Name:          "Asha Nair",
		Email:         "asha@corp.test",
		Role:          "employee",
		Mobile:        "9876543210",
		DateOfJoining: time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC),
		DateOfBirth:   time.Date(1990, time.March, 15, 0, 0, 0, 0, time.UTC),
		Password:      "s3cret",
	}
}

func TestCreateSetsNewHireDefaults(t *testing.T) {
	svc := NewService(newMemStore())

	created, err := svc.Create(context.Background(), hrActor(), validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Status != StatusActive {
		t.Fatalf("status = %q, want %q", created.Status, StatusActive)
	}
	if created.Balances.Casual != 0 || created.Balances.Sick != 7 {
		t.Fatalf("balances = %+v, want casual 0 sick 7", created.Balances)
	}
	if !created.LastAccrualOn.Equal(created.DateOfJoining) {
		t.Fatalf("lastAccrualOn = %v, want joining date %v", created.LastAccrualOn, created.DateOfJoining)
	}
	if created.Role != auth.RoleEmployee {
		t.Fatalf("role = %q, want normalized %q", created.Role, auth.RoleEmployee)
	}
	if created.PasswordHash == "" || created.PasswordHash == "s3cret" {
		t.Fatalf("password was not hashed")
	}
}

func TestCreateRequiresPrivilege(t *testing.T) {
	svc := NewService(newMemStore())

	actor := auth.UserContext{EmpID: "M1", Role: auth.RoleManager}
	if _, err := svc.Create(context.Background(), actor, validInput()); !errors.Is(err, ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newMemStore())

	cases := []struct {
		name   string
		mutate func(*CreateInput)
	}{
		{"missing empId", func(in *CreateInput) { in.EmpID = "" }},
		{"unknown role", func(in *CreateInput) { in.Role = "WIZARD" }},
		{"short mobile", func(in *CreateInput) { in.Mobile = "12345" }},
		{"missing dob", func(in *CreateInput) { in.DateOfBirth = time.Time{} }},
		{"underage", func(in *CreateInput) { in.DateOfBirth = time.Now().AddDate(-17, 0, 0) }},
		{"missing joining date", func(in *CreateInput) { in.DateOfJoining = time.Time{} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validInput()
			tc.mutate(&input)
			if _, err := svc.Create(context.Background(), hrActor(), input); !errors.Is(err, ErrValidation) {
				t.Fatalf("err = %v, want ErrValidation", err)
			}
		})
	}
}

func TestCreateDuplicateID(t *testing.T) {
	svc := NewService(newMemStore())

	if _, err := svc.Create(context.Background(), hrActor(), validInput()); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	input := validInput()
	input.Email = "other@corp.test"
	if _, err := svc.Create(context.Background(), hrActor(), input); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("err = %v, want ErrDuplicateID", err)
	}
}

func TestAssignManagerRejectsCycle(t *testing.T) {
	store := newMemStore()
	store.add(Employee{EmpID: "A", Email: "a@corp.test", Role: auth.RoleManager})
	store.add(Employee{EmpID: "B", Email: "b@corp.test", Role: auth.RoleManager, ManagerID: "A"})
	store.add(Employee{EmpID: "C", Email: "c@corp.test", Role: auth.RoleEmployee, ManagerID: "B"})
	svc := NewService(store)

	// A -> C would close A <- B <- C.
	if err := svc.AssignManager(context.Background(), hrActor(), "A", "C"); !errors.Is(err, ErrManagerCycle) {
		t.Fatalf("err = %v, want ErrManagerCycle", err)
	}
	if err := svc.AssignManager(context.Background(), hrActor(), "A", "A"); !errors.Is(err, ErrManagerCycle) {
		t.Fatalf("self-manager err = %v, want ErrManagerCycle", err)
	}
	if err := svc.AssignManager(context.Background(), hrActor(), "C", "missing"); !errors.Is(err, ErrManagerNotFound) {
		t.Fatalf("err = %v, want ErrManagerNotFound", err)
	}

	if err := svc.AssignManager(context.Background(), hrActor(), "C", "A"); err != nil {
		t.Fatalf("reparenting under the chain root should succeed: %v", err)
	}
}

func TestResolveNormalizesEmail(t *testing.T) {
	store := newMemStore()
	store.add(Employee{EmpID: "E1", Email: "asha@corp.test", Role: "hr", Status: StatusActive})
	svc := NewService(store)

	emp, err := svc.Resolve(context.Background(), "  ASHA@corp.test ")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if emp.Role != auth.RoleHR {
		t.Fatalf("role = %q, want normalized %q", emp.Role, auth.RoleHR)
	}

	if _, err := svc.Resolve(context.Background(), "nobody@corp.test"); !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("err = %v, want ErrAccessDenied", err)
	}
	if _, err := svc.Resolve(context.Background(), "  "); !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("blank email err = %v, want ErrAccessDenied", err)
	}
}
