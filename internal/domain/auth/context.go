package auth

// UserContext is the resolved caller identity attached to each request once
// the token email has been matched against the employee directory.
type UserContext struct {
	EmpID     string
	Name      string
	Email     string
	Role      string
	ManagerID string
}
