package auth

import "strings"

const (
	RoleAdmin      = "ADMIN"
	RoleHR         = "HR"
	RoleAccountant = "ACCOUNTANT"
	RoleManager    = "MANAGER"
	RoleEmployee   = "EMPLOYEE"
)

var knownRoles = map[string]bool{
	RoleAdmin:      true,
	RoleHR:         true,
	RoleAccountant: true,
	RoleManager:    true,
	RoleEmployee:   true,
}

// NormalizeRole upper-cases and trims a stored role label. Unknown labels pass
// through normalized so legacy rows stay readable; ValidRole gates writes.
func NormalizeRole(role string) string {
	return strings.ToUpper(strings.TrimSpace(role))
}

func ValidRole(role string) bool {
	return knownRoles[NormalizeRole(role)]
}

// IsPrivileged reports whether the role may act on records of any employee.
func IsPrivileged(role string) bool {
	normalized := NormalizeRole(role)
	return normalized == RoleAdmin || normalized == RoleHR
}

// CanViewAllAttendance covers the wider read-only scope that includes payroll
// staff.
func CanViewAllAttendance(role string) bool {
	return IsPrivileged(role) || NormalizeRole(role) == RoleAccountant
}
