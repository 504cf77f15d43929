package leave

import (
	"strings"

	"hrms/internal/domain/employee"
)

// BalanceKey identifies one of the four tracked balances.
type BalanceKey string

const (
	KeyCasual    BalanceKey = "casual"
	KeySick      BalanceKey = "sick"
	KeyMaternity BalanceKey = "maternity"
	KeyPaternity BalanceKey = "paternity"
)

// ResolveBalanceKey maps a free-text leave type label to a balance key by
// case-sensitive substring containment, checked in fixed order; the first
// match wins. Labels that match nothing carry no balance enforcement at all
// (unlimited leave types such as "Loss of Pay").
func ResolveBalanceKey(label string) (BalanceKey, bool) {
	switch {
	case strings.Contains(label, "Casual"):
		return KeyCasual, true
	case strings.Contains(label, "Sick"):
		return KeySick, true
	case strings.Contains(label, "Maternity"):
		return KeyMaternity, true
	case strings.Contains(label, "Paternity"):
		return KeyPaternity, true
	}
	return "", false
}

func BalanceFor(b employee.Balances, key BalanceKey) float64 {
	switch key {
	case KeyCasual:
		return b.Casual
	case KeySick:
		return b.Sick
	case KeyMaternity:
		return b.Maternity
	case KeyPaternity:
		return b.Paternity
	}
	return 0
}

// ApplyDelta returns the balances with delta added to the keyed field and the
// result rounded to two decimals. Deductions are not floored at zero.
func ApplyDelta(b employee.Balances, key BalanceKey, delta float64) employee.Balances {
	switch key {
	case KeyCasual:
		b.Casual = employee.Round2(b.Casual + delta)
	case KeySick:
		b.Sick = employee.Round2(b.Sick + delta)
	case KeyMaternity:
		b.Maternity = employee.Round2(b.Maternity + delta)
	case KeyPaternity:
		b.Paternity = employee.Round2(b.Paternity + delta)
	}
	return b
}
