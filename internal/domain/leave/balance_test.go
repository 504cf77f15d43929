package leave

import (
	"testing"

	"hrms/internal/domain/employee"
)

func TestResolveBalanceKey(t *testing.T) {
	tests := []struct {
		label string
		key   BalanceKey
		ok    bool
	}{
		{"Casual Leave", KeyCasual, true},
		{"Sick Leave", KeySick, true},
		{"Maternity Leave", KeyMaternity, true},
		{"Paternity Leave", KeyPaternity, true},
		{"Casual Sick Leave", KeyCasual, true}, // first match in fixed order wins
		{"casual leave", "", false},            // matching is case-sensitive
		{"Loss of Pay", "", false},
	}
	for _, tc := range tests {
		key, ok := ResolveBalanceKey(tc.label)
		if key != tc.key || ok != tc.ok {
			t.Errorf("ResolveBalanceKey(%q) = (%q, %v), want (%q, %v)", tc.label, key, ok, tc.key, tc.ok)
		}
	}
}

func TestApplyDeltaRoundsAndAllowsNegative(t *testing.T) {
	b := employee.Balances{Casual: 1}

	b = ApplyDelta(b, KeyCasual, -2.5)
	if b.Casual != -1.5 {
		t.Fatalf("casual = %v, want -1.5 (deductions are not floored)", b.Casual)
	}

	b = ApplyDelta(b, KeySick, 0.333)
	if b.Sick != 0.33 {
		t.Fatalf("sick = %v, want 0.33", b.Sick)
	}
}

func TestBalanceFor(t *testing.T) {
	b := employee.Balances{Casual: 1, Sick: 2, Maternity: 3, Paternity: 4}
	if got := BalanceFor(b, KeySick); got != 2 {
		t.Fatalf("BalanceFor(sick) = %v, want 2", got)
	}
	if got := BalanceFor(b, BalanceKey("unknown")); got != 0 {
		t.Fatalf("BalanceFor(unknown) = %v, want 0", got)
	}
}
