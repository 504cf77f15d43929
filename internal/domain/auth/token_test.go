package auth

import (
	"errors"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := IssueToken("secret", "asha@corp.test", time.Hour)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	claims, err := ParseToken("secret", token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.Email != "asha@corp.test" {
		t.Fatalf("email = %q, want asha@corp.test", claims.Email)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := IssueToken("secret", "asha@corp.test", time.Hour)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if _, err := ParseToken("other", token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	token, err := IssueToken("secret", "asha@corp.test", -time.Minute)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if _, err := ParseToken("secret", token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if err := CheckPassword(hash, "s3cret"); err != nil {
		t.Fatalf("CheckPassword: %v", err)
	}
	if err := CheckPassword(hash, "wrong"); err == nil {
		t.Fatalf("wrong password accepted")
	}
}

func TestRoleHelpers(t *testing.T) {
	if !IsPrivileged("admin") || !IsPrivileged(" HR ") {
		t.Fatalf("admin and hr must be privileged")
	}
	if IsPrivileged(RoleManager) || IsPrivileged(RoleAccountant) {
		t.Fatalf("manager and accountant must not be privileged")
	}
	if !CanViewAllAttendance(RoleAccountant) {
		t.Fatalf("accountant must see all attendance")
	}
	if CanViewAllAttendance(RoleEmployee) {
		t.Fatalf("employee must not see all attendance")
	}
	if ValidRole("WIZARD") {
		t.Fatalf("unknown role accepted")
	}
}
