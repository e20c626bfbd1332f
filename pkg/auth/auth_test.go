package auth_test

import (
	"testing"

	"github.com/Kiko4ko1/magnetsbg-store/pkg/auth"
)

func TestStaticChecker(t *testing.T) {
	c := auth.StaticChecker{Email: "admin@example.com", Password: "password"}

	if !c.Check("admin@example.com", "password") {
		t.Error("expected matching credentials to pass")
	}
	if c.Check("admin@example.com", "wrong") {
		t.Error("expected wrong password to fail")
	}
	if c.Check("other@example.com", "password") {
		t.Error("expected wrong email to fail")
	}
}

func TestBcryptChecker(t *testing.T) {
	hash, err := auth.HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	c := auth.BcryptChecker{Email: "admin@example.com", PasswordHash: hash}

	if !c.Check("admin@example.com", "s3cret") {
		t.Error("expected matching credentials to pass")
	}
	if c.Check("admin@example.com", "wrong") {
		t.Error("expected wrong password to fail")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := auth.GenerateToken("admin@example.com")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := auth.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.Email != "admin@example.com" {
		t.Errorf("email claim = %q", claims.Email)
	}
}

func TestValidateGarbageToken(t *testing.T) {
	if _, err := auth.ValidateToken("not-a-token"); err == nil {
		t.Error("expected error for malformed token")
	}
}
