package user

import (
	"testing"

	"github.com/irsalhamdi/orderly/validate"
	"golang.org/x/crypto/bcrypt"
)

func TestNew(t *testing.T) {
	u, err := New("Alice", "Alice@Orderly.TEST", "CUSTOMER", "secret-password")
	if err != nil {
		t.Fatalf("new user: %v", err)
	}

	if u.Email != "alice@orderly.test" {
		t.Fatalf("expected lower cased email, got %s", u.Email)
	}
	if err := validate.CheckID(u.ID); err != nil {
		t.Fatalf("expected a valid id, got %q: %v", u.ID, err)
	}
	if !u.CreatedAt.Equal(u.UpdatedAt) {
		t.Fatalf("expected equal timestamps, got %s and %s", u.CreatedAt, u.UpdatedAt)
	}

	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte("secret-password")); err != nil {
		t.Fatalf("password does not match its hash: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte("other-password")); err == nil {
		t.Fatal("expected a different password to be rejected")
	}
}
