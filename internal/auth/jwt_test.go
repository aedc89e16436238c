package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)

	token, err := m.Generate("household-1", "user-1")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	claims, err := m.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if claims.HouseholdID != "household-1" {
		t.Errorf("HouseholdID = %q, want household-1", claims.HouseholdID)
	}
	if claims.UserID != "user-1" {
		t.Errorf("UserID = %q, want user-1", claims.UserID)
	}
}

func TestJWTManager_Rejects(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)

	expired, err := NewJWTManager("test-secret", -time.Minute).Generate("household-1", "")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	otherKey, err := NewJWTManager("other-secret", time.Hour).Generate("household-1", "")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	noHousehold, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{UserID: "user-1"}).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("SignedString failed: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"expired", expired},
		{"wrong key", otherKey},
		{"no household", noHousehold},
		{"garbage", "not.a.token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Validate(tt.token)
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Validate() error = %v, want ErrInvalidToken", err)
			}
		})
	}

	if _, err := m.Generate("", "user-1"); err == nil {
		t.Error("Expected error generating a token without household")
	}
}
