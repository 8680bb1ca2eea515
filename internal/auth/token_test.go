package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rahul/shopkart/backend/internal/auth"
)

func TestTokenRoundTrip(t *testing.T) {
	const secret = "test-secret"
	const userID = "61b73ab4e45e25b00404a8f9"

	token, err := auth.GenerateToken(userID, secret)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := auth.ValidateToken(token, secret)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("user id = %s, want %s", claims.UserID, userID)
	}
	if claims.ExpiresAt != nil {
		t.Errorf("token should carry no expiry claim, got %v", claims.ExpiresAt)
	}
}

func TestTokenRejection(t *testing.T) {
	token, err := auth.GenerateToken("abc", "right-secret")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	tests := []struct {
		name   string
		token  string
		secret string
	}{
		{"wrong secret", token, "wrong-secret"},
		{"garbage token", "not.a.token", "right-secret"},
		{"empty token", "", "right-secret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := auth.ValidateToken(tt.token, tt.secret); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}

	t.Run("other signing method", func(t *testing.T) {
		claims := auth.Claims{
			UserID: "abc",
			RegisteredClaims: jwt.RegisteredClaims{
				IssuedAt: jwt.NewNumericDate(time.Now()),
			},
		}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS384, claims).SignedString([]byte("right-secret"))
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		if _, err := auth.ValidateToken(signed, "right-secret"); err == nil {
			t.Error("token signed with HS384 accepted, only HS256 should be")
		}
	})
}
