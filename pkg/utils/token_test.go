package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestTokenRoundTrip(t *testing.T) {
	token, expiresAt, err := GenerateToken("boss@limo.test", "admin", "test-secret", 2)
	if err != nil {
		t.Fatalf("generate error: %v", err)
	}
	if time.Until(expiresAt) < time.Hour {
		t.Fatalf("expiry too close: %v", expiresAt)
	}

	claims, err := ParseToken(token, "test-secret")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if claims.Email != "boss@limo.test" {
		t.Fatalf("unexpected email claim: %q", claims.Email)
	}
	if claims.Role != "admin" {
		t.Fatalf("unexpected role claim: %q", claims.Role)
	}
}

func TestTokenDefaultExpiry(t *testing.T) {
	_, expiresAt, err := GenerateToken("boss@limo.test", "admin", "test-secret", 0)
	if err != nil {
		t.Fatalf("generate error: %v", err)
	}

	until := time.Until(expiresAt)
	if until < 23*time.Hour || until > 25*time.Hour {
		t.Fatalf("default expiry not around 24h: %v", until)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, _, err := GenerateToken("boss@limo.test", "admin", "test-secret", 1)
	if err != nil {
		t.Fatalf("generate error: %v", err)
	}

	if _, err := ParseToken(token, "other-secret"); err == nil {
		t.Fatal("expected rejection with the wrong secret")
	}
}

func TestParseTokenExpired(t *testing.T) {
	claims := AdminClaims{
		Email: "boss@limo.test",
		Role:  "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign error: %v", err)
	}

	if _, err := ParseToken(signed, "test-secret"); err == nil {
		t.Fatal("expected rejection of an expired token")
	}
}

func TestParseTokenGarbage(t *testing.T) {
	if _, err := ParseToken("not.a.token", "test-secret"); err == nil {
		t.Fatal("expected rejection of a malformed token")
	}
}
