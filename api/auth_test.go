package api

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

func TestBearerTokenFromStringSuccess(t *testing.T) {
	token, err := bearerTokenFromString("Bearer header.payload.signature")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "header.payload.signature" {
		t.Fatalf("unexpected token content: %s", token)
	}
}

func TestBearerTokenFromStringMissing(t *testing.T) {
	if _, err := bearerTokenFromString(""); err == nil || err.Error() != "missing authorization header" {
		t.Fatalf("expected missing header error, got %v", err)
	}
}

func TestBearerTokenFromStringNoPrefix(t *testing.T) {
	if _, err := bearerTokenFromString("Token a.b.c"); err == nil || err.Error() != "bad auth header" {
		t.Fatalf("expected bad auth header error, got %v", err)
	}
}

func TestBearerTokenFromStringManyPeriods(t *testing.T) {
	header := "Bearer " + strings.Repeat(".", 1000)
	if _, err := bearerTokenFromString(header); err == nil || err.Error() != "bad auth header" {
		t.Fatalf("expected bad auth header error, got %v", err)
	}
}

func TestIssueAndVerifyToken(t *testing.T) {
	auth := NewAuth([]byte("test-secret"), 0)

	token, err := auth.IssueToken("alice@example.com")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	email, err := auth.EmailFromToken(token)
	if err != nil {
		t.Fatalf("unexpected error verifying token: %v", err)
	}
	if email != "alice@example.com" {
		t.Fatalf("unexpected subject: %s", email)
	}
}

func TestIssueTokenWithoutTTLHasNoExpiry(t *testing.T) {
	auth := NewAuth([]byte("test-secret"), 0)

	token, err := auth.IssueToken("alice@example.com")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	claims := jwt.MapClaims{}
	if _, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	}); err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if _, ok := claims["exp"]; ok {
		t.Fatal("expected no exp claim with zero ttl")
	}
}

func TestIssueTokenWithTTLSetsExpiry(t *testing.T) {
	auth := NewAuth([]byte("test-secret"), time.Hour)

	token, err := auth.IssueToken("alice@example.com")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	claims := jwt.MapClaims{}
	if _, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	}); err != nil {
		t.Fatalf("parse token: %v", err)
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		t.Fatal("expected exp claim with non-zero ttl")
	}
	if int64(exp) <= time.Now().Unix() {
		t.Fatalf("expected future expiry, got %d", int64(exp))
	}
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	issuer := NewAuth([]byte("secret-one"), 0)
	verifier := NewAuth([]byte("secret-two"), 0)

	token, err := issuer.IssueToken("alice@example.com")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if _, err := verifier.EmailFromToken(token); err == nil {
		t.Fatal("expected verification failure for foreign signature")
	}
}

func TestVerifyTokenMalformed(t *testing.T) {
	auth := NewAuth([]byte("test-secret"), 0)
	if _, err := auth.EmailFromToken("not.a.jwt"); err == nil {
		t.Fatal("expected verification failure for malformed token")
	}
}

func TestVerifyTokenMissingSubject(t *testing.T) {
	secret := []byte("test-secret")
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{}).SignedString(secret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	auth := NewAuth(secret, 0)
	if _, err := auth.EmailFromToken(signed); !errors.Is(err, ErrInvalidPayload) {
		t.Fatalf("expected ErrInvalidPayload, got %v", err)
	}
}

func TestVerifyTokenExpired(t *testing.T) {
	secret := []byte("test-secret")
	claims := jwt.MapClaims{
		"sub": "alice@example.com",
		"exp": time.Now().Add(-time.Minute).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	auth := NewAuth(secret, 0)
	if _, err := auth.EmailFromToken(signed); err == nil {
		t.Fatal("expected verification failure for expired token")
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	auth := NewAuth([]byte("test-secret"), 0)

	digest, err := auth.HashPassword("pw1")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if digest == "pw1" {
		t.Fatal("digest must not equal the plaintext password")
	}
	if !auth.CheckPassword("pw1", digest) {
		t.Fatal("expected matching password to verify")
	}
	if auth.CheckPassword("pw2", digest) {
		t.Fatal("expected wrong password to fail verification")
	}
}
