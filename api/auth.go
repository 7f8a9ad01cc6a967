package api

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidPayload reports a correctly signed token that carries no usable
// subject claim.
var ErrInvalidPayload = errors.New("invalid token payload")

// Auth hashes account passwords and issues/verifies HS256 bearer tokens.
// Tokens identify the account by email in the sub claim; an exp claim is set
// only when the configured ttl is non-zero.
type Auth struct {
	secret []byte
	ttl    time.Duration
	parser *jwt.Parser
}

// NewAuth creates an Auth signing and verifying with the given secret.
func NewAuth(secret []byte, ttl time.Duration) *Auth {
	return &Auth{
		secret: secret,
		ttl:    ttl,
		parser: jwt.NewParser(jwt.WithValidMethods([]string{"HS256"})),
	}
}

// HashPassword derives a salted one-way bcrypt digest of password.
func (a *Auth) HashPassword(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(digest), nil
}

// CheckPassword reports whether password matches a stored digest.
func (a *Auth) CheckPassword(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}

// IssueToken signs a bearer token for the account identified by email.
func (a *Auth) IssueToken(email string) (string, error) {
	claims := jwt.MapClaims{"sub": email}
	if a.ttl > 0 {
		claims["exp"] = time.Now().Add(a.ttl).Unix()
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// EmailFromAuthHeader extracts the bearer token from an Authorization header,
// verifies it and returns the subject email.
func (a *Auth) EmailFromAuthHeader(header string) (string, error) {
	token, err := bearerTokenFromString(header)
	if err != nil {
		return "", err
	}
	return a.EmailFromToken(token)
}

// EmailFromToken verifies a raw token and returns the subject email. Parse
// and signature failures surface as-is; a valid token without a subject
// returns ErrInvalidPayload.
func (a *Auth) EmailFromToken(token string) (string, error) {
	parsed, err := a.parser.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return a.secret, nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid claims")
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", ErrInvalidPayload
	}
	return sub, nil
}
