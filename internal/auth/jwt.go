// Package auth provides credential hashing, session tokens and the HTTP
// session middleware.
//
// SESSION FLOW:
//  1. POST /api/signup or /api/login succeeds in the auth service, which
//     returns an authenticated model.Session
//  2. The handler asks TokenService for a signed JWT whose subject is the
//     session's email and stores it in an HttpOnly cookie
//  3. On later requests the middleware validates the cookie and puts the
//     recovered model.Session into the request context
//  4. Handlers pass that session explicitly to every gated service call
//
// JWT STRUCTURE:
//
//	HEADER.PAYLOAD.SIGNATURE
//	- Header:    {"alg":"HS256","typ":"JWT"}
//	- Payload:   {"sub":"<email>","iss":"nutrition-tracker","exp":...}
//	- Signature: HMAC-SHA256(header+"."+payload, secret)
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sakif/nutrition-tracker/internal/model"
)

const (
	issuer = "nutrition-tracker"

	// DefaultTokenTTL is how long a session cookie stays valid.
	DefaultTokenTTL = 24 * time.Hour
)

// ErrTokenExpired is returned by Validate for a token past its expiry.
var ErrTokenExpired = errors.New("auth: token expired")

// TokenService signs and validates session tokens with an HMAC secret.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService with DefaultTokenTTL.
// The secret must be at least 16 characters.
func NewTokenService(secret string) (*TokenService, error) {
	return NewTokenServiceWithTTL(secret, DefaultTokenTTL)
}

// NewTokenServiceWithTTL creates a TokenService issuing tokens valid for ttl.
func NewTokenServiceWithTTL(secret string, ttl time.Duration) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}, nil
}

// TTL reports the lifetime of issued tokens.
func (s *TokenService) TTL() time.Duration { return s.ttl }

type claims struct {
	jwt.RegisteredClaims
}

// Generate signs a token for the given email with the service TTL.
func (s *TokenService) Generate(email string) (string, error) {
	return s.GenerateWithDuration(email, s.ttl)
}

// GenerateWithDuration signs a token that expires after d. A negative d
// yields an already-expired token, which tests use.
func (s *TokenService) GenerateWithDuration(email string, d time.Duration) (string, error) {
	if email == "" {
		return "", errors.New("auth: token subject must not be empty")
	}
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a token and returns its subject (the email).
//
// The algorithm is pinned to HS256, so a token claiming "none" or an RSA
// algorithm is rejected before the signature is checked.
func (s *TokenService) Validate(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("auth: invalid token claims")
	}

	if c.Subject == "" {
		return "", fmt.Errorf("auth: token has no subject")
	}

	return c.Subject, nil
}

// Session turns a token into a model.Session. A missing, invalid or expired
// token yields the anonymous session, never an error.
func (s *TokenService) Session(tokenStr string) model.Session {
	email, err := s.Validate(tokenStr)
	if err != nil {
		return model.Anonymous()
	}
	return model.AuthenticatedAs(email)
}
