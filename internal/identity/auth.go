package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AuthProvider issues and validates anonymous sessions.
type AuthProvider interface {
	// NewAnonymousSession mints a brand-new identity and its token.
	NewAnonymousSession(ctx context.Context) (*Credentials, error)

	// Validate checks a token and returns the user ID it carries.
	Validate(token string) (string, error)
}

// JWTAuth issues HS256 tokens whose subject is the anonymous user ID.
type JWTAuth struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTAuth creates a JWTAuth with the given signing secret and token
// lifetime.
func NewJWTAuth(secret string, ttl time.Duration) *JWTAuth {
	return &JWTAuth{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// NewAnonymousSession mints a fresh user ID and signs a token for it.
func (a *JWTAuth) NewAnonymousSession(_ context.Context) (*Credentials, error) {
	userID := uuid.NewString()
	token, err := a.Sign(userID)
	if err != nil {
		return nil, err
	}
	return &Credentials{UserID: userID, Token: token}, nil
}

// Sign issues a token for an existing user ID.
func (a *JWTAuth) Sign(userID string) (string, error) {
	now := a.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate parses the token and returns its subject.
func (a *JWTAuth) Validate(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return a.secret, nil
		},
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", fmt.Errorf("token has no subject")
	}
	return claims.Subject, nil
}
