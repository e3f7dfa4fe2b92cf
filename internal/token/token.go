// Package token implements issuing and verifying signed, time-limited
// identity tokens (HS256 JWTs).
package token

import (
	"time"

	"github.com/avdeyev/burnscan/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

// Codec issues and verifies bearer tokens signed with a process-wide secret.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec constructs a Codec using the given signing secret and token
// lifetime.
func NewCodec(secret []byte, ttl time.Duration) *Codec {
	return &Codec{secret: secret, ttl: ttl}
}

// Issue creates a signed token whose subject is the given username and whose
// expiry is now plus the configured TTL.
func (c *Codec) Issue(subject string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(c.secret)
}

// Verify parses and validates a token and returns its subject. Every failure
// mode (malformed token, wrong signature, expired) collapses into
// models.ErrInvalidToken so callers cannot distinguish them.
func (c *Codec) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	t, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !t.Valid || claims.Subject == "" {
		return "", models.ErrInvalidToken
	}
	return claims.Subject, nil
}
