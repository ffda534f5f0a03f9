// Package token encodes and decodes the signed, expiring, typed tokens used
// for access and email-confirmation credentials. A single signing scheme with
// an embedded type claim prevents a confirmation token from being replayed as
// an access token and vice versa.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/socialapi-dev/socialapi/internal/logger"
)

type Type string

const (
	TypeAccess       Type = "access"
	TypeConfirmation Type = "confirmation"
)

// The four failure kinds are distinguishable so callers can report precise
// reasons upstream (expiry in particular gets its own client-facing message).
var (
	ErrInvalidToken   = errors.New("could not validate token")
	ErrExpiredToken   = errors.New("token has expired")
	ErrMissingSubject = errors.New("token is missing a subject")
	ErrWrongTokenType = errors.New("token has wrong type")
)

type claims struct {
	Type Type `json:"type"`
	jwt.RegisteredClaims
}

type Codec struct {
	secretKey       string
	accessTTL       time.Duration
	confirmationTTL time.Duration
}

// New creates a codec. TTLs come from config so tests can force immediate
// expiry; the secret is injected, never a package-level constant.
func New(secretKey string, accessTTL, confirmationTTL time.Duration) *Codec {
	return &Codec{secretKey: secretKey, accessTTL: accessTTL, confirmationTTL: confirmationTTL}
}

func (c *Codec) ttl(typ Type) time.Duration {
	if typ == TypeConfirmation {
		return c.confirmationTTL
	}
	return c.accessTTL
}

// Issue mints a signed token of the given type for the subject.
func (c *Codec) Issue(subject string, typ Type) (string, error) {
	now := time.Now()
	cl := claims{
		Type: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl(typ))),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, cl)
	signed, err := t.SignedString([]byte(c.secretKey))
	if err != nil {
		logger.Log.Error("failed to sign token", "error", err)
		return "", err
	}
	return signed, nil
}

// Resolve verifies signature, expiry and type, returning the subject.
func (c *Codec) Resolve(tokenStr string, expected Type) (string, error) {
	var cl claims
	t, err := jwt.ParseWithClaims(tokenStr, &cl, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(c.secretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredToken
		}
		return "", ErrInvalidToken
	}
	if !t.Valid {
		return "", ErrInvalidToken
	}
	if cl.Subject == "" {
		return "", ErrMissingSubject
	}
	if cl.Type != expected {
		return "", ErrWrongTokenType
	}
	return cl.Subject, nil
}
