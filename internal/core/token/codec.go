package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/identitykit/auth-service/internal/core/domain"
)

const defaultTTL = 24 * time.Hour

// Claims is the decoded payload of a validated token. Roles are deliberately
// not part of it: they are re-resolved from storage on every request so that
// a revoked role takes effect before the token expires.
type Claims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Codec signs and validates bearer tokens with a process-wide HS256 secret.
// It is stateless and safe for concurrent use.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec returns a Codec signing with secret and issuing tokens valid for
// ttl. A non-positive ttl falls back to 24 hours.
func NewCodec(secret string, ttl time.Duration) *Codec {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Codec{secret: []byte(secret), ttl: ttl}
}

// TTL returns the configured token lifetime.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Issue creates a signed token for username with issued-at now and expiry
// now+TTL.
func (c *Codec) Issue(username string) (string, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(c.secret)
}

// Validate parses and verifies a token, mapping failures onto the domain
// taxonomy: structural problems → ErrTokenMalformed, signature mismatch →
// ErrTokenForged, past expiry → ErrTokenExpired.
func (c *Codec) Validate(raw string) (*Claims, error) {
	rc := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(raw, rc, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, domain.ErrTokenMalformed
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, domain.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, domain.ErrTokenForged
		default:
			return nil, domain.ErrTokenMalformed
		}
	}
	if !parsed.Valid || rc.Subject == "" || rc.ExpiresAt == nil {
		return nil, domain.ErrTokenMalformed
	}

	claims := &Claims{
		Subject:   rc.Subject,
		ExpiresAt: rc.ExpiresAt.Time,
	}
	if rc.IssuedAt != nil {
		claims.IssuedAt = rc.IssuedAt.Time
	}
	return claims, nil
}
