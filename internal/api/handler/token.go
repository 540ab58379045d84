package handler

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jobox/jobox-api/internal/core/domain"
)

// TokenIssuer mints the HS256 bearer tokens that bind an HTTP caller to
// its server-side session.
type TokenIssuer struct {
	secret string
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenIssuer{secret: secret, ttl: ttl}
}

// Issue signs a token for the identity. The subject is the identity id;
// email and role ride along for middleware and RBAC checks.
func (t *TokenIssuer) Issue(identity *domain.Identity) (string, error) {
	claims := jwt.MapClaims{
		"sub":   identity.ID,
		"email": identity.Email,
		"role":  string(identity.Role),
		"exp":   time.Now().Add(t.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(t.secret))
}
