package recordkit

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenIssuer issues and verifies the bearer tokens handed out at login.
// Tokens are HS256 JWTs carrying the user id as subject and the role slug
// as a custom claim. The role claim is informational; authorization always
// reloads the user, so a role change invalidates stale claims on the next
// request.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

type tokenClaims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// NewTokenIssuer creates a TokenIssuer. ttl <= 0 defaults to 24 hours.
func NewTokenIssuer(secret []byte, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenIssuer{secret: secret, ttl: ttl}
}

// Issue signs a token for u.
func (ti *TokenIssuer) Issue(u *User) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(u.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ti.ttl)),
		},
	}
	if u.Role != nil {
		claims.Role = u.Role.Slug
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(ti.secret)
	if err != nil {
		return "", NewError(ErrInvalidToken, "failed to sign token")
	}
	return signed, nil
}

// Verify parses and validates tokenString and returns the user id it was
// issued for. Expired, malformed or foreign-signed tokens all come back as
// ErrInvalidToken.
func (ti *TokenIssuer) Verify(tokenString string) (int64, error) {
	claims := new(tokenClaims)
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return ti.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, NewError(ErrInvalidToken, "token verification failed")
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, NewError(ErrInvalidToken, "token subject is not a user id")
	}
	return userID, nil
}
