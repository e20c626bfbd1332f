// Package auth holds the admin credential check and the JWT helpers used by
// the admin JSON API.
//
// CredentialChecker is deliberately an interface: the default is a static
// comparison against the configured pair, matching the original single-admin
// setup, but a bcrypt-backed checker (or a user table later) swaps in
// without touching the session gate.
package auth

import (
	"crypto/subtle"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/Kiko4ko1/magnetsbg-store/config"
)

// CredentialChecker reports whether an email/password pair belongs to the
// store operator.
type CredentialChecker interface {
	Check(email, password string) bool
}

// StaticChecker compares against a fixed credential pair.
type StaticChecker struct {
	Email    string
	Password string
}

func (c StaticChecker) Check(email, password string) bool {
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(c.Email)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(c.Password)) == 1
	return emailOK && passOK
}

// BcryptChecker compares the password against a bcrypt hash.
type BcryptChecker struct {
	Email        string
	PasswordHash string
}

func (c BcryptChecker) Check(email, password string) bool {
	if subtle.ConstantTimeCompare([]byte(email), []byte(c.Email)) != 1 {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)) == nil
}

// DefaultChecker builds the checker from config: bcrypt when
// ADMIN_PASSWORD_HASH is set, plain comparison otherwise.
func DefaultChecker() CredentialChecker {
	if hash := config.AdminPasswordHash(); hash != "" {
		return BcryptChecker{Email: config.AdminEmail(), PasswordHash: hash}
	}
	return StaticChecker{Email: config.AdminEmail(), Password: config.AdminPassword()}
}

// HashPassword returns a bcrypt hash for seeding ADMIN_PASSWORD_HASH.
func HashPassword(plain string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	return string(bytes), err
}

// ─── Admin API tokens ────────────────────────────────────────────────────────

// Claims holds the typed JWT payload for the admin JSON API.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func secret() []byte {
	return []byte(config.JWTSecret())
}

// GenerateToken creates a signed 24h token for the admin API.
func GenerateToken(email string) (string, error) {
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret())
}

// ValidateToken parses and validates a JWT string.
func ValidateToken(t string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(t, &Claims{}, func(tok *jwt.Token) (interface{}, error) {
		return secret(), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return claims, nil
}
