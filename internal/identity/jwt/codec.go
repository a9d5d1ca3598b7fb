// Package jwt implements the signed session token codec.
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/campus-sentry/campus-sentry/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// Codec errors.
var (
	ErrTokenMalformed = errors.New("malformed token")
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenSignature = errors.New("invalid token signature")
)

// Claims is the claim set embedded in a session token.
type Claims struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Config contains codec configuration.
type Config struct {
	SecretKey     string
	TokenDuration time.Duration
}

// Codec issues and verifies HMAC-signed session tokens.
// It holds no mutable state and is safe for concurrent use.
type Codec struct {
	secret   []byte
	duration time.Duration
}

// NewCodec creates a token codec. The secret is read once here; callers
// inject it from configuration rather than reading ambient globals.
func NewCodec(cfg Config) *Codec {
	duration := cfg.TokenDuration
	if duration <= 0 {
		duration = 24 * time.Hour
	}
	return &Codec{
		secret:   []byte(cfg.SecretKey),
		duration: duration,
	}
}

// Issue signs a session token for the user with expiry now + token duration.
func (c *Codec) Issue(user *domain.User) (string, error) {
	now := time.Now()
	claims := Claims{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.duration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify validates the token signature and expiry and returns the embedded
// claim set unchanged.
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(tokenString, &claims,
		func(_ *jwt.Token) (interface{}, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrTokenSignature
		default:
			return nil, ErrTokenMalformed
		}
	}
	return &claims, nil
}

// TokenDuration returns the configured token lifetime. Cookie expiry is
// aligned with it.
func (c *Codec) TokenDuration() time.Duration {
	return c.duration
}

// DecodeUnverified decodes the claim set without checking the signature or
// expiry. It exists for the route guard fast path, which runs on every
// request; authoritative verification happens in Verify.
func DecodeUnverified(tokenString string) (*Claims, error) {
	var claims Claims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenString, &claims); err != nil {
		return nil, ErrTokenMalformed
	}
	return &claims, nil
}
