package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mrlokans/shayfa/internal/entities"
)

type signedClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// SignedCodec issues HS256 JWTs.
type SignedCodec struct {
	secret []byte
	now    func() time.Time
}

func NewSignedCodec(secret []byte) *SignedCodec {
	return &SignedCodec{secret: secret, now: time.Now}
}

// WithClock replaces the clock used for expiry checks.
func (c *SignedCodec) WithClock(now func() time.Time) *SignedCodec {
	c.now = now
	return c
}

func (c *SignedCodec) Mint(user entities.User, expiresAt time.Time) (string, error) {
	claims := signedClaims{
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(c.now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (c *SignedCodec) Decode(token string) (*Claims, error) {
	var claims signedClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if claims.Subject == "" {
		return nil, ErrMalformed
	}

	return &Claims{
		ID:   claims.Subject,
		Role: entities.UserRole(claims.Role),
		Exp:  claims.ExpiresAt.Time,
	}, nil
}
