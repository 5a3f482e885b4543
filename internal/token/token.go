// Package token mints and decodes the session tokens handed out at login.
//
// Two codecs exist. DevCodec produces the unsigned "JWT-MOCK-" tokens the client has
// always used: the prefix followed by base64 encoded JSON claims, with the expiry in
// unix milliseconds. SignedCodec produces HS256 JWTs and is selected with
// AUTH_TOKEN_MODE=signed.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/mrlokans/shayfa/internal/config"
	"github.com/mrlokans/shayfa/internal/entities"
)

var (
	ErrMalformed = errors.New("malformed token")
	ErrExpired   = errors.New("token expired")
	ErrNoSecret  = errors.New("signed token mode requires AUTH_TOKEN_SECRET")
)

// Claims is the identity carried by a token.
type Claims struct {
	ID   string
	Role entities.UserRole
	Exp  time.Time
}

// IsAdmin reports whether the claims carry the admin role.
func (c *Claims) IsAdmin() bool {
	return c != nil && c.Role == entities.UserRoleAdmin
}

// Codec mints and decodes tokens.
type Codec interface {
	Mint(user entities.User, expiresAt time.Time) (string, error)
	// Decode returns ErrMalformed or ErrExpired for unusable tokens.
	Decode(token string) (*Claims, error)
}

// NewCodec builds the codec selected by the auth configuration.
func NewCodec(cfg config.Auth) (Codec, error) {
	switch cfg.TokenMode {
	case config.TokenModeSigned:
		if cfg.TokenSecret == "" {
			return nil, ErrNoSecret
		}
		return NewSignedCodec([]byte(cfg.TokenSecret)), nil
	case config.TokenModeDev, "":
		return NewDevCodec(), nil
	default:
		return nil, fmt.Errorf("unknown token mode %q", cfg.TokenMode)
	}
}
