package token

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mrlokans/shayfa/internal/entities"
)

// DevPrefix starts every unsigned development token.
const DevPrefix = "JWT-MOCK-"

type devPayload struct {
	ID   string `json:"id"`
	Role string `json:"role"`
	Exp  int64  `json:"exp"`
}

// DevCodec encodes claims without any signature. Anyone can forge these tokens.
type DevCodec struct {
	now func() time.Time
}

func NewDevCodec() *DevCodec {
	return &DevCodec{now: time.Now}
}

// WithClock replaces the clock used for expiry checks.
func (c *DevCodec) WithClock(now func() time.Time) *DevCodec {
	c.now = now
	return c
}

func (c *DevCodec) Mint(user entities.User, expiresAt time.Time) (string, error) {
	payload, err := json.Marshal(devPayload{
		ID:   user.ID,
		Role: string(user.Role),
		Exp:  expiresAt.UnixMilli(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode token payload: %w", err)
	}
	return DevPrefix + base64.StdEncoding.EncodeToString(payload), nil
}

func (c *DevCodec) Decode(token string) (*Claims, error) {
	encoded, ok := strings.CutPrefix(token, DevPrefix)
	if !ok {
		return nil, ErrMalformed
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var payload devPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if payload.ID == "" || payload.Exp == 0 {
		return nil, ErrMalformed
	}

	exp := time.UnixMilli(payload.Exp)
	if !c.now().Before(exp) {
		return nil, ErrExpired
	}
	return &Claims{ID: payload.ID, Role: entities.UserRole(payload.Role), Exp: exp}, nil
}
