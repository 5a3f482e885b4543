package token

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/shayfa/internal/config"
	"github.com/mrlokans/shayfa/internal/entities"
)

var admin = entities.User{ID: "sys-admin", Email: "admin@shayfaway.com", Role: entities.UserRoleAdmin}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestDevCodec_Format(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	codec := NewDevCodec().WithClock(fixedClock(now))

	tok, err := codec.Mint(admin, now.Add(24*time.Hour))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(tok, "JWT-MOCK-"))

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(tok, "JWT-MOCK-"))
	require.NoError(t, err)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(raw, &payload))
	assert.Equal(t, "sys-admin", payload["id"])
	assert.Equal(t, "admin", payload["role"])
	assert.Equal(t, float64(now.Add(24*time.Hour).UnixMilli()), payload["exp"])
}

func TestCodecs_RoundTrip(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	codecs := map[string]Codec{
		"dev":    NewDevCodec().WithClock(fixedClock(now)),
		"signed": NewSignedCodec([]byte("secret")).WithClock(fixedClock(now)),
	}

	for name, codec := range codecs {
		t.Run(name, func(t *testing.T) {
			tok, err := codec.Mint(admin, now.Add(time.Hour))
			require.NoError(t, err)

			claims, err := codec.Decode(tok)
			require.NoError(t, err)
			assert.Equal(t, "sys-admin", claims.ID)
			assert.True(t, claims.IsAdmin())
			assert.True(t, claims.Exp.Equal(now.Add(time.Hour)))
		})
	}
}

func TestCodecs_Expired(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	later := fixedClock(now.Add(2 * time.Hour))

	dev := NewDevCodec().WithClock(fixedClock(now))
	tok, err := dev.Mint(admin, now.Add(time.Hour))
	require.NoError(t, err)
	_, err = dev.WithClock(later).Decode(tok)
	assert.ErrorIs(t, err, ErrExpired)

	signed := NewSignedCodec([]byte("secret")).WithClock(fixedClock(now))
	tok, err = signed.Mint(admin, now.Add(time.Hour))
	require.NoError(t, err)
	_, err = signed.WithClock(later).Decode(tok)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestDevCodec_Malformed(t *testing.T) {
	codec := NewDevCodec()
	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"no prefix", "abc"},
		{"bad base64", "JWT-MOCK-%%%"},
		{"bad json", "JWT-MOCK-" + base64.StdEncoding.EncodeToString([]byte("{"))},
		{"missing id", "JWT-MOCK-" + base64.StdEncoding.EncodeToString([]byte(`{"exp":1}`))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codec.Decode(tt.token)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestSignedCodec_RejectsWrongSecret(t *testing.T) {
	tok, err := NewSignedCodec([]byte("one")).Mint(admin, time.Now().Add(time.Hour))
	require.NoError(t, err)

	_, err = NewSignedCodec([]byte("two")).Decode(tok)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestSignedCodec_RejectsDevToken(t *testing.T) {
	tok, err := NewDevCodec().Mint(admin, time.Now().Add(time.Hour))
	require.NoError(t, err)

	_, err = NewSignedCodec([]byte("secret")).Decode(tok)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestNewCodec(t *testing.T) {
	c, err := NewCodec(config.Auth{TokenMode: config.TokenModeDev})
	require.NoError(t, err)
	assert.IsType(t, &DevCodec{}, c)

	c, err = NewCodec(config.Auth{TokenMode: config.TokenModeSigned, TokenSecret: "s"})
	require.NoError(t, err)
	assert.IsType(t, &SignedCodec{}, c)

	_, err = NewCodec(config.Auth{TokenMode: config.TokenModeSigned})
	assert.ErrorIs(t, err, ErrNoSecret)

	_, err = NewCodec(config.Auth{TokenMode: "rot13"})
	assert.Error(t, err)
}
