package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/shayfa/internal/entities"
	"github.com/mrlokans/shayfa/internal/token"
)

// Context keys for identity data
const (
	ContextKeyIdentity = "auth_identity"
	ContextKeyToken    = "auth_token"
	ContextKeyAuthType = "auth_type" // "session", "bearer", or "none"
)

// AuthType indicates how the request was authenticated.
type AuthType string

const (
	AuthTypeNone    AuthType = "none"
	AuthTypeSession AuthType = "session"
	AuthTypeBearer  AuthType = "bearer"
)

// Middleware resolves the caller identity from a bearer token or the session cookie.
// Requests without a usable token continue anonymously; RequireAuth and RequireRole
// reject them where needed.
type Middleware struct {
	codec          token.Codec
	sessionManager *SessionManager
}

func NewMiddleware(codec token.Codec, sessionManager *SessionManager) *Middleware {
	return &Middleware{codec: codec, sessionManager: sessionManager}
}

func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if tok := bearerToken(c); tok != "" {
			if claims, err := m.codec.Decode(tok); err == nil {
				setIdentity(c, claims, tok, AuthTypeBearer)
				c.Next()
				return
			}
		}

		if m.sessionManager != nil {
			if tok := m.sessionManager.Token(c.Request); tok != "" {
				if claims, err := m.codec.Decode(tok); err == nil {
					setIdentity(c, claims, tok, AuthTypeSession)
					c.Next()
					return
				}
			}
		}

		c.Set(ContextKeyAuthType, AuthTypeNone)
		c.Next()
	}
}

// RequireAuth rejects anonymous requests with 401.
func (m *Middleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetIdentity(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "authentication required",
			})
			return
		}
		c.Next()
	}
}

// RequireRole rejects anonymous requests with 401 and other roles with 403.
func (m *Middleware) RequireRole(roles ...entities.UserRole) gin.HandlerFunc {
	roleSet := make(map[entities.UserRole]bool)
	for _, r := range roles {
		roleSet[r] = true
	}

	return func(c *gin.Context) {
		identity := GetIdentity(c)
		if identity == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "authentication required",
			})
			return
		}
		if !roleSet[identity.Role] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "insufficient permissions",
			})
			return
		}
		c.Next()
	}
}

func setIdentity(c *gin.Context, claims *token.Claims, tok string, authType AuthType) {
	c.Set(ContextKeyIdentity, &Identity{ID: claims.ID, Role: claims.Role})
	c.Set(ContextKeyToken, tok)
	c.Set(ContextKeyAuthType, authType)
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// GetIdentity returns the authenticated identity, or nil for anonymous requests.
func GetIdentity(c *gin.Context) *Identity {
	if v, exists := c.Get(ContextKeyIdentity); exists {
		if identity, ok := v.(*Identity); ok {
			return identity
		}
	}
	return nil
}

// GetUserID returns the authenticated user id, or "" for anonymous requests.
func GetUserID(c *gin.Context) string {
	if identity := GetIdentity(c); identity != nil {
		return identity.ID
	}
	return ""
}

// GetToken returns the token the request was authenticated with, or "".
func GetToken(c *gin.Context) string {
	return c.GetString(ContextKeyToken)
}

// GetAuthType returns how the request was authenticated.
func GetAuthType(c *gin.Context) AuthType {
	if t, exists := c.Get(ContextKeyAuthType); exists {
		if authType, ok := t.(AuthType); ok {
			return authType
		}
	}
	return AuthTypeNone
}
