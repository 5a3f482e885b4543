package auth

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/shayfa/internal/api"
)

// Controller serves the login, logout and identity endpoints.
type Controller struct {
	session        *Session
	sessionManager *SessionManager
	rateLimiter    *RateLimiter
}

// NewController creates the auth endpoints. sessionManager and rateLimiter may be nil.
func NewController(session *Session, sessionManager *SessionManager, rateLimiter *RateLimiter) *Controller {
	return &Controller{
		session:        session,
		sessionManager: sessionManager,
		rateLimiter:    rateLimiter,
	}
}

type loginRequest struct {
	Email    string  `json:"email" binding:"required"`
	Password string  `json:"password" binding:"required"`
	Surface  Surface `json:"surface"`
}

type loginResponse struct {
	*api.LoginResult
	Redirect Surface `json:"redirect,omitempty"`
}

// Login authenticates the credentials and answers with the token and where the
// client should navigate next.
func (ac *Controller) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}
	clientIP := c.ClientIP()

	if ac.rateLimiter != nil {
		if allowed, retryAfter := ac.rateLimiter.Allow(clientIP, req.Email); !allowed {
			c.Header("Retry-After", retryAfter.String())
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "too many login attempts",
				"retry_after": retryAfter.String(),
			})
			return
		}
	}

	result, err := ac.session.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, api.ErrAuth) {
			if ac.rateLimiter != nil {
				ac.rateLimiter.RecordFailure(clientIP, req.Email)
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		log.Printf("Login error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	if ac.rateLimiter != nil {
		ac.rateLimiter.RecordSuccess(clientIP, req.Email)
	}
	if ac.sessionManager != nil {
		if err := ac.sessionManager.Remember(c.Request, result.Token); err != nil {
			log.Printf("Failed to create session: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
			return
		}
	}

	current := req.Surface
	if current == "" {
		current = SurfaceApp
	}
	resp := loginResponse{LoginResult: result}
	identity := &Identity{ID: result.User.ID, Role: result.User.Role}
	if target, ok := Redirect(identity, current); ok {
		resp.Redirect = target
	}
	c.JSON(http.StatusOK, resp)
}

// Logout ends the caller's session and cookie. It must run behind RequireAuth.
func (ac *Controller) Logout(c *gin.Context) {
	identity := GetIdentity(c)
	if identity == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	if err := ac.session.LogoutToken(c.Request.Context(), GetToken(c), *identity); err != nil {
		log.Printf("Logout error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "logout failed"})
		return
	}
	if ac.sessionManager != nil {
		_ = ac.sessionManager.Forget(c.Request)
	}
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

// Me returns the identity the request was authenticated as.
func (ac *Controller) Me(c *gin.Context) {
	identity := GetIdentity(c)
	if identity == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":        identity.ID,
		"role":      identity.Role,
		"auth_type": GetAuthType(c),
	})
}
