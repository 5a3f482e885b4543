package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"

	"github.com/mrlokans/shayfa/internal/token"
)

// CSRFTokenHeader is the header clients echo the CSRF token in.
const CSRFTokenHeader = "X-CSRF-Token"

// CSRFMiddleware protects cookie-authenticated requests. Requests carrying a valid
// bearer token skip the check since browsers never attach those on their own.
// The current token is exposed to clients in the CSRFTokenHeader response header.
func CSRFMiddleware(secret []byte, secure bool, codec token.Codec) gin.HandlerFunc {
	protect := csrf.Protect(
		secret,
		csrf.Secure(secure),
		csrf.HttpOnly(true),
		csrf.SameSite(csrf.SameSiteStrictMode),
		csrf.Path("/"),
		csrf.RequestHeader(CSRFTokenHeader),
		csrf.ErrorHandler(http.HandlerFunc(csrfErrorHandler)),
	)

	return func(c *gin.Context) {
		if hasValidBearer(c, codec) {
			c.Next()
			return
		}

		passed := false
		handler := protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			passed = true
			c.Header(CSRFTokenHeader, csrf.Token(r))
			c.Request = r
			c.Next()
		}))

		req := c.Request
		if !secure && req.TLS == nil {
			req = csrf.PlaintextHTTPRequest(req)
		}
		handler.ServeHTTP(c.Writer, req)

		if !passed {
			c.Abort()
		}
	}
}

func csrfErrorHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte(`{"error":"CSRF token invalid or missing"}`))
}

func hasValidBearer(c *gin.Context, codec token.Codec) bool {
	tok := bearerToken(c)
	if tok == "" {
		return false
	}
	_, err := codec.Decode(tok)
	return err == nil
}
