package http

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/shayfa/internal/api"
	"github.com/mrlokans/shayfa/internal/cart"
	"github.com/mrlokans/shayfa/internal/khatm"
	"github.com/mrlokans/shayfa/internal/payment"
)

// ErrorResponse is the error body of every API endpoint.
type ErrorResponse struct {
	Error string `json:"error"`
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found"})
}

// respondInternalError logs err and hides it from the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, payment.ErrPayment):
		return http.StatusPaymentRequired
	case errors.Is(err, api.ErrValidation),
		errors.Is(err, cart.ErrEmptyCart),
		errors.Is(err, khatm.ErrInvalidPage):
		return http.StatusBadRequest
	case errors.Is(err, api.ErrAuth):
		return http.StatusUnauthorized
	case errors.Is(err, api.ErrNotFound),
		errors.Is(err, khatm.ErrSurahNotFound):
		return http.StatusNotFound
	case errors.Is(err, cart.ErrCartClosed):
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// respondDomainError writes err with the status statusFor picks.
// Server-side failures are logged and not echoed.
func respondDomainError(c *gin.Context, err error, context string) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		respondInternalError(c, err, context)
		return
	}
	c.JSON(status, ErrorResponse{Error: err.Error()})
}
