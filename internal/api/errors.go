package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/mrlokans/shayfa/internal/recordstore"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation failed")
	ErrAuth               = errors.New("authentication failed")
	ErrStorageUnavailable = errors.New("storage unavailable")

	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrAuth)
	ErrMissingID          = fmt.Errorf("%w: missing id for update", ErrValidation)
)

// Operation names used in RequestError.
const (
	OpGet    = "GET"
	OpPost   = "POST"
	OpPut    = "PUT"
	OpDelete = "DELETE"
	OpLogin  = "LOGIN"
	OpLogout = "LOGOUT"
)

var opMessages = map[string]string{
	OpGet:    "network request failed",
	OpPost:   "database write failed",
	OpPut:    "update failed",
	OpDelete: "delete failed",
	OpLogin:  "login failed",
	OpLogout: "logout failed",
}

// RequestError is returned by every failing facade call.
type RequestError struct {
	Op         string
	Collection string
	// Err is one of the package sentinels or a context error.
	Err error

	msg string
}

func (e *RequestError) Error() string {
	prefix, ok := opMessages[e.Op]
	if !ok {
		prefix = "request failed"
	}
	if e.Collection != "" {
		return fmt.Sprintf("%s (%s): %s", prefix, e.Collection, e.msg)
	}
	return fmt.Sprintf("%s: %s", prefix, e.msg)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// requestError classifies err and keeps only its message.
func requestError(op, collection string, err error) *RequestError {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr
	}
	return &RequestError{
		Op:         op,
		Collection: collection,
		Err:        classify(err),
		msg:        err.Error(),
	}
}

func classify(err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return context.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		return context.DeadlineExceeded
	case errors.Is(err, ErrInvalidCredentials):
		return ErrInvalidCredentials
	case errors.Is(err, ErrMissingID):
		return ErrMissingID
	case errors.Is(err, ErrNotFound):
		return ErrNotFound
	case errors.Is(err, ErrAuth):
		return ErrAuth
	case errors.Is(err, ErrValidation),
		errors.Is(err, recordstore.ErrUnknownCollection),
		errors.Is(err, recordstore.ErrDuplicateID),
		errors.Is(err, recordstore.ErrMissingRecord):
		return ErrValidation
	default:
		return ErrStorageUnavailable
	}
}
