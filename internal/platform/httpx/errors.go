package httpx

import (
	"errors"
	"net/http"
)

// Sentinel errors for the service layer.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("resource not found")
	ErrValidation   = errors.New("validation failed")
)

// RespondError maps service errors to HTTP responses.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUnauthorized):
		Error(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrForbidden):
		Error(w, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrNotFound):
		Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrValidation):
		Error(w, http.StatusBadRequest, err.Error())
	default:
		Error(w, http.StatusInternalServerError, "internal error")
	}
}
