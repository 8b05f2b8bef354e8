package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/khabarhub/khabar/internal/response"
	"github.com/khabarhub/khabar/internal/validation"
)

// serverError hides internal details behind a generic 500 and logs the
// cause.
func serverError(w http.ResponseWriter, err error) {
	slog.Error("internal error", "error", err)
	response.Error(w, http.StatusInternalServerError, "Something went wrong")
}

// isValidationError reports whether err is a user-facing validation
// failure, safe to echo back in a 400 response.
func isValidationError(err error) bool {
	var vErr validation.Error
	return errors.As(err, &vErr)
}
