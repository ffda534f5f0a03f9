package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"

	internal_errors "github.com/socialapi-dev/socialapi/internal/errors"
	"github.com/socialapi-dev/socialapi/internal/logger"
)

// WriteJSON serializes v with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("failed to encode response", "error", err)
	}
}

// WriteError maps the error to its status code and writes a {"detail": ...}
// body. 401 responses carry the bearer challenge so clients know which auth
// scheme the API expects.
func WriteError(w http.ResponseWriter, err error) {
	statusCode := internal_errors.StatusCode(err)
	message := err.Error()
	if _, ok := err.(*internal_errors.ErrorWithStatusCode); !ok {
		// internal details stay in the logs
		logger.Log.Error("internal error", "error", err)
		message = "Internal server error"
	}
	if statusCode == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	WriteJSON(w, statusCode, DetailResponse{Detail: message})
}

// DecodeValidate decodes the JSON body into dst and checks its validate tags.
func DecodeValidate(r io.Reader, dst any) error {
	if err := json.NewDecoder(r).Decode(dst); err != nil {
		return internal_errors.BadRequest("Body is invalid json")
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(dst); err != nil {
		return internal_errors.BadRequest("Required fields missing or invalid")
	}
	return nil
}
