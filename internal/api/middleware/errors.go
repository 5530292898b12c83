package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/wowauth/authd/internal/logging"
)

// ErrorCode classifies an API error for machine-readable handling by CLI
// clients.
type ErrorCode string

const (
	ErrCodeInvalidRequest ErrorCode = "invalid_request"
	ErrCodeUnauthorized   ErrorCode = "unauthorized"
	ErrCodeNotFound       ErrorCode = "not_found"
	ErrCodeSystemError    ErrorCode = "system_error"
)

// ErrorResponse is the JSON error body written by WriteJSONError, used by
// the login handler and by ErrorHandler's panic recovery. AuthMiddleware's
// 401 responses use their own {"error", "message"} body, and requests the
// router does not match get its plain-text default response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// NewSystemError builds an ErrorResponse for an unexpected internal failure.
func NewSystemError(message string) *ErrorResponse {
	return &ErrorResponse{Code: ErrCodeSystemError, Message: message}
}

// NewUnauthorizedError builds an ErrorResponse for a missing or invalid
// bearer token.
func NewUnauthorizedError() *ErrorResponse {
	return &ErrorResponse{Code: ErrCodeUnauthorized, Message: "authentication required"}
}

// ErrorHandler returns middleware that recovers from panics and handles errors.
func ErrorHandler(logger *logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic recovered", map[string]any{
						"error": err,
						"path":  r.URL.Path,
					})

					WriteJSONError(w, NewSystemError("internal server error"), http.StatusInternalServerError)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// WriteJSON writes a JSON response.
func WriteJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		return
	}
}

// WriteJSONError writes a JSON error response.
func WriteJSONError(w http.ResponseWriter, err *ErrorResponse, statusCode int) {
	WriteJSON(w, err, statusCode)
}

// HTTPStatusForErrorCode maps admin API error codes to HTTP status codes.
func HTTPStatusForErrorCode(code ErrorCode) int {
	switch code {
	case ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeSystemError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
