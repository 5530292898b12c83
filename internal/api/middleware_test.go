//nolint:errcheck,revive // Test file - unchecked errors and unused params are acceptable
package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/wowauth/authd/internal/api/middleware"
	"github.com/wowauth/authd/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingMiddleware(t *testing.T) {
	var logOutput bytes.Buffer
	logger := logging.New(logging.LevelInfo, logging.FormatJSON)
	logger.SetOutput(&logOutput, &logOutput)

	handler := middleware.Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("test response"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("User-Agent", "test-agent")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "test response", rr.Body.String())

	logLine := logOutput.String()
	assert.NotEmpty(t, logLine)

	var logEntry map[string]any
	require.NoError(t, json.Unmarshal([]byte(logLine), &logEntry))

	assert.Equal(t, "info", logEntry["level"])
	assert.Equal(t, "http request", logEntry["message"])

	fields, ok := logEntry["fields"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/test", fields["path"])
	assert.Equal(t, "test-agent", fields["user_agent"])
	assert.Equal(t, float64(200), fields["status"])
}

func TestLoggingMiddleware_StatusCode(t *testing.T) {
	var logOutput bytes.Buffer
	logger := logging.New(logging.LevelInfo, logging.FormatJSON)
	logger.SetOutput(&logOutput, &logOutput)

	tests := []struct {
		name       string
		statusCode int
	}{
		{"200 OK", http.StatusOK},
		{"404 Not Found", http.StatusNotFound},
		{"500 Internal Server Error", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logOutput.Reset()

			handler := middleware.Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
			}))

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			var logEntry map[string]any
			require.NoError(t, json.Unmarshal(logOutput.Bytes(), &logEntry))

			fields := logEntry["fields"].(map[string]any)
			assert.Equal(t, float64(tt.statusCode), fields["status"])
		})
	}
}

func TestErrorHandlerMiddleware_Panic(t *testing.T) {
	var logOutput bytes.Buffer
	logger := logging.New(logging.LevelInfo, logging.FormatJSON)
	logger.SetOutput(&logOutput, &logOutput)

	handler := middleware.ErrorHandler(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("test panic")
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)

	var errResp middleware.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &errResp))
	assert.Equal(t, middleware.ErrCodeSystemError, errResp.Code)

	assert.Contains(t, logOutput.String(), "panic recovered")
}

func TestWriteJSON(t *testing.T) {
	data := map[string]any{
		"key": "value",
		"num": 42,
	}

	rr := httptest.NewRecorder()
	middleware.WriteJSON(rr, data, http.StatusOK)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var result map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	assert.Equal(t, "value", result["key"])
	assert.Equal(t, float64(42), result["num"])
}

func TestWriteJSONError(t *testing.T) {
	err := middleware.NewUnauthorizedError()
	rr := httptest.NewRecorder()

	middleware.WriteJSONError(rr, err, http.StatusUnauthorized)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var errResp middleware.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &errResp))
	assert.Equal(t, middleware.ErrCodeUnauthorized, errResp.Code)
	assert.Equal(t, "authentication required", errResp.Message)
}

func TestHTTPStatusForErrorCode(t *testing.T) {
	tests := []struct {
		code           middleware.ErrorCode
		expectedStatus int
	}{
		{middleware.ErrCodeInvalidRequest, http.StatusBadRequest},
		{middleware.ErrCodeUnauthorized, http.StatusUnauthorized},
		{middleware.ErrCodeNotFound, http.StatusNotFound},
		{middleware.ErrCodeSystemError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			status := middleware.HTTPStatusForErrorCode(tt.code)
			assert.Equal(t, tt.expectedStatus, status)
		})
	}
}

func TestLoggingMiddleware_BytesWritten(t *testing.T) {
	var logOutput bytes.Buffer
	logger := logging.New(logging.LevelInfo, logging.FormatJSON)
	logger.SetOutput(&logOutput, &logOutput)

	responseBody := "test response body"
	handler := middleware.Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(responseBody))
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	var logEntry map[string]any
	require.NoError(t, json.Unmarshal(logOutput.Bytes(), &logEntry))

	fields := logEntry["fields"].(map[string]any)
	assert.Equal(t, float64(len(responseBody)), fields["bytes"])
}

func TestErrorHandlerMiddleware_NoError(t *testing.T) {
	var logOutput bytes.Buffer
	logger := logging.New(logging.LevelInfo, logging.FormatJSON)
	logger.SetOutput(&logOutput, &logOutput)

	handler := middleware.ErrorHandler(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("success"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "success", rr.Body.String())

	assert.NotContains(t, logOutput.String(), "panic recovered")
}
