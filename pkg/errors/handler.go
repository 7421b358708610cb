package errors

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

const genericMessage = "An unexpected error occurred."

// ErrorResponse represents the API error response format
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// ErrorHandler handles errors and sends appropriate HTTP responses
type ErrorHandler struct {
	logger        *zap.Logger
	defaultStatus int
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *zap.Logger) *ErrorHandler {
	return &ErrorHandler{
		logger:        logger,
		defaultStatus: http.StatusInternalServerError,
	}
}

// Handle processes an error and sends an HTTP response
func (h *ErrorHandler) Handle(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	status, response := h.Classify(err)

	if appErr := GetAppError(err); appErr != nil {
		h.logError(r, appErr, status)
	} else {
		h.logger.Error("Unhandled error",
			zap.Error(err),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("requestID", r.Header.Get("X-Request-ID")),
			zap.Int("status", status),
		)
	}

	h.sendJSON(w, status, response)
}

// Classify maps an error to its HTTP status and response body
func (h *ErrorHandler) Classify(err error) (int, ErrorResponse) {
	appErr := GetAppError(err)
	if appErr == nil {
		return h.defaultStatus, ErrorResponse{
			Error: genericMessage,
			Code:  string(ErrorTypeInternal),
		}
	}

	status := appErr.HTTPStatus
	if status == 0 {
		status = h.defaultStatus
	}

	message := singleLine(appErr.Message)
	if message == "" {
		message = genericMessage
	}

	return status, ErrorResponse{
		Error: message,
		Code:  string(appErr.Type),
	}
}

// HandleStatus sends an error response with a specific status code
func (h *ErrorHandler) HandleStatus(w http.ResponseWriter, r *http.Request, status int, message string) {
	h.logger.Warn("HTTP error",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.String("message", message),
	)

	h.sendJSON(w, status, ErrorResponse{
		Error: singleLine(message),
		Code:  statusToErrorType(status),
	})
}

// logError logs an application error with appropriate level
func (h *ErrorHandler) logError(r *http.Request, err *AppError, status int) {
	fields := []zap.Field{
		zap.String("errorType", string(err.Type)),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.String("requestID", r.Header.Get("X-Request-ID")),
	}

	if err.Cause != nil {
		fields = append(fields, zap.Error(err.Cause))
	}

	switch {
	case status >= 500:
		h.logger.Error(err.Message, fields...)
	case status >= 400:
		h.logger.Warn(err.Message, fields...)
	default:
		h.logger.Info(err.Message, fields...)
	}
}

// sendJSON sends a JSON response
func (h *ErrorHandler) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode error response",
			zap.Error(err),
			zap.Any("data", data),
		)
	}
}

// statusToErrorType maps HTTP status to error type
func statusToErrorType(status int) string {
	switch status {
	case http.StatusBadRequest:
		return string(ErrorTypeInvalidRequest)
	case http.StatusUnauthorized:
		return string(ErrorTypeUnauthorized)
	case http.StatusNotFound:
		return string(ErrorTypeNotFound)
	case http.StatusTooManyRequests:
		return string(ErrorTypeRateLimit)
	case http.StatusBadGateway, http.StatusServiceUnavailable:
		return string(ErrorTypeUpstream)
	default:
		return string(ErrorTypeInternal)
	}
}

// singleLine collapses a message onto one line
func singleLine(message string) string {
	return strings.Join(strings.Fields(message), " ")
}
