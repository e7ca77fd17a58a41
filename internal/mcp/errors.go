package mcp

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/ganot/project-sentry/internal/domain/dashboard"
	"github.com/ganot/project-sentry/internal/domain/project"
	"github.com/ganot/project-sentry/internal/repository"
	"github.com/ganot/project-sentry/internal/transport"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain and API errors to MCP error codes. Unrecognized
// errors map to INTERNAL with the error text.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}

	var apiErr *transport.Error
	switch {
	case errors.Is(err, dashboard.ErrProjectNotFound):
		return &APIError{Code: "PROJECT_NOT_FOUND", Message: "project not found", Details: err.Error(), RecoveryHint: "Call list_projects for valid ids"}
	case errors.Is(err, dashboard.ErrUnknownView):
		return &APIError{Code: "UNKNOWN_VIEW", Message: "unknown view", Details: err.Error(), RecoveryHint: "Use dashboard, upload, issues or viewer"}
	case errors.Is(err, project.ErrInvalidFile), errors.Is(err, dashboard.ErrInvalidUpload):
		return &APIError{Code: "INVALID_FILE", Message: err.Error(), RecoveryHint: "Upload a .ifc file no larger than the size limit"}
	case errors.Is(err, repository.ErrNotFound):
		return &APIError{Code: "NOT_FOUND", Message: err.Error()}
	case errors.As(err, &apiErr) && apiErr.Kind == transport.ErrTransport:
		return &APIError{Code: "API_UNAVAILABLE", Message: apiErr.Message, RecoveryHint: "Check that the Project Sentry API is running"}
	case errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound:
		return &APIError{Code: "NOT_FOUND", Message: apiErr.Message}
	case errors.As(err, &apiErr):
		return &APIError{Code: "API_ERROR", Message: apiErr.Message, Details: map[string]any{"status": apiErr.Status}}
	default:
		return &APIError{Code: "INTERNAL", Message: err.Error()}
	}
}
