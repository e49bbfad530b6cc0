package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"

	"github.com/hirosato/prestacao-contas/backend/internal/domain/errors"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Success          bool             `json:"success"`
	Error            string           `json:"error"`
	ErrorDescription ErrorDescription `json:"error_description"`
	Metadata         ResponseMetadata `json:"metadata"`
}

// ErrorDescription represents the error details
type ErrorDescription struct {
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Error creates an error response
func Error(appErr errors.AppError, requestID string) events.APIGatewayProxyResponse {
	response := ErrorResponse{
		Success: false,
		Error:   appErr.Code,
		ErrorDescription: ErrorDescription{
			Message: appErr.Message,
			Details: appErr.Details,
		},
		Metadata: ResponseMetadata{
			Version:   "1.0",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			RequestID: requestID,
		},
	}

	body, err := json.Marshal(response)
	if err != nil {
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusInternalServerError,
			Body:       `{"success":false,"error":"INTERNAL_ERROR","error_description":{"message":"Failed to marshal error response"}}`,
			Headers:    DefaultHeaders(),
		}
	}

	return events.APIGatewayProxyResponse{
		StatusCode: appErr.StatusCode,
		Body:       string(body),
		Headers:    DefaultHeaders(),
	}
}

// FromError converts any error into an error response. Errors that are not
// an AppError become INTERNAL_ERROR with a generic message.
func FromError(err error, requestID string) events.APIGatewayProxyResponse {
	return Error(errors.AsAppError(err), requestID)
}

// ValidationError creates a validation error response
func ValidationError(message string, requestID string) events.APIGatewayProxyResponse {
	return Error(errors.NewValidationError(message), requestID)
}

// NotFound creates a not found error response
func NotFound(message string, requestID string) events.APIGatewayProxyResponse {
	return Error(errors.NewNotFoundError(message), requestID)
}

// AuthenticationError creates an authentication error response with a WWW-Authenticate header
func AuthenticationError(message string, requestID string) events.APIGatewayProxyResponse {
	resp := Error(errors.NewAuthenticationError(message), requestID)
	resp.Headers["WWW-Authenticate"] = fmt.Sprintf(`Bearer error="invalid_token", error_description=%q`, message)
	return resp
}

// AuthorizationError creates an authorization error response
func AuthorizationError(message string, requestID string) events.APIGatewayProxyResponse {
	return Error(errors.NewAuthorizationError(message), requestID)
}

// MethodNotAllowed creates a response for a known path with an unsupported method
func MethodNotAllowed(method, path, requestID string) events.APIGatewayProxyResponse {
	appErr := errors.AppError{
		Code:       errors.CodeValidation,
		Message:    fmt.Sprintf("method %s not allowed on %s", method, path),
		StatusCode: http.StatusMethodNotAllowed,
	}
	return Error(appErr, requestID)
}
