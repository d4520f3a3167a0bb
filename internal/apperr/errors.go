package apperr

import (
    "errors"
    "fmt"
    "net/http"
)

// NotFoundError represents an entity absent from the store
type NotFoundError struct {
    Entity string
    ID     any
}

func (e *NotFoundError) Error() string {
    return fmt.Sprintf("%s %v not found", e.Entity, e.ID)
}

// RemoteServiceError represents a non-2xx or error-flagged response from a third-party API
type RemoteServiceError struct {
    Service    string
    StatusCode int
    Message    string
}

func (e *RemoteServiceError) Error() string {
    if e.StatusCode > 0 {
        return fmt.Sprintf("%s error (HTTP %d): %s", e.Service, e.StatusCode, e.Message)
    }
    return fmt.Sprintf("%s error: %s", e.Service, e.Message)
}

// ExtractionError represents a byte stream that could not be parsed as a PDF
type ExtractionError struct {
    Err error
}

func (e *ExtractionError) Error() string {
    return fmt.Sprintf("failed to extract text from PDF: %v", e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// ValidationError represents malformed caller input
type ValidationError struct {
    Field   string
    Message string
}

func (e *ValidationError) Error() string {
    if e.Field == "" {
        return fmt.Sprintf("validation error: %s", e.Message)
    }
    return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

func NotFound(entity string, id any) error { return &NotFoundError{Entity: entity, ID: id} }

func Invalid(field, format string, args ...any) error {
    return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func Remote(service string, status int, format string, args ...any) error {
    return &RemoteServiceError{Service: service, StatusCode: status, Message: fmt.Sprintf(format, args...)}
}

func IsNotFound(err error) bool {
    var e *NotFoundError
    return errors.As(err, &e)
}

func IsValidation(err error) bool {
    var e *ValidationError
    return errors.As(err, &e)
}

func IsRemote(err error) bool {
    var e *RemoteServiceError
    return errors.As(err, &e)
}

func IsExtraction(err error) bool {
    var e *ExtractionError
    return errors.As(err, &e)
}

// HTTPStatus maps an error from any layer to the status code the API answers with.
func HTTPStatus(err error) int {
    switch {
    case err == nil:
        return http.StatusOK
    case IsNotFound(err):
        return http.StatusNotFound
    case IsValidation(err):
        return http.StatusBadRequest
    case IsExtraction(err):
        return http.StatusUnprocessableEntity
    case IsRemote(err):
        return http.StatusBadGateway
    default:
        return http.StatusInternalServerError
    }
}
