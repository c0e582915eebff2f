package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// Error types
	ErrorTypeInvalidFormat     ErrorType = "invalid_format"
	ErrorTypeInvalidDateValue  ErrorType = "invalid_date_value"
	ErrorTypeInvalidRange      ErrorType = "invalid_range"
	ErrorTypeMissingParameters ErrorType = "missing_parameters"
	ErrorTypeDBPrepare         ErrorType = "db_prepare"
	ErrorTypeDBExec            ErrorType = "db_exec"
	ErrorTypeNotFound          ErrorType = "not_found"
	ErrorTypeInternal          ErrorType = "internal"
)

// Response status values used on the wire.
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusFailed  = "failed"
)

// APIError represents a structured API error
type APIError struct {
	Type      ErrorType
	Message   string
	Code      int
	RequestID string
	// Status is the wire status: "error" renders {message}, "failed" renders {error}.
	Status string
	err    error // Internal error for logging
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Type, e.Message, e.err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap exposes the internal error to errors.Is / errors.As.
func (e *APIError) Unwrap() error {
	return e.err
}

// Internal returns the wrapped driver or library error, if any.
func (e *APIError) Internal() error {
	return e.err
}

// MarshalJSON renders the error in one of the two body shapes clients expect.
func (e *APIError) MarshalJSON() ([]byte, error) {
	if e.Status == StatusFailed {
		return json.Marshal(struct {
			Status    string `json:"status"`
			Error     string `json:"error"`
			RequestID string `json:"request_id,omitempty"`
		}{e.Status, e.Message, e.RequestID})
	}
	return json.Marshal(struct {
		Status    string `json:"status"`
		Message   string `json:"message"`
		RequestID string `json:"request_id,omitempty"`
	}{StatusError, e.Message, e.RequestID})
}

// WithRequestID adds a request ID to the error
func (e *APIError) WithRequestID(id string) *APIError {
	e.RequestID = id
	return e
}

// AsFailed switches the error to the {status:"failed", error} body shape.
func (e *APIError) AsFailed() *APIError {
	e.Status = StatusFailed
	return e
}

// WithDriverDetail appends the internal error text to the client message.
func (e *APIError) WithDriverDetail() *APIError {
	if e.err != nil {
		e.Message = fmt.Sprintf("%s: %v", e.Message, e.err)
	}
	return e
}

func newError(t ErrorType, code int, msg string, err error) *APIError {
	return &APIError{
		Type:    t,
		Message: msg,
		Code:    code,
		Status:  StatusError,
		err:     err,
	}
}

// NewInvalidFormatError reports a parameter that does not have the expected shape.
func NewInvalidFormatError(msg string, err error) *APIError {
	return newError(ErrorTypeInvalidFormat, http.StatusBadRequest, msg, err)
}

// NewInvalidDateValueError reports a well-formed date that is not on the calendar.
func NewInvalidDateValueError(msg string, err error) *APIError {
	return newError(ErrorTypeInvalidDateValue, http.StatusBadRequest, msg, err)
}

// NewInvalidRangeError reports an end bound before the start bound.
func NewInvalidRangeError(msg string, err error) *APIError {
	return newError(ErrorTypeInvalidRange, http.StatusBadRequest, msg, err)
}

// NewMissingParametersError reports an incomplete request body.
func NewMissingParametersError(msg string, err error) *APIError {
	return newError(ErrorTypeMissingParameters, http.StatusBadRequest, msg, err).AsFailed()
}

// NewDBPrepareError creates a new statement preparation error
func NewDBPrepareError(msg string, err error) *APIError {
	return newError(ErrorTypeDBPrepare, http.StatusInternalServerError, msg, err)
}

// NewDBExecError creates a new statement execution error
func NewDBExecError(msg string, err error) *APIError {
	return newError(ErrorTypeDBExec, http.StatusInternalServerError, msg, err)
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(msg string, err error) *APIError {
	return newError(ErrorTypeNotFound, http.StatusNotFound, msg, err)
}

// NewInternalError creates a new internal server error
func NewInternalError(msg string, err error) *APIError {
	return newError(ErrorTypeInternal, http.StatusInternalServerError, msg, err)
}

// As extracts an *APIError from err, wrapping anything else as internal.
func As(err error) *APIError {
	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return apiErr
	}
	return NewInternalError("internal error", err)
}

// IsNotFound checks if an error is a NotFound error
func IsNotFound(err error) bool {
	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return apiErr.Type == ErrorTypeNotFound
	}
	return false
}

// IsValidation checks if an error was caused by client input
func IsValidation(err error) bool {
	var apiErr *APIError
	if !stderrors.As(err, &apiErr) {
		return false
	}
	switch apiErr.Type {
	case ErrorTypeInvalidFormat, ErrorTypeInvalidDateValue, ErrorTypeInvalidRange, ErrorTypeMissingParameters:
		return true
	}
	return false
}
