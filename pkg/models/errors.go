package models

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind is the wire name of an error class
type ErrorKind string

const (
	KindValidation ErrorKind = "validation_error"
	KindNotFound   ErrorKind = "not_found"
	KindTransfer   ErrorKind = "transfer_error"
	KindUnknown    ErrorKind = "unknown_error"
	KindRateLimit  ErrorKind = "rate_limited"
)

var (
	// ErrEditInProgress is returned when an edit is started while another is open
	ErrEditInProgress = errors.New("another record is already being edited")
	// ErrNotEditing is returned by draft operations outside an edit session
	ErrNotEditing = errors.New("no record is being edited")
	// ErrUploadSpent is returned when an upload destination is reused or expired
	ErrUploadSpent = errors.New("upload destination is expired or already used")
)

// ValidationError rejects a create or update whose fields do not satisfy the schema
type ValidationError struct {
	Collection Collection
	Field      string
	Reason     string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid %s record: %s", e.Collection, e.Reason)
	}
	return fmt.Sprintf("invalid %s record: %s %s", e.Collection, e.Field, e.Reason)
}

// NotFoundError reports an identifier absent from its collection
type NotFoundError struct {
	Collection Collection
	ID         string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Collection, e.ID)
}

// TransferError covers both requesting an upload destination and the byte transfer
type TransferError struct {
	Stage string
	Err   error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("file transfer failed during %s: %v", e.Stage, e.Err)
}

func (e *TransferError) Unwrap() error { return e.Err }

// UnknownError wraps any failure outside the other classes
type UnknownError struct {
	Op  string
	Err error
}

func (e *UnknownError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *UnknownError) Unwrap() error { return e.Err }

// Classify maps err to its wire kind
func Classify(err error) ErrorKind {
	var (
		ve *ValidationError
		ne *NotFoundError
		te *TransferError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ve):
		return KindValidation
	case errors.As(err, &ne):
		return KindNotFound
	case errors.As(err, &te):
		return KindTransfer
	}
	return KindUnknown
}

// StatusCode is the HTTP status used for kind
func StatusCode(kind ErrorKind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindTransfer:
		return http.StatusBadGateway
	case KindRateLimit:
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}

// UserMessage is the operator-facing text for a failed action
func UserMessage(err error) string {
	switch Classify(err) {
	case KindValidation:
		return "Submission rejected: " + err.Error()
	case KindNotFound:
		return "This record no longer exists. The list has been refreshed."
	case KindTransfer:
		return "File upload failed. Nothing was saved."
	}
	return "Action failed. Please try again."
}
