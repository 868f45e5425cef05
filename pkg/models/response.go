package models

import (
	"encoding/json"
	"errors"
	"time"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Uptime    time.Duration     `json:"uptime"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error      ErrorKind  `json:"error"`
	Message    string     `json:"message"`
	RequestID  string     `json:"request_id"`
	Timestamp  time.Time  `json:"timestamp"`
	Collection Collection `json:"collection,omitempty"`
	Field      string     `json:"field,omitempty"`
	ID         string     `json:"id,omitempty"`
}

// NewErrorResponse builds the wire form of err
func NewErrorResponse(err error, requestID string) *ErrorResponse {
	resp := &ErrorResponse{
		Error:     Classify(err),
		Message:   err.Error(),
		RequestID: requestID,
		Timestamp: time.Now(),
	}

	var (
		ve *ValidationError
		ne *NotFoundError
	)
	switch {
	case errors.As(err, &ve):
		resp.Collection, resp.Field = ve.Collection, ve.Field
		resp.Message = ve.Reason
	case errors.As(err, &ne):
		resp.Collection, resp.ID = ne.Collection, ne.ID
	}
	return resp
}

// AsError turns a decoded error response back into the typed error
func (r *ErrorResponse) AsError() error {
	switch r.Error {
	case KindValidation:
		return &ValidationError{Collection: r.Collection, Field: r.Field, Reason: r.Message}
	case KindNotFound:
		return &NotFoundError{Collection: r.Collection, ID: r.ID}
	case KindTransfer:
		return &TransferError{Stage: "server", Err: errors.New(r.Message)}
	}
	return &UnknownError{Op: "request", Err: errors.New(r.Message)}
}

// CreateResponse is returned by create endpoints
type CreateResponse struct {
	ID         string     `json:"id"`
	Collection Collection `json:"collection"`
}

// ListResponse carries one collection's records in query order
type ListResponse struct {
	Collection Collection        `json:"collection"`
	Count      int               `json:"count"`
	Items      []json.RawMessage `json:"items"`
}

// UploadDestination is a short-lived single-use target for one file
type UploadDestination struct {
	UploadURL string    `json:"uploadUrl"`
	StorageID string    `json:"storageId"`
	Method    string    `json:"method"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// UploadResult is the body returned by a completed transfer
type UploadResult struct {
	StorageID string `json:"storageId"`
}

// FileURLResponse carries a resolved download URL
type FileURLResponse struct {
	StorageID string `json:"storageId"`
	URL       string `json:"url"`
}

// ChangeOp names a mutation kind in the change feed
type ChangeOp string

const (
	ChangeInsert ChangeOp = "insert"
	ChangePatch  ChangeOp = "patch"
	ChangeDelete ChangeOp = "delete"
)

// ChangeEvent is published after every successful mutation
type ChangeEvent struct {
	Collection Collection `json:"collection"`
	Op         ChangeOp   `json:"op"`
	ID         string     `json:"id"`
	Origin     string     `json:"origin,omitempty"`
	At         time.Time  `json:"at"`
}

// SnapshotMessage is pushed to live subscribers
type SnapshotMessage struct {
	Type       string            `json:"type"` // snapshot or error
	Collection Collection        `json:"collection"`
	Items      []json.RawMessage `json:"items,omitempty"`
	Error      string            `json:"error,omitempty"`
	At         time.Time         `json:"at"`
}
