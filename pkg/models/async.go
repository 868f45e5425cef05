package models

import (
	"time"
)

// AsyncStatus represents the status of an async operation
type AsyncStatus string

const (
	AsyncStatusAccepted   AsyncStatus = "ACCEPTED"
	AsyncStatusProcessing AsyncStatus = "PROCESSING"
	AsyncStatusSuccess    AsyncStatus = "SUCCESS"
	AsyncStatusFailure    AsyncStatus = "FAILURE"
)

// AsyncExportResponse is the immediate response from the export endpoint
type AsyncExportResponse struct {
	ProcessID  string      `json:"processId"`
	Collection Collection  `json:"collection"`
	Status     AsyncStatus `json:"status"`
	Message    string      `json:"message"`
	Timestamp  time.Time   `json:"timestamp"`
}

// ExportCompletionData describes a finished export
type ExportCompletionData struct {
	Collection Collection `json:"collection"`
	StorageID  string     `json:"storageId"`
	FileURL    string     `json:"fileUrl"`
	FileName   string     `json:"fileName"`
	Rows       int        `json:"rows"`
}

// AsyncTaskStatusResponse represents the response for task status queries
type AsyncTaskStatusResponse struct {
	ProcessID      string                 `json:"processId"`
	Status         AsyncStatus            `json:"status"`
	Data           *ExportCompletionData  `json:"data,omitempty"`
	Error          string                 `json:"error,omitempty"`
	CreatedAt      time.Time              `json:"createdAt"`
	CompletedAt    *time.Time             `json:"completedAt,omitempty"`
	ProcessingTime *time.Duration         `json:"processingTime,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// CreateAsyncExportResponse creates a successful async export response
func CreateAsyncExportResponse(processID string, c Collection) *AsyncExportResponse {
	return &AsyncExportResponse{
		ProcessID:  processID,
		Collection: c,
		Status:     AsyncStatusAccepted,
		Message:    "Export accepted for processing",
		Timestamp:  time.Now(),
	}
}
