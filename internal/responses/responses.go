package responses

import (
	"encoding/json"
	"time"
)

// Header names carried by Data Integration responses.
const (
	HeaderETag             = "etag"
	HeaderOpcRequestID     = "opc-request-id"
	HeaderOpcWorkRequestID = "opc-work-request-id"
	HeaderOpcNextPage      = "opc-next-page"
)

// Envelope is a service response as seen by the CLI: the raw body plus the
// headers the CLI surfaces to the user.
type Envelope struct {
	Data             json.RawMessage `json:"data,omitempty"`
	ETag             string          `json:"etag,omitempty"`
	OpcNextPage      string          `json:"opc-next-page,omitempty"`
	OpcRequestID     string          `json:"-"`
	OpcWorkRequestID string          `json:"opc-work-request-id,omitempty"`
}

// IsEmpty reports whether the envelope carries nothing worth rendering.
func (e Envelope) IsEmpty() bool {
	return len(e.Data) == 0 && e.ETag == "" && e.OpcNextPage == "" && e.OpcWorkRequestID == ""
}

// ServiceError represents the error body returned on non-2xx responses.
type ServiceError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// List represents the body of every list operation.
type List struct {
	Items []json.RawMessage `json:"items"`
}

// WorkRequest represents the body of GetWorkRequest.
type WorkRequest struct {
	ID              string                `json:"id"`
	OperationType   string                `json:"operationType"`
	Status          string                `json:"status"`
	CompartmentID   string                `json:"compartmentId,omitempty"`
	Resources       []WorkRequestResource `json:"resources,omitempty"`
	PercentComplete float32               `json:"percentComplete"`
	TimeAccepted    *time.Time            `json:"timeAccepted,omitempty"`
	TimeStarted     *time.Time            `json:"timeStarted,omitempty"`
	TimeFinished    *time.Time            `json:"timeFinished,omitempty"`
}

// WorkRequestResource represents a resource affected by a work request.
type WorkRequestResource struct {
	EntityType string `json:"entityType"`
	ActionType string `json:"actionType"`
	Identifier string `json:"identifier"`
	EntityURI  string `json:"entityUri,omitempty"`
}
