package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "INGESTION_JOB_FINISHED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the generic implementation used by publishers and the
// subscriber when reconstructing events off the wire.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Event type codes.
const (
	TypeIngestionJobFinished = "INGESTION_JOB_FINISHED"
	TypeDocumentUploaded     = "DOCUMENT_UPLOADED"
	TypeDocumentDeleted      = "DOCUMENT_DELETED"
)

// NewIngestionJobFinished reports a sync job leaving the in-flight set.
func NewIngestionJobFinished(jobID, owner, status string) Event {
	return BaseEvent{
		Type: TypeIngestionJobFinished,
		Data: map[string]interface{}{
			"job_id":    jobID,
			"user_name": owner,
			"status":    status,
		},
		OccurredAt: time.Now(),
	}
}

// NewDocumentUploaded reports a successful document upload.
func NewDocumentUploaded(key, owner string) Event {
	return BaseEvent{
		Type: TypeDocumentUploaded,
		Data: map[string]interface{}{
			"key":       key,
			"user_name": owner,
		},
		OccurredAt: time.Now(),
	}
}

// NewDocumentDeleted reports a document removal.
func NewDocumentDeleted(key, owner string) Event {
	return BaseEvent{
		Type: TypeDocumentDeleted,
		Data: map[string]interface{}{
			"key":       key,
			"user_name": owner,
		},
		OccurredAt: time.Now(),
	}
}
