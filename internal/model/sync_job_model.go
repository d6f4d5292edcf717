package model

import (
	"time"

	"contextual-chatbot-be/pkg/knowledge"
)

// SyncJobStatusTimedOut marks a job whose poll window expired locally. It is
// distinct from any provider status: the provider job may still be running.
const SyncJobStatusTimedOut knowledge.IngestionJobStatus = "TIMED_OUT"

// SyncJob is the locally tracked view of a provider ingestion job.
type SyncJob struct {
	ID              string                       `json:"id"`
	Owner           string                       `json:"owner"`
	KnowledgeBaseID string                       `json:"knowledge_base_id"`
	DataSourceID    string                       `json:"data_source_id"`
	Status          knowledge.IngestionJobStatus `json:"status"`
	Error           string                       `json:"error,omitempty"`
	StartedAt       time.Time                    `json:"started_at"`
	FinishedAt      *time.Time                   `json:"finished_at,omitempty"`
}
