package knowledge

import (
	"context"
)

// IngestionJobStatus is the provider-owned status of an asynchronous
// ingestion job. Transitions belong to the knowledge store; this service
// only reads the status until it leaves the in-flight set.
type IngestionJobStatus string

const (
	StatusStarting   IngestionJobStatus = "STARTING"
	StatusInProgress IngestionJobStatus = "IN_PROGRESS"
	StatusStopping   IngestionJobStatus = "STOPPING"
	StatusComplete   IngestionJobStatus = "COMPLETE"
	StatusFailed     IngestionJobStatus = "FAILED"
)

// InFlight reports whether the job is still being processed by the provider.
func (s IngestionJobStatus) InFlight() bool {
	switch s {
	case StatusStarting, StatusInProgress, StatusStopping:
		return true
	}
	return false
}

// RetrievalFilter is an equality constraint applied to candidate documents
// before they are eligible to ground an answer.
type RetrievalFilter struct {
	Key   string
	Value string
}

// RetrieveAndGenerateRequest is one conversation turn sent to the provider.
type RetrieveAndGenerateRequest struct {
	Query           string
	KnowledgeBaseID string
	ModelID         string
	Filter          RetrievalFilter
	NumberOfResults int
	// SessionToken continues an existing conversation thread when set;
	// when empty the provider starts a new one and returns its token.
	SessionToken string
}

// RetrievedReference is one source passage inside a citation group.
type RetrievedReference struct {
	Excerpt    string
	SourceURI  string
	PageNumber int
}

// CitationGroup mirrors the provider's nested citation structure: each
// generated span carries the references that grounded it.
type CitationGroup struct {
	RetrievedReferences []RetrievedReference
}

// RetrieveAndGenerateResponse is the provider's answer for one turn.
type RetrieveAndGenerateResponse struct {
	OutputText   string
	SessionToken string
	Citations    []CitationGroup
}

// Provider defines the contract for the external knowledge store.
type Provider interface {
	StartIngestionJob(ctx context.Context, knowledgeBaseID, dataSourceID string) (string, error)
	GetIngestionJob(ctx context.Context, knowledgeBaseID, dataSourceID, jobID string) (IngestionJobStatus, error)
	RetrieveAndGenerate(ctx context.Context, req *RetrieveAndGenerateRequest) (*RetrieveAndGenerateResponse, error)
}
