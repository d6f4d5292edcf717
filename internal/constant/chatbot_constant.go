package constant

const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"

	// RetrievalResultCount caps the supporting passages retrieved per query.
	// Relevance/cost trade-off, not configurable per call.
	RetrievalResultCount = 5

	// OwnerMetadataKey tags every stored document and retrieval filter with
	// the owning user name.
	OwnerMetadataKey = "user"

	// MetadataSidecarSuffix is appended to a document key to form the key of
	// its retrieval-filter sidecar.
	MetadataSidecarSuffix = ".metadata.json"

	// SyncWatchTopic is the in-process topic carrying started ingestion jobs
	// to the background poller.
	SyncWatchTopic = "INGESTION_JOB_WATCH"
)
