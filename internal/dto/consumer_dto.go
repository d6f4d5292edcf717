package dto

// WatchSyncJobMessage is the in-process message handed to the background
// poller when an ingestion job starts.
type WatchSyncJobMessage struct {
	JobID string `json:"job_id"`
}
