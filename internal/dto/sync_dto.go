package dto

import "time"

type StartSyncResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

type SyncJobResponse struct {
	JobID      string     `json:"job_id"`
	Status     string     `json:"status"`
	Error      string     `json:"error,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}
