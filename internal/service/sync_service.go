// FILE: internal/service/sync_service.go
package service

import (
	"context"
	"encoding/json"
	"time"

	"contextual-chatbot-be/internal/config"
	"contextual-chatbot-be/internal/dto"
	"contextual-chatbot-be/internal/model"
	"contextual-chatbot-be/internal/pkg/logger"
	"contextual-chatbot-be/internal/repository/memory"
	"contextual-chatbot-be/pkg/knowledge"
	"contextual-chatbot-be/pkg/store"
)

type ISyncService interface {
	// StartRefresh kicks off an ingestion job and returns immediately; a
	// background worker watches the job to completion.
	StartRefresh(ctx context.Context, session *store.SessionContext) (*dto.StartSyncResponse, error)

	// GetJob returns the tracked state of a job owned by the caller.
	GetJob(jobID, userName string) (*dto.SyncJobResponse, error)

	// PollUntilDone polls the provider until the job leaves the in-flight
	// set, the poll window expires, or ctx is cancelled. The tracked job is
	// updated after every poll.
	PollUntilDone(ctx context.Context, job *model.SyncJob) (knowledge.IngestionJobStatus, error)
}

type syncService struct {
	provider  knowledge.Provider
	jobRepo   *memory.SyncJobRepository
	publisher IPublisherService
	syncCfg   config.SyncConfig
	logger    logger.ILogger
}

func NewSyncService(provider knowledge.Provider, jobRepo *memory.SyncJobRepository, publisher IPublisherService, syncCfg config.SyncConfig, log logger.ILogger) ISyncService {
	return &syncService{
		provider:  provider,
		jobRepo:   jobRepo,
		publisher: publisher,
		syncCfg:   syncCfg,
		logger:    log,
	}
}

func (s *syncService) StartRefresh(ctx context.Context, session *store.SessionContext) (*dto.StartSyncResponse, error) {
	if !session.Identity.IsLoggedIn {
		return nil, ErrNotLoggedIn
	}
	if session.Settings.KnowledgeBaseID == "" || session.Settings.DataSourceID == "" {
		return nil, ErrSettingsIncomplete
	}

	jobID, err := s.provider.StartIngestionJob(ctx, session.Settings.KnowledgeBaseID, session.Settings.DataSourceID)
	if err != nil {
		return nil, err
	}

	job := &model.SyncJob{
		ID:              jobID,
		Owner:           session.Identity.UserName,
		KnowledgeBaseID: session.Settings.KnowledgeBaseID,
		DataSourceID:    session.Settings.DataSourceID,
		Status:          knowledge.StatusStarting,
		StartedAt:       time.Now(),
	}
	s.jobRepo.Save(job)

	s.logger.Info("SyncService", "Ingestion job started", map[string]interface{}{"job_id": jobID, "user_name": job.Owner})

	// Hand the job to the background watcher. If publishing fails, the job
	// still exists and the client can poll its status endpoint.
	msgJson, _ := json.Marshal(dto.WatchSyncJobMessage{JobID: jobID})
	if err := s.publisher.Publish(ctx, msgJson); err != nil {
		s.logger.Error("SyncService", "Failed to enqueue job watch", map[string]interface{}{"job_id": jobID, "error": err.Error()})
	}

	return &dto.StartSyncResponse{
		JobID:  jobID,
		Status: string(job.Status),
	}, nil
}

func (s *syncService) GetJob(jobID, userName string) (*dto.SyncJobResponse, error) {
	job, found := s.jobRepo.Get(jobID)
	if !found {
		return nil, ErrNotFound
	}
	if job.Owner != userName {
		return nil, ErrOwnershipViolation
	}
	return &dto.SyncJobResponse{
		JobID:      job.ID,
		Status:     string(job.Status),
		Error:      job.Error,
		StartedAt:  job.StartedAt,
		FinishedAt: job.FinishedAt,
	}, nil
}

func (s *syncService) PollUntilDone(ctx context.Context, job *model.SyncJob) (knowledge.IngestionJobStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, s.syncCfg.PollTimeout)
	defer cancel()

	interval := s.syncCfg.PollInitialInterval
	for {
		status, err := s.provider.GetIngestionJob(ctx, job.KnowledgeBaseID, job.DataSourceID, job.ID)
		if err != nil {
			s.finish(job, knowledge.StatusFailed, err.Error())
			return knowledge.StatusFailed, err
		}

		job.Status = status
		s.jobRepo.Save(job)

		if !status.InFlight() {
			s.finish(job, status, "")
			s.logger.Info("SyncService", "Ingestion job finished", map[string]interface{}{"job_id": job.ID, "status": string(status)})
			return status, nil
		}

		select {
		case <-ctx.Done():
			// Stop watching, but the provider job keeps running; the status
			// endpoint reflects that we gave up, not that the job failed.
			s.finish(job, model.SyncJobStatusTimedOut, ctx.Err().Error())
			s.logger.Warn("SyncService", "Gave up watching ingestion job", map[string]interface{}{"job_id": job.ID, "error": ctx.Err().Error()})
			return model.SyncJobStatusTimedOut, ctx.Err()
		case <-time.After(interval):
		}

		interval *= 2
		if interval > s.syncCfg.PollMaxInterval {
			interval = s.syncCfg.PollMaxInterval
		}
	}
}

func (s *syncService) finish(job *model.SyncJob, status knowledge.IngestionJobStatus, errMsg string) {
	now := time.Now()
	job.Status = status
	job.Error = errMsg
	job.FinishedAt = &now
	s.jobRepo.Save(job)
}
