package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"contextual-chatbot-be/internal/config"
	"contextual-chatbot-be/internal/model"
	"contextual-chatbot-be/internal/repository/memory"
	"contextual-chatbot-be/pkg/knowledge"
	"contextual-chatbot-be/pkg/store"

	"github.com/stretchr/testify/assert"
)

type scriptedSyncProvider struct {
	jobID    string
	statuses []knowledge.IngestionJobStatus
	polls    int
	startErr error
}

func (p *scriptedSyncProvider) StartIngestionJob(ctx context.Context, kb, ds string) (string, error) {
	if p.startErr != nil {
		return "", p.startErr
	}
	return p.jobID, nil
}

func (p *scriptedSyncProvider) GetIngestionJob(ctx context.Context, kb, ds, jobID string) (knowledge.IngestionJobStatus, error) {
	if p.polls < len(p.statuses) {
		status := p.statuses[p.polls]
		p.polls++
		return status, nil
	}
	// Past the script the job stays in its final state.
	p.polls++
	return p.statuses[len(p.statuses)-1], nil
}

func (p *scriptedSyncProvider) RetrieveAndGenerate(ctx context.Context, req *knowledge.RetrieveAndGenerateRequest) (*knowledge.RetrieveAndGenerateResponse, error) {
	return nil, errors.New("not implemented")
}

type nopPublisher struct{}

func (nopPublisher) Publish(ctx context.Context, payload []byte) error { return nil }

func fastSyncConfig() config.SyncConfig {
	return config.SyncConfig{
		PollInitialInterval: time.Millisecond,
		PollMaxInterval:     4 * time.Millisecond,
		PollTimeout:         time.Second,
	}
}

func newSyncSession(userName string) *store.SessionContext {
	return store.NewSessionContext(
		store.Identity{IsLoggedIn: true, UserName: userName},
		store.RetrievalSettings{KnowledgeBaseID: "KB123", DataSourceID: "DS456"},
	)
}

func TestStartRefreshTracksJob(t *testing.T) {
	provider := &scriptedSyncProvider{jobID: "job-1", statuses: []knowledge.IngestionJobStatus{knowledge.StatusStarting}}
	jobRepo := memory.NewSyncJobRepository()
	svc := NewSyncService(provider, jobRepo, nopPublisher{}, fastSyncConfig(), nopLogger{})

	res, err := svc.StartRefresh(context.Background(), newSyncSession("alice"))
	assert.NoError(t, err)
	assert.Equal(t, "job-1", res.JobID)
	assert.Equal(t, string(knowledge.StatusStarting), res.Status)

	job, found := jobRepo.Get("job-1")
	assert.True(t, found)
	assert.Equal(t, "alice", job.Owner)
	assert.Equal(t, "KB123", job.KnowledgeBaseID)
}

func TestStartRefreshRequiresSettings(t *testing.T) {
	provider := &scriptedSyncProvider{jobID: "job-1"}
	svc := NewSyncService(provider, memory.NewSyncJobRepository(), nopPublisher{}, fastSyncConfig(), nopLogger{})

	session := newSyncSession("alice")
	session.Settings.DataSourceID = ""
	_, err := svc.StartRefresh(context.Background(), session)
	assert.ErrorIs(t, err, ErrSettingsIncomplete)
}

func TestPollUntilDonePollsUntilTerminal(t *testing.T) {
	provider := &scriptedSyncProvider{
		jobID: "job-1",
		statuses: []knowledge.IngestionJobStatus{
			knowledge.StatusStarting,
			knowledge.StatusInProgress,
			knowledge.StatusInProgress,
			knowledge.StatusComplete,
		},
	}
	jobRepo := memory.NewSyncJobRepository()
	svc := NewSyncService(provider, jobRepo, nopPublisher{}, fastSyncConfig(), nopLogger{})

	job := &model.SyncJob{ID: "job-1", Owner: "alice", KnowledgeBaseID: "KB123", DataSourceID: "DS456", Status: knowledge.StatusStarting, StartedAt: time.Now()}
	jobRepo.Save(job)

	status, err := svc.PollUntilDone(context.Background(), job)
	assert.NoError(t, err)
	assert.Equal(t, knowledge.StatusComplete, status)
	assert.Equal(t, 4, provider.polls, "one poll per scripted status, stopping at the terminal one")
	assert.NotNil(t, job.FinishedAt)
}

func TestPollUntilDoneTimesOut(t *testing.T) {
	provider := &scriptedSyncProvider{
		jobID:    "job-1",
		statuses: []knowledge.IngestionJobStatus{knowledge.StatusInProgress},
	}
	jobRepo := memory.NewSyncJobRepository()
	cfg := fastSyncConfig()
	cfg.PollTimeout = 10 * time.Millisecond
	svc := NewSyncService(provider, jobRepo, nopPublisher{}, cfg, nopLogger{})

	job := &model.SyncJob{ID: "job-1", Owner: "alice", KnowledgeBaseID: "KB123", DataSourceID: "DS456", Status: knowledge.StatusStarting, StartedAt: time.Now()}
	jobRepo.Save(job)

	status, err := svc.PollUntilDone(context.Background(), job)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, model.SyncJobStatusTimedOut, status)
	assert.Equal(t, model.SyncJobStatusTimedOut, job.Status)
}

func TestPollUntilDoneRespectsCancellation(t *testing.T) {
	provider := &scriptedSyncProvider{
		jobID:    "job-1",
		statuses: []knowledge.IngestionJobStatus{knowledge.StatusInProgress},
	}
	jobRepo := memory.NewSyncJobRepository()
	cfg := fastSyncConfig()
	cfg.PollInitialInterval = time.Hour // force the wait branch
	svc := NewSyncService(provider, jobRepo, nopPublisher{}, cfg, nopLogger{})

	job := &model.SyncJob{ID: "job-1", Owner: "alice", KnowledgeBaseID: "KB123", DataSourceID: "DS456", Status: knowledge.StatusStarting, StartedAt: time.Now()}
	jobRepo.Save(job)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := svc.PollUntilDone(ctx, job)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPollUntilDoneMarksFailureOnProviderError(t *testing.T) {
	provider := &failingSyncProvider{}
	jobRepo := memory.NewSyncJobRepository()
	svc := NewSyncService(provider, jobRepo, nopPublisher{}, fastSyncConfig(), nopLogger{})

	job := &model.SyncJob{ID: "job-1", Owner: "alice", KnowledgeBaseID: "KB123", DataSourceID: "DS456", Status: knowledge.StatusStarting, StartedAt: time.Now()}
	jobRepo.Save(job)

	status, err := svc.PollUntilDone(context.Background(), job)
	assert.Error(t, err)
	assert.Equal(t, knowledge.StatusFailed, status)
	assert.NotEmpty(t, job.Error)
}

type failingSyncProvider struct{}

func (failingSyncProvider) StartIngestionJob(ctx context.Context, kb, ds string) (string, error) {
	return "", errors.New("not implemented")
}

func (failingSyncProvider) GetIngestionJob(ctx context.Context, kb, ds, jobID string) (knowledge.IngestionJobStatus, error) {
	return "", errors.New("gateway unreachable")
}

func (failingSyncProvider) RetrieveAndGenerate(ctx context.Context, req *knowledge.RetrieveAndGenerateRequest) (*knowledge.RetrieveAndGenerateResponse, error) {
	return nil, errors.New("not implemented")
}

func TestGetJobEnforcesOwnership(t *testing.T) {
	jobRepo := memory.NewSyncJobRepository()
	svc := NewSyncService(&scriptedSyncProvider{}, jobRepo, nopPublisher{}, fastSyncConfig(), nopLogger{})

	jobRepo.Save(&model.SyncJob{ID: "job-1", Owner: "alice", Status: knowledge.StatusInProgress, StartedAt: time.Now()})

	res, err := svc.GetJob("job-1", "alice")
	assert.NoError(t, err)
	assert.Equal(t, string(knowledge.StatusInProgress), res.Status)

	_, err = svc.GetJob("job-1", "bob")
	assert.ErrorIs(t, err, ErrOwnershipViolation)

	_, err = svc.GetJob("missing", "alice")
	assert.ErrorIs(t, err, ErrNotFound)
}
