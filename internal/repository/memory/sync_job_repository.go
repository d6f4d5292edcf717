package memory

import (
	"contextual-chatbot-be/internal/model"
	"time"

	"github.com/patrickmn/go-cache"
)

type SyncJobRepository struct {
	cache *cache.Cache
}

func NewSyncJobRepository() *SyncJobRepository {
	// Jobs are short-lived; keep finished ones around for a day so clients
	// that reconnect can still resolve a job id.
	c := cache.New(24*time.Hour, 1*time.Hour)
	return &SyncJobRepository{
		cache: c,
	}
}

func (r *SyncJobRepository) Save(job *model.SyncJob) {
	r.cache.Set(job.ID, job, cache.DefaultExpiration)
}

func (r *SyncJobRepository) Get(jobID string) (*model.SyncJob, bool) {
	if x, found := r.cache.Get(jobID); found {
		return x.(*model.SyncJob), true
	}
	return nil, false
}
