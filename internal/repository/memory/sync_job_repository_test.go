package memory

import (
	"testing"

	"contextual-chatbot-be/internal/model"
	"contextual-chatbot-be/pkg/knowledge"

	"github.com/stretchr/testify/assert"
)

func TestSyncJobRepositoryRoundTrip(t *testing.T) {
	repo := NewSyncJobRepository()

	repo.Save(&model.SyncJob{ID: "job-1", Owner: "alice", Status: knowledge.StatusStarting})

	got, found := repo.Get("job-1")
	assert.True(t, found)
	assert.Equal(t, "alice", got.Owner)
	assert.Equal(t, knowledge.StatusStarting, got.Status)

	_, found = repo.Get("job-2")
	assert.False(t, found)
}
