package service

import (
	"testing"

	"contextual-chatbot-be/internal/dto"
	"contextual-chatbot-be/internal/repository/memory"
	"contextual-chatbot-be/pkg/store"

	"github.com/stretchr/testify/assert"
)

func newSettingsSession() *store.SessionContext {
	session := store.NewSessionContext(
		store.Identity{IsLoggedIn: true, UserName: "alice"},
		store.RetrievalSettings{
			KnowledgeBaseID: "KB123",
			DataSourceID:    "DS456",
			BucketName:      "docs-bucket",
			ModelID:         "model-x",
		},
	)
	session.SessionToken = "tok-1"
	session.TokenOwner = "alice"
	return session
}

func TestUpdateClearsTokenWhenIndexChanges(t *testing.T) {
	svc := NewSettingsService(memory.NewSessionRepository(), nopLogger{})
	session := newSettingsSession()

	_, err := svc.Update(session, &dto.UpdateSettingsRequest{
		KnowledgeBaseID: "KB999",
		DataSourceID:    "DS456",
		BucketName:      "docs-bucket",
		ModelID:         "model-x",
	})
	assert.NoError(t, err)
	assert.Empty(t, session.SessionToken, "index change invalidates the conversation token")
	assert.Empty(t, session.TokenOwner)
}

func TestUpdateClearsTokenWhenModelChanges(t *testing.T) {
	svc := NewSettingsService(memory.NewSessionRepository(), nopLogger{})
	session := newSettingsSession()

	_, err := svc.Update(session, &dto.UpdateSettingsRequest{
		KnowledgeBaseID: "KB123",
		DataSourceID:    "DS456",
		BucketName:      "docs-bucket",
		ModelID:         "model-y",
	})
	assert.NoError(t, err)
	assert.Empty(t, session.SessionToken)
}

func TestUpdateKeepsTokenWhenOnlyBucketChanges(t *testing.T) {
	svc := NewSettingsService(memory.NewSessionRepository(), nopLogger{})
	session := newSettingsSession()

	res, err := svc.Update(session, &dto.UpdateSettingsRequest{
		KnowledgeBaseID: "KB123",
		DataSourceID:    "DS456",
		BucketName:      "other-bucket",
		ModelID:         "model-x",
	})
	assert.NoError(t, err)
	assert.Equal(t, "tok-1", session.SessionToken, "bucket only affects uploads, not the conversation")
	assert.Equal(t, "other-bucket", res.BucketName)
}

func TestGetRequiresLogin(t *testing.T) {
	svc := NewSettingsService(memory.NewSessionRepository(), nopLogger{})
	anon := store.NewSessionContext(store.Identity{}, store.RetrievalSettings{})

	_, err := svc.Get(anon)
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}
