package service

import (
	"context"
	"errors"
	"testing"

	"contextual-chatbot-be/internal/constant"
	"contextual-chatbot-be/internal/repository/memory"
	"contextual-chatbot-be/pkg/knowledge"
	"contextual-chatbot-be/pkg/store"

	"github.com/stretchr/testify/assert"
)

type fakeKnowledgeProvider struct {
	lastReq *knowledge.RetrieveAndGenerateRequest
	resp    *knowledge.RetrieveAndGenerateResponse
	err     error
}

func (f *fakeKnowledgeProvider) StartIngestionJob(ctx context.Context, kb, ds string) (string, error) {
	return "", errors.New("not implemented")
}

func (f *fakeKnowledgeProvider) GetIngestionJob(ctx context.Context, kb, ds, jobID string) (knowledge.IngestionJobStatus, error) {
	return "", errors.New("not implemented")
}

func (f *fakeKnowledgeProvider) RetrieveAndGenerate(ctx context.Context, req *knowledge.RetrieveAndGenerateRequest) (*knowledge.RetrieveAndGenerateResponse, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func newChatSession(userName string) *store.SessionContext {
	return store.NewSessionContext(
		store.Identity{IsLoggedIn: true, UserName: userName},
		store.RetrievalSettings{
			KnowledgeBaseID: "KB123",
			DataSourceID:    "DS456",
			BucketName:      "docs-bucket",
			ModelID:         "model-x",
		},
	)
}

func TestAskScopesRetrievalToCaller(t *testing.T) {
	provider := &fakeKnowledgeProvider{
		resp: &knowledge.RetrieveAndGenerateResponse{OutputText: "hi", SessionToken: "tok-1"},
	}
	svc := NewChatbotService(provider, memory.NewSessionRepository(), nopLogger{})
	session := newChatSession("alice")

	_, err := svc.Ask(context.Background(), session, "what do my docs say?")
	assert.NoError(t, err)

	assert.Equal(t, constant.OwnerMetadataKey, provider.lastReq.Filter.Key)
	assert.Equal(t, "alice", provider.lastReq.Filter.Value)
	assert.Equal(t, constant.RetrievalResultCount, provider.lastReq.NumberOfResults)
	assert.Equal(t, "KB123", provider.lastReq.KnowledgeBaseID)
	assert.Equal(t, "model-x", provider.lastReq.ModelID)
}

func TestAskTokenContinuity(t *testing.T) {
	provider := &fakeKnowledgeProvider{
		resp: &knowledge.RetrieveAndGenerateResponse{OutputText: "first", SessionToken: "tok-1"},
	}
	svc := NewChatbotService(provider, memory.NewSessionRepository(), nopLogger{})
	session := newChatSession("alice")

	_, err := svc.Ask(context.Background(), session, "hello")
	assert.NoError(t, err)
	assert.Empty(t, provider.lastReq.SessionToken, "first turn starts a new thread")
	assert.Equal(t, "tok-1", session.SessionToken)
	assert.Equal(t, "alice", session.TokenOwner)

	provider.resp = &knowledge.RetrieveAndGenerateResponse{OutputText: "second", SessionToken: "tok-2"}
	_, err = svc.Ask(context.Background(), session, "and then?")
	assert.NoError(t, err)
	assert.Equal(t, "tok-1", provider.lastReq.SessionToken, "second turn continues with the token from the first")
	assert.Equal(t, "tok-2", session.SessionToken)
}

func TestAskNeverReusesTokenAcrossIdentities(t *testing.T) {
	provider := &fakeKnowledgeProvider{
		resp: &knowledge.RetrieveAndGenerateResponse{OutputText: "ok", SessionToken: "tok-bob"},
	}
	svc := NewChatbotService(provider, memory.NewSessionRepository(), nopLogger{})

	session := newChatSession("bob")
	session.SessionToken = "tok-alice"
	session.TokenOwner = "alice"

	_, err := svc.Ask(context.Background(), session, "hello")
	assert.NoError(t, err)
	assert.Empty(t, provider.lastReq.SessionToken, "a token created under another identity must not be sent")
	assert.Equal(t, "tok-bob", session.SessionToken)
	assert.Equal(t, "bob", session.TokenOwner)
}

func TestAskFailureLeavesSessionUntouched(t *testing.T) {
	provider := &fakeKnowledgeProvider{err: errors.New("gateway down")}
	svc := NewChatbotService(provider, memory.NewSessionRepository(), nopLogger{})

	session := newChatSession("alice")
	session.SessionToken = "tok-1"
	session.TokenOwner = "alice"

	_, err := svc.Ask(context.Background(), session, "hello")
	assert.Error(t, err)
	assert.Empty(t, session.Turns, "failed turn must not be recorded")
	assert.Equal(t, "tok-1", session.SessionToken, "failed turn must not change the token")
}

func TestAskFlattensNestedCitations(t *testing.T) {
	provider := &fakeKnowledgeProvider{
		resp: &knowledge.RetrieveAndGenerateResponse{
			OutputText:   "answer",
			SessionToken: "tok-1",
			Citations: []knowledge.CitationGroup{
				{RetrievedReferences: []knowledge.RetrievedReference{
					{SourceURI: "s3://docs/alice/a.pdf", PageNumber: 3, Excerpt: "first"},
					{SourceURI: "s3://docs/alice/b.pdf", PageNumber: 1, Excerpt: "second"},
				}},
				{RetrievedReferences: []knowledge.RetrievedReference{
					{SourceURI: "s3://docs/alice/c.pdf", Excerpt: "third"},
				}},
			},
		},
	}
	svc := NewChatbotService(provider, memory.NewSessionRepository(), nopLogger{})
	session := newChatSession("alice")

	res, err := svc.Ask(context.Background(), session, "question")
	assert.NoError(t, err)
	assert.Len(t, res.Citations, 3)
	assert.Equal(t, "s3://docs/alice/a.pdf", res.Citations[0].SourceURI)
	assert.Equal(t, 3, res.Citations[0].Page)
	assert.Equal(t, "third", res.Citations[2].Excerpt)

	// The assistant turn carries the same flat citations.
	assert.Len(t, session.Turns, 2)
	assert.Equal(t, constant.ChatRoleAssistant, session.Turns[1].Role)
	assert.Len(t, session.Turns[1].Citations, 3)
}

func TestAskRequiresLoginAndSettings(t *testing.T) {
	svc := NewChatbotService(&fakeKnowledgeProvider{}, memory.NewSessionRepository(), nopLogger{})

	anon := store.NewSessionContext(store.Identity{}, store.RetrievalSettings{})
	_, err := svc.Ask(context.Background(), anon, "hello")
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	session := newChatSession("alice")
	session.Settings.KnowledgeBaseID = ""
	_, err = svc.Ask(context.Background(), session, "hello")
	assert.ErrorIs(t, err, ErrSettingsIncomplete)
}

func TestHistoryReturnsTurnsInOrder(t *testing.T) {
	provider := &fakeKnowledgeProvider{
		resp: &knowledge.RetrieveAndGenerateResponse{OutputText: "reply", SessionToken: "tok"},
	}
	svc := NewChatbotService(provider, memory.NewSessionRepository(), nopLogger{})
	session := newChatSession("alice")

	_, err := svc.Ask(context.Background(), session, "question")
	assert.NoError(t, err)

	history, err := svc.History(session)
	assert.NoError(t, err)
	assert.Len(t, history, 2)
	assert.Equal(t, constant.ChatRoleUser, history[0].Role)
	assert.Equal(t, "question", history[0].Chat)
	assert.Equal(t, constant.ChatRoleAssistant, history[1].Role)
	assert.Equal(t, "reply", history[1].Chat)
}
