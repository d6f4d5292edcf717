package service

import (
	"context"
	"errors"
	"testing"

	"contextual-chatbot-be/internal/config"
	"contextual-chatbot-be/internal/repository/memory"
	"contextual-chatbot-be/pkg/identity"

	"github.com/stretchr/testify/assert"
)

type fakeIdentityProvider struct {
	authErr    error
	groups     []string
	groupsErr  error
	profile    *identity.UserProfile
	profileErr error
}

func (f *fakeIdentityProvider) ExchangeCode(ctx context.Context, code string) (string, error) {
	if code != "good-code" {
		return "", errors.New("invalid grant")
	}
	return "access-token", nil
}

func (f *fakeIdentityProvider) Authenticate(ctx context.Context, username, password string) (string, error) {
	if f.authErr != nil {
		return "", f.authErr
	}
	return "access-token", nil
}

func (f *fakeIdentityProvider) DescribeUser(ctx context.Context, accessToken string) (*identity.UserProfile, error) {
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	if f.profile != nil {
		return f.profile, nil
	}
	return &identity.UserProfile{UserName: "alice", Email: "alice@example.com"}, nil
}

func (f *fakeIdentityProvider) ListGroups(ctx context.Context, username string) ([]string, error) {
	if f.groupsErr != nil {
		return nil, f.groupsErr
	}
	return f.groups, nil
}

func (f *fakeIdentityProvider) HostedURLs() identity.HostedURLs {
	return identity.HostedURLs{Login: "https://auth.example.com/login"}
}

func authTestConfig() *config.Config {
	return &config.Config{
		Knowledge: config.KnowledgeConfig{
			KnowledgeBaseID: "KB123",
			DataSourceID:    "DS456",
			BucketName:      "docs-bucket",
			ModelID:         "model-x",
		},
	}
}

func TestLoginEstablishesSessionWithDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	repo := memory.NewSessionRepository()
	svc := NewAuthService(&fakeIdentityProvider{groups: []string{"readers", "writers"}}, repo, authTestConfig(), nopLogger{})

	res, err := svc.Login(context.Background(), "alice", "password")
	assert.NoError(t, err)
	assert.Equal(t, "alice", res.UserName)
	assert.Equal(t, "readers", res.Group)
	assert.NotEmpty(t, res.Token)

	session, found := repo.Get(res.SessionID)
	assert.True(t, found)
	assert.True(t, session.Identity.IsLoggedIn)
	assert.Equal(t, []string{"readers", "writers"}, session.Identity.Groups)
	assert.Equal(t, "KB123", session.Settings.KnowledgeBaseID)
	assert.Equal(t, "docs-bucket", session.Settings.BucketName)
	assert.Empty(t, session.SessionToken)
}

func TestLoginSurvivesGroupLookupFailure(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	repo := memory.NewSessionRepository()
	svc := NewAuthService(&fakeIdentityProvider{groupsErr: errors.New("access denied")}, repo, authTestConfig(), nopLogger{})

	res, err := svc.Login(context.Background(), "alice", "password")
	assert.NoError(t, err, "group membership is informational, lookup failure must not block login")
	assert.Empty(t, res.Group)

	session, _ := repo.Get(res.SessionID)
	assert.True(t, session.Identity.IsLoggedIn)
	assert.Empty(t, session.Identity.Groups)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := NewAuthService(&fakeIdentityProvider{authErr: errors.New("NotAuthorized")}, memory.NewSessionRepository(), authTestConfig(), nopLogger{})

	_, err := svc.Login(context.Background(), "alice", "wrong")
	assert.ErrorIs(t, err, ErrAuthentication)
}

func TestHandleCallbackRejectsBadCode(t *testing.T) {
	svc := NewAuthService(&fakeIdentityProvider{}, memory.NewSessionRepository(), authTestConfig(), nopLogger{})

	_, err := svc.HandleCallback(context.Background(), "bad-code")
	assert.ErrorIs(t, err, ErrAuthentication)
}

func TestHandleCallbackEstablishesSession(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	repo := memory.NewSessionRepository()
	svc := NewAuthService(&fakeIdentityProvider{}, repo, authTestConfig(), nopLogger{})

	res, err := svc.HandleCallback(context.Background(), "good-code")
	assert.NoError(t, err)
	assert.Equal(t, "alice", res.UserName)

	_, found := repo.Get(res.SessionID)
	assert.True(t, found)
}

func TestLogoutDropsEverything(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	repo := memory.NewSessionRepository()
	svc := NewAuthService(&fakeIdentityProvider{}, repo, authTestConfig(), nopLogger{})

	res, err := svc.Login(context.Background(), "alice", "password")
	assert.NoError(t, err)

	assert.NoError(t, svc.Logout(res.SessionID))

	me, err := svc.Me(res.SessionID)
	assert.NoError(t, err)
	assert.False(t, me.IsLoggedIn)

	_, found := repo.Get(res.SessionID)
	assert.False(t, found)
}
