// FILE: internal/service/auth_service.go
package service

import (
	"context"
	"fmt"
	"os"
	"time"

	"contextual-chatbot-be/internal/config"
	"contextual-chatbot-be/internal/dto"
	"contextual-chatbot-be/internal/pkg/logger"
	"contextual-chatbot-be/internal/repository/memory"
	"contextual-chatbot-be/pkg/identity"
	"contextual-chatbot-be/pkg/store"

	"github.com/golang-jwt/jwt/v5"
)

type IAuthService interface {
	Login(ctx context.Context, username, password string) (*dto.LoginResponse, error)
	HandleCallback(ctx context.Context, code string) (*dto.LoginResponse, error)
	HostedURLs() dto.HostedURLsResponse
	Me(sessionID string) (*dto.MeResponse, error)
	Logout(sessionID string) error
}

type authService struct {
	provider    identity.Provider
	sessionRepo *memory.SessionRepository
	cfg         *config.Config
	logger      logger.ILogger
}

func NewAuthService(provider identity.Provider, sessionRepo *memory.SessionRepository, cfg *config.Config, log logger.ILogger) IAuthService {
	return &authService{
		provider:    provider,
		sessionRepo: sessionRepo,
		cfg:         cfg,
		logger:      log,
	}
}

func (s *authService) Login(ctx context.Context, username, password string) (*dto.LoginResponse, error) {
	accessToken, err := s.provider.Authenticate(ctx, username, password)
	if err != nil {
		s.logger.Warn("AuthService", "Credential exchange rejected", map[string]interface{}{"user_name": username, "error": err.Error()})
		return nil, fmt.Errorf("%w: %v", ErrAuthentication, err)
	}

	return s.establishSession(ctx, accessToken)
}

func (s *authService) HandleCallback(ctx context.Context, code string) (*dto.LoginResponse, error) {
	accessToken, err := s.provider.ExchangeCode(ctx, code)
	if err != nil {
		s.logger.Warn("AuthService", "Authorization code exchange rejected", map[string]interface{}{"error": err.Error()})
		return nil, fmt.Errorf("%w: %v", ErrAuthentication, err)
	}

	return s.establishSession(ctx, accessToken)
}

// establishSession resolves the access token into an identity, creates a
// fresh session seeded with the environment defaults, and issues the JWT the
// client presents on subsequent calls.
func (s *authService) establishSession(ctx context.Context, accessToken string) (*dto.LoginResponse, error) {
	profile, err := s.provider.DescribeUser(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthentication, err)
	}

	ident := store.Identity{
		IsLoggedIn: true,
		UserName:   profile.UserName,
		Email:      profile.Email,
	}

	// Group membership is informational only. A failed lookup must not block
	// login; the user simply carries no group.
	groups, err := s.provider.ListGroups(ctx, profile.UserName)
	if err != nil {
		s.logger.Warn("AuthService", "Group lookup failed, continuing without groups", map[string]interface{}{"user_name": profile.UserName, "error": err.Error()})
	} else if len(groups) > 0 {
		ident.Group = groups[0]
		ident.Groups = groups
	}

	session := store.NewSessionContext(ident, store.RetrievalSettings{
		KnowledgeBaseID: s.cfg.Knowledge.KnowledgeBaseID,
		DataSourceID:    s.cfg.Knowledge.DataSourceID,
		BucketName:      s.cfg.Knowledge.BucketName,
		ModelID:         s.cfg.Knowledge.ModelID,
	})
	s.sessionRepo.Save(session)

	claims := jwt.MapClaims{
		"session_id": session.ID,
		"user_name":  ident.UserName,
		"exp":        time.Now().Add(time.Hour * 24).Unix(),
	}
	jwtToken := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := jwtToken.SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		return nil, err
	}

	s.logger.Info("AuthService", "Session established", map[string]interface{}{"user_name": ident.UserName, "session_id": session.ID})

	return &dto.LoginResponse{
		SessionID: session.ID,
		Token:     signedToken,
		UserName:  ident.UserName,
		Email:     ident.Email,
		Group:     ident.Group,
	}, nil
}

func (s *authService) HostedURLs() dto.HostedURLsResponse {
	urls := s.provider.HostedURLs()
	return dto.HostedURLsResponse{
		Login:          urls.Login,
		ForgotPassword: urls.ForgotPassword,
		SignUp:         urls.SignUp,
	}
}

func (s *authService) Me(sessionID string) (*dto.MeResponse, error) {
	session, found := s.sessionRepo.Get(sessionID)
	if !found {
		return &dto.MeResponse{IsLoggedIn: false}, nil
	}
	return &dto.MeResponse{
		IsLoggedIn: session.Identity.IsLoggedIn,
		UserName:   session.Identity.UserName,
		Email:      session.Identity.Email,
		Group:      session.Identity.Group,
		Groups:     session.Identity.Groups,
	}, nil
}

// Logout drops the entire session: identity, settings, conversation history
// and the provider conversation token all go together.
func (s *authService) Logout(sessionID string) error {
	s.sessionRepo.Delete(sessionID)
	s.logger.Info("AuthService", "Session dropped", map[string]interface{}{"session_id": sessionID})
	return nil
}
