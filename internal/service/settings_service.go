// FILE: internal/service/settings_service.go
package service

import (
	"contextual-chatbot-be/internal/dto"
	"contextual-chatbot-be/internal/pkg/logger"
	"contextual-chatbot-be/internal/repository/memory"
	"contextual-chatbot-be/pkg/store"
)

type ISettingsService interface {
	Get(session *store.SessionContext) (*dto.SettingsResponse, error)
	Update(session *store.SessionContext, req *dto.UpdateSettingsRequest) (*dto.SettingsResponse, error)
}

type settingsService struct {
	sessionRepo *memory.SessionRepository
	logger      logger.ILogger
}

func NewSettingsService(sessionRepo *memory.SessionRepository, log logger.ILogger) ISettingsService {
	return &settingsService{
		sessionRepo: sessionRepo,
		logger:      log,
	}
}

func (s *settingsService) Get(session *store.SessionContext) (*dto.SettingsResponse, error) {
	if !session.Identity.IsLoggedIn {
		return nil, ErrNotLoggedIn
	}
	return toSettingsResponse(session.Settings), nil
}

func (s *settingsService) Update(session *store.SessionContext, req *dto.UpdateSettingsRequest) (*dto.SettingsResponse, error) {
	if !session.Identity.IsLoggedIn {
		return nil, ErrNotLoggedIn
	}

	// Changing the index or the model invalidates the provider conversation
	// token: it pairs with the retrieval scope it was created under. The
	// bucket only affects uploads, so it keeps the conversation alive.
	indexChanged := req.KnowledgeBaseID != session.Settings.KnowledgeBaseID ||
		req.DataSourceID != session.Settings.DataSourceID ||
		req.ModelID != session.Settings.ModelID

	session.Settings = store.RetrievalSettings{
		KnowledgeBaseID: req.KnowledgeBaseID,
		DataSourceID:    req.DataSourceID,
		BucketName:      req.BucketName,
		ModelID:         req.ModelID,
	}

	if indexChanged {
		session.ClearConversation()
		s.logger.Info("SettingsService", "Retrieval scope changed, conversation token cleared", map[string]interface{}{"session_id": session.ID})
	}

	s.sessionRepo.Save(session)
	return toSettingsResponse(session.Settings), nil
}

func toSettingsResponse(settings store.RetrievalSettings) *dto.SettingsResponse {
	return &dto.SettingsResponse{
		KnowledgeBaseID: settings.KnowledgeBaseID,
		DataSourceID:    settings.DataSourceID,
		BucketName:      settings.BucketName,
		ModelID:         settings.ModelID,
	}
}
