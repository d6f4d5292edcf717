// FILE: internal/service/chatbot_service.go
package service

import (
	"context"
	"time"

	"contextual-chatbot-be/internal/constant"
	"contextual-chatbot-be/internal/dto"
	"contextual-chatbot-be/internal/pkg/logger"
	"contextual-chatbot-be/internal/repository/memory"
	"contextual-chatbot-be/pkg/knowledge"
	"contextual-chatbot-be/pkg/store"
)

type IChatbotService interface {
	// Ask runs one grounded conversation turn. The session is only mutated
	// after the provider answers: a failed turn leaves history and the
	// conversation token untouched.
	Ask(ctx context.Context, session *store.SessionContext, chat string) (*dto.SendChatResponse, error)

	// History returns the conversation so far, oldest first.
	History(session *store.SessionContext) ([]dto.ChatHistoryEntry, error)
}

type chatbotService struct {
	provider    knowledge.Provider
	sessionRepo *memory.SessionRepository
	logger      logger.ILogger
}

func NewChatbotService(provider knowledge.Provider, sessionRepo *memory.SessionRepository, log logger.ILogger) IChatbotService {
	return &chatbotService{
		provider:    provider,
		sessionRepo: sessionRepo,
		logger:      log,
	}
}

func (s *chatbotService) Ask(ctx context.Context, session *store.SessionContext, chat string) (*dto.SendChatResponse, error) {
	if !session.Identity.IsLoggedIn {
		return nil, ErrNotLoggedIn
	}
	if session.Settings.KnowledgeBaseID == "" || session.Settings.ModelID == "" {
		return nil, ErrSettingsIncomplete
	}

	userName := session.Identity.UserName

	// A conversation token is only continued for the identity that created
	// it. Any mismatch starts a fresh thread instead of leaking one user's
	// conversation state to another.
	token := session.SessionToken
	if token != "" && session.TokenOwner != userName {
		token = ""
	}

	resp, err := s.provider.RetrieveAndGenerate(ctx, &knowledge.RetrieveAndGenerateRequest{
		Query:           chat,
		KnowledgeBaseID: session.Settings.KnowledgeBaseID,
		ModelID:         session.Settings.ModelID,
		Filter: knowledge.RetrievalFilter{
			Key:   constant.OwnerMetadataKey,
			Value: userName,
		},
		NumberOfResults: constant.RetrievalResultCount,
		SessionToken:    token,
	})
	if err != nil {
		s.logger.Error("ChatbotService", "Retrieve and generate failed", map[string]interface{}{"user_name": userName, "error": err.Error()})
		return nil, err
	}

	citations := flattenCitations(resp.Citations)
	now := time.Now()

	session.Turns = append(session.Turns,
		store.ChatTurn{
			Role:      constant.ChatRoleUser,
			Text:      chat,
			CreatedAt: now,
		},
		store.ChatTurn{
			Role:      constant.ChatRoleAssistant,
			Text:      resp.OutputText,
			Citations: citations,
			CreatedAt: now,
		},
	)
	session.SessionToken = resp.SessionToken
	session.TokenOwner = userName
	s.sessionRepo.Save(session)

	return &dto.SendChatResponse{
		Reply:     resp.OutputText,
		Citations: citations,
		CreatedAt: now,
	}, nil
}

func (s *chatbotService) History(session *store.SessionContext) ([]dto.ChatHistoryEntry, error) {
	if !session.Identity.IsLoggedIn {
		return nil, ErrNotLoggedIn
	}

	history := make([]dto.ChatHistoryEntry, 0, len(session.Turns))
	for _, turn := range session.Turns {
		history = append(history, dto.ChatHistoryEntry{
			Role:      turn.Role,
			Chat:      turn.Text,
			Citations: turn.Citations,
			CreatedAt: turn.CreatedAt,
		})
	}
	return history, nil
}

// flattenCitations collapses the provider's nested citation groups into the
// flat list shown next to an answer.
func flattenCitations(groups []knowledge.CitationGroup) []store.Citation {
	var citations []store.Citation
	for _, group := range groups {
		for _, ref := range group.RetrievedReferences {
			citations = append(citations, store.Citation{
				SourceURI: ref.SourceURI,
				Page:      ref.PageNumber,
				Excerpt:   ref.Excerpt,
			})
		}
	}
	return citations
}
