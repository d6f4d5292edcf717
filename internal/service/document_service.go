// FILE: internal/service/document_service.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"contextual-chatbot-be/internal/constant"
	"contextual-chatbot-be/internal/dto"
	"contextual-chatbot-be/internal/pkg/logger"
	"contextual-chatbot-be/pkg/events"
	"contextual-chatbot-be/pkg/objectstore"
	"contextual-chatbot-be/pkg/store"

	pktNats "contextual-chatbot-be/pkg/nats"
)

type IDocumentService interface {
	List(ctx context.Context, session *store.SessionContext) ([]dto.DocumentResponse, error)
	Upload(ctx context.Context, session *store.SessionContext, name string, data []byte, contentType string) (*dto.DocumentResponse, error)
	GetContent(ctx context.Context, session *store.SessionContext, name string) (*objectstore.Object, error)
	Delete(ctx context.Context, session *store.SessionContext, name string) error
}

type documentService struct {
	store   objectstore.Store
	natsPub *pktNats.Publisher
	logger  logger.ILogger
}

func NewDocumentService(st objectstore.Store, natsPub *pktNats.Publisher, log logger.ILogger) IDocumentService {
	return &documentService{
		store:   st,
		natsPub: natsPub,
		logger:  log,
	}
}

// ownerKey builds the object key for a caller's document. Every key lives
// under the caller's own prefix; a name that would escape it is rejected
// here, before any store call is made.
func ownerKey(session *store.SessionContext, name string) (string, error) {
	if !session.Identity.IsLoggedIn || session.Identity.UserName == "" {
		return "", ErrNotLoggedIn
	}
	if name == "" || strings.Contains(name, "/") || strings.Contains(name, "\\") || strings.Contains(name, "..") {
		return "", fmt.Errorf("%w: invalid document name %q", ErrOwnershipViolation, name)
	}
	return session.Identity.UserName + "/" + name, nil
}

func requireBucket(session *store.SessionContext) (string, error) {
	if session.Settings.BucketName == "" {
		return "", ErrSettingsIncomplete
	}
	return session.Settings.BucketName, nil
}

func (s *documentService) List(ctx context.Context, session *store.SessionContext) ([]dto.DocumentResponse, error) {
	if !session.Identity.IsLoggedIn {
		return nil, ErrNotLoggedIn
	}
	bucket, err := requireBucket(session)
	if err != nil {
		return nil, err
	}

	prefix := session.Identity.UserName + "/"
	objects, err := s.store.List(ctx, bucket, prefix)
	if err != nil {
		return nil, err
	}

	docs := make([]dto.DocumentResponse, 0, len(objects))
	for _, obj := range objects {
		// Metadata sidecars are implementation detail, never listed.
		if strings.HasSuffix(obj.Key, constant.MetadataSidecarSuffix) {
			continue
		}
		docs = append(docs, dto.DocumentResponse{
			Name:        strings.TrimPrefix(obj.Key, prefix),
			Size:        obj.Size,
			ContentType: obj.ContentType,
			UpdatedAt:   obj.UpdatedAt,
		})
	}
	return docs, nil
}

func (s *documentService) Upload(ctx context.Context, session *store.SessionContext, name string, data []byte, contentType string) (*dto.DocumentResponse, error) {
	bucket, err := requireBucket(session)
	if err != nil {
		return nil, err
	}
	key, err := ownerKey(session, name)
	if err != nil {
		return nil, err
	}
	owner := session.Identity.UserName

	docMetadata := map[string]string{constant.OwnerMetadataKey: owner}
	if err := s.store.Put(ctx, bucket, key, data, contentType, docMetadata); err != nil {
		return nil, err
	}

	// The sidecar is what scopes retrieval to the owner. A document without
	// it would leak into other users' answers after the next sync, so a
	// failed sidecar write rolls the upload back.
	sidecar, _ := json.Marshal(map[string]interface{}{
		"metadataAttributes": map[string]string{constant.OwnerMetadataKey: owner},
	})
	sidecarKey := key + constant.MetadataSidecarSuffix
	if err := s.store.Put(ctx, bucket, sidecarKey, sidecar, "application/json", nil); err != nil {
		s.logger.Error("DocumentService", "Sidecar write failed, rolling back upload", map[string]interface{}{"key": key, "error": err.Error()})
		if delErr := s.store.Delete(ctx, bucket, key); delErr != nil {
			s.logger.Error("DocumentService", "Rollback delete failed, document left without sidecar", map[string]interface{}{"key": key, "error": delErr.Error()})
		}
		return nil, err
	}

	s.logger.Info("DocumentService", "Document uploaded", map[string]interface{}{"key": key, "size": len(data)})

	if s.natsPub != nil {
		if err := s.natsPub.Publish(ctx, events.NewDocumentUploaded(key, owner)); err != nil {
			s.logger.Warn("DocumentService", "Failed to publish upload event", map[string]interface{}{"error": err.Error()})
		}
	}

	return &dto.DocumentResponse{
		Name:        name,
		Size:        int64(len(data)),
		ContentType: contentType,
	}, nil
}

func (s *documentService) GetContent(ctx context.Context, session *store.SessionContext, name string) (*objectstore.Object, error) {
	bucket, err := requireBucket(session)
	if err != nil {
		return nil, err
	}
	key, err := ownerKey(session, name)
	if err != nil {
		return nil, err
	}
	return s.store.Get(ctx, bucket, key)
}

func (s *documentService) Delete(ctx context.Context, session *store.SessionContext, name string) error {
	bucket, err := requireBucket(session)
	if err != nil {
		return err
	}
	key, err := ownerKey(session, name)
	if err != nil {
		return err
	}
	owner := session.Identity.UserName

	if err := s.store.Delete(ctx, bucket, key); err != nil {
		return err
	}

	// Best effort: an orphaned sidecar is harmless (nothing left for it to
	// scope) and the next upload under the same name overwrites it.
	sidecarKey := key + constant.MetadataSidecarSuffix
	if err := s.store.Delete(ctx, bucket, sidecarKey); err != nil {
		s.logger.Warn("DocumentService", "Sidecar delete failed", map[string]interface{}{"key": sidecarKey, "error": err.Error()})
	}

	s.logger.Info("DocumentService", "Document deleted", map[string]interface{}{"key": key})

	if s.natsPub != nil {
		if err := s.natsPub.Publish(ctx, events.NewDocumentDeleted(key, owner)); err != nil {
			s.logger.Warn("DocumentService", "Failed to publish delete event", map[string]interface{}{"error": err.Error()})
		}
	}

	return nil
}
