// Package gcs implements objectstore.Store on Google Cloud Storage.
package gcs

import (
	"context"
	"fmt"
	"io"
	"time"

	"contextual-chatbot-be/pkg/objectstore"
	"contextual-chatbot-be/pkg/provider"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

const callTimeout = 30 * time.Second

type Store struct {
	client *storage.Client
}

// New creates a GCS-backed store. credentialsFile may be empty, in which
// case application default credentials are used.
func New(ctx context.Context, credentialsFile string) (*Store, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &Store{client: client}, nil
}

func (s *Store) List(ctx context.Context, bucket, prefix string) ([]objectstore.ObjectInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	it := s.client.Bucket(bucket).Objects(ctx, &storage.Query{Prefix: prefix})

	var infos []objectstore.ObjectInfo
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, provider.Wrap("objectstore", "list "+prefix, err)
		}
		infos = append(infos, objectstore.ObjectInfo{
			Key:         attrs.Name,
			Size:        attrs.Size,
			ContentType: attrs.ContentType,
			Metadata:    attrs.Metadata,
			UpdatedAt:   attrs.Updated,
		})
	}
	return infos, nil
}

func (s *Store) Put(ctx context.Context, bucket, key string, data []byte, contentType string, metadata map[string]string) error {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	w := s.client.Bucket(bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	w.Metadata = metadata

	if _, err := w.Write(data); err != nil {
		w.Close()
		return provider.Wrap("objectstore", "put "+key, err)
	}
	if err := w.Close(); err != nil {
		return provider.Wrap("objectstore", "put "+key, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, bucket, key string) (*objectstore.Object, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	r, err := s.client.Bucket(bucket).Object(key).NewReader(ctx)
	if err != nil {
		return nil, provider.Wrap("objectstore", "get "+key, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, provider.Wrap("objectstore", "get "+key, err)
	}

	return &objectstore.Object{
		Key:         key,
		ContentType: r.Attrs.ContentType,
		Data:        data,
	}, nil
}

func (s *Store) Delete(ctx context.Context, bucket, key string) error {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	if err := s.client.Bucket(bucket).Object(key).Delete(ctx); err != nil {
		return provider.Wrap("objectstore", "delete "+key, err)
	}
	return nil
}

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}
