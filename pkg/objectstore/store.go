package objectstore

import (
	"context"
	"time"
)

// ObjectInfo describes a stored object without its payload.
type ObjectInfo struct {
	Key         string
	Size        int64
	ContentType string
	Metadata    map[string]string
	UpdatedAt   time.Time
}

// Object is a fetched object with its payload, for inline preview.
type Object struct {
	Key         string
	ContentType string
	Data        []byte
}

// Store defines the contract for the external object store holding the user
// documents that feed the knowledge base. The bucket is passed per call
// because it is one of the runtime-settable session parameters.
type Store interface {
	List(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error)
	Put(ctx context.Context, bucket, key string, data []byte, contentType string, metadata map[string]string) error
	Get(ctx context.Context, bucket, key string) (*Object, error)
	Delete(ctx context.Context, bucket, key string) error
}
