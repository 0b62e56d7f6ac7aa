package storage

import (
	"context"
	"io"
)

// ObjectStorage is the service's view of the object store: put a blob, get a
// public URL back, delete by key. Nothing else about the provider leaks in.
type ObjectStorage interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
	Delete(ctx context.Context, key string) error
}
