package interfaces

import (
	"context"
	"io"
)

// BlobStore keeps attachment content. The returned reference is opaque to callers.
type BlobStore interface {
	Put(ctx context.Context, name, contentType string, r io.Reader) (string, error)
	Get(ctx context.Context, ref string) (io.ReadCloser, error)
}
