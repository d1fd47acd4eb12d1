package ports

import (
	"context"
	"io"
)

// BlobStore armazena as imagens dos posts.
// Delete de uma chave inexistente não é erro.
type BlobStore interface {
	Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}
