package store

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"oficina-backend/internal/apperr"
)

// Bucket accepts named blobs and hands back a public URL.
type Bucket interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

// LocalBucket keeps uploads under Dir; the HTTP server serves Dir at PublicBaseURL.
type LocalBucket struct {
	Dir           string
	PublicBaseURL string
}

func NewLocalBucket(dir, publicBaseURL string) *LocalBucket {
	return &LocalBucket{Dir: dir, PublicBaseURL: strings.TrimRight(publicBaseURL, "/")}
}

func (b *LocalBucket) Upload(ctx context.Context, key, _ string, body io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", apperr.Upload("Envio cancelado", err)
	}
	clean := filepath.ToSlash(filepath.Clean(key))
	if key == "" || clean == "." || strings.HasPrefix(clean, "../") || clean == ".." || filepath.IsAbs(key) {
		return "", apperr.Upload("Nome de arquivo inválido", fmt.Errorf("key %q", key))
	}

	filePath := filepath.Join(b.Dir, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return "", apperr.Upload("Pasta de uploads não pôde ser criada", err)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return "", apperr.Upload("Arquivo não pôde ser criado", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, body); err != nil {
		_ = os.Remove(filePath)
		return "", apperr.Upload("Arquivo não pôde ser gravado", err)
	}

	return b.PublicBaseURL + "/" + clean, nil
}
