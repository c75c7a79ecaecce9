package cache

import (
	"context"
	"crypto/rand"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// Uploader stores bytes somewhere durable and returns a stable public URL.
type Uploader interface {
	Upload(ctx context.Context, data []byte, filename string) (string, error)
}

// BlobFetcher downloads the raw bytes behind a URL.
type BlobFetcher interface {
	FetchRaw(ctx context.Context, url string) ([]byte, error)
}

// DirUploader writes blobs into a local directory that is served at BaseURL.
type DirUploader struct {
	Dir     string
	BaseURL string
}

var _ Uploader = (*DirUploader)(nil)

func NewDirUploader(dir, baseURL string) (*DirUploader, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create blob directory: %w", err)
	}
	return &DirUploader{Dir: dir, BaseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

// Upload writes data as {ulid}_{filename}. Names sort by upload time.
func (u *DirUploader) Upload(ctx context.Context, data []byte, filename string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	id, err := ulid.New(ulid.Timestamp(time.Now()), rand.Reader)
	if err != nil {
		return "", fmt.Errorf("failed to generate blob id: %w", err)
	}
	name := id.String() + "_" + filepath.Base(filename)

	if err := os.WriteFile(filepath.Join(u.Dir, name), data, 0644); err != nil {
		return "", fmt.Errorf("failed to write blob: %w", err)
	}
	return u.BaseURL + "/" + name, nil
}
