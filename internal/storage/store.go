package storage

import (
    "context"
    "fmt"
    "io"
    "path"
    "regexp"
    "strings"

    "github.com/google/uuid"

    "github.com/local/vibedoc/internal/config"
)

// Store persists uploaded files by key (the cloud name).
type Store interface {
    Put(ctx context.Context, key, contentType string, r io.Reader, size int64) error
    Get(ctx context.Context, key string) ([]byte, error)
    Ping(ctx context.Context) error
}

// New builds the backend selected by cfg.Backend.
func New(ctx context.Context, cfg config.StorageConfig) (Store, error) {
    switch cfg.Backend {
    case "s3", "":
        return NewS3Client(ctx, cfg.Bucket)
    case "minio":
        return NewMinioStore(ctx, cfg)
    case "gcs":
        return NewGCSStore(ctx, cfg)
    case "memory":
        return NewMemoryStore(), nil
    default:
        return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
    }
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// CloudName returns a unique storage key for an uploaded file name.
func CloudName(fileName string) string {
    base := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
    base = strings.Trim(unsafeName.ReplaceAllString(base, "_"), "_.")
    if base == "" {
        base = "file.pdf"
    }
    return uuid.NewString() + "-" + base
}

// PublicURL is the address third-party APIs use to fetch a stored file.
func PublicURL(baseURL, cloudName string) string {
    return strings.TrimRight(baseURL, "/") + "/f/" + cloudName
}
