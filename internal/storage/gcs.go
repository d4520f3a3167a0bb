package storage

import (
    "context"
    "errors"
    "fmt"
    "io"

    gcs "cloud.google.com/go/storage"
    "github.com/rs/zerolog/log"
    "google.golang.org/api/option"

    "github.com/local/vibedoc/internal/apperr"
    "github.com/local/vibedoc/internal/config"
)

// GCSStore stores files in a Google Cloud Storage bucket.
type GCSStore struct {
    client *gcs.Client
    bucket string
}

func NewGCSStore(ctx context.Context, cfg config.StorageConfig) (*GCSStore, error) {
    var opts []option.ClientOption
    if cfg.GCSCredentialsFile != "" {
        opts = append(opts, option.WithCredentialsFile(cfg.GCSCredentialsFile))
    }
    client, err := gcs.NewClient(ctx, opts...)
    if err != nil {
        return nil, fmt.Errorf("gcs client: %w", err)
    }
    return &GCSStore{client: client, bucket: cfg.Bucket}, nil
}

func (g *GCSStore) Put(ctx context.Context, key, contentType string, r io.Reader, size int64) error {
    w := g.client.Bucket(g.bucket).Object(key).NewWriter(ctx)
    w.ContentType = contentType
    if _, err := io.Copy(w, r); err != nil {
        _ = w.Close()
        return fmt.Errorf("gcs write %s: %w", key, err)
    }
    if err := w.Close(); err != nil {
        return fmt.Errorf("gcs close %s: %w", key, err)
    }
    log.Info().Str("key", key).Int64("size", size).Msg("uploaded file to gcs")
    return nil
}

func (g *GCSStore) Get(ctx context.Context, key string) ([]byte, error) {
    rd, err := g.client.Bucket(g.bucket).Object(key).NewReader(ctx)
    if errors.Is(err, gcs.ErrObjectNotExist) { return nil, apperr.NotFound("file", key) }
    if err != nil {
        return nil, fmt.Errorf("gcs open %s: %w", key, err)
    }
    defer rd.Close()
    return io.ReadAll(rd)
}

func (g *GCSStore) Ping(ctx context.Context) error {
    _, err := g.client.Bucket(g.bucket).Attrs(ctx)
    return err
}
