package storage

import (
    "context"
    "fmt"
    "io"

    "github.com/minio/minio-go/v7"
    "github.com/minio/minio-go/v7/pkg/credentials"
    "github.com/rs/zerolog/log"

    "github.com/local/vibedoc/internal/apperr"
    "github.com/local/vibedoc/internal/config"
)

// MinioStore stores files in a MinIO (or any S3-compatible) bucket.
type MinioStore struct {
    client *minio.Client
    bucket string
}

// NewMinioStore connects and creates the bucket when it does not exist yet.
func NewMinioStore(ctx context.Context, cfg config.StorageConfig) (*MinioStore, error) {
    client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
        Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
        Secure: cfg.MinioUseSSL,
    })
    if err != nil {
        return nil, fmt.Errorf("minio client: %w", err)
    }

    exists, err := client.BucketExists(ctx, cfg.Bucket)
    if err != nil {
        return nil, fmt.Errorf("minio bucket check: %w", err)
    }
    if !exists {
        if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
            return nil, fmt.Errorf("minio make bucket: %w", err)
        }
        log.Info().Str("bucket", cfg.Bucket).Msg("created minio bucket")
    }
    return &MinioStore{client: client, bucket: cfg.Bucket}, nil
}

func (m *MinioStore) Put(ctx context.Context, key, contentType string, r io.Reader, size int64) error {
    if size <= 0 {
        size = -1
    }
    info, err := m.client.PutObject(ctx, m.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
    if err != nil {
        return fmt.Errorf("minio put %s: %w", key, err)
    }
    log.Info().Str("key", key).Int64("size", info.Size).Msg("uploaded file to minio")
    return nil
}

func (m *MinioStore) Get(ctx context.Context, key string) ([]byte, error) {
    obj, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
    if err != nil {
        return nil, fmt.Errorf("minio get %s: %w", key, err)
    }
    defer obj.Close()
    b, err := io.ReadAll(obj)
    if minio.ToErrorResponse(err).Code == "NoSuchKey" { return nil, apperr.NotFound("file", key) }
    if err != nil {
        return nil, fmt.Errorf("minio read %s: %w", key, err)
    }
    return b, nil
}

func (m *MinioStore) Ping(ctx context.Context) error {
    _, err := m.client.BucketExists(ctx, m.bucket)
    return err
}
