package storage

import (
    "bytes"
    "context"
    "errors"
    "fmt"
    "io"

    "github.com/aws/aws-sdk-go-v2/aws"
    awscfg "github.com/aws/aws-sdk-go-v2/config"
    "github.com/aws/aws-sdk-go-v2/feature/s3/manager"
    "github.com/aws/aws-sdk-go-v2/service/s3"
    s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
    "github.com/rs/zerolog/log"

    "github.com/local/vibedoc/internal/apperr"
)

// S3Client stores files in an S3 bucket
type S3Client struct {
    client     *s3.Client
    uploader   *manager.Uploader
    bucketName string
}

// NewS3Client creates a new S3 client from the default AWS credential chain
func NewS3Client(ctx context.Context, bucketName string) (*S3Client, error) {
    cfg, err := awscfg.LoadDefaultConfig(ctx)
    if err != nil {
        return nil, fmt.Errorf("failed to load AWS config: %w", err)
    }
    return newS3FromConfig(cfg, bucketName), nil
}

func newS3FromConfig(cfg aws.Config, bucketName string, optFns ...func(*s3.Options)) *S3Client {
    cli := s3.NewFromConfig(cfg, optFns...)
    return &S3Client{
        client:     cli,
        uploader:   manager.NewUploader(cli),
        bucketName: bucketName,
    }
}

// Put uploads r under key. Large bodies are sent as multipart uploads.
func (s *S3Client) Put(ctx context.Context, key, contentType string, r io.Reader, size int64) error {
    _, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
        Bucket:      aws.String(s.bucketName),
        Key:         aws.String(key),
        Body:        r,
        ContentType: aws.String(contentType),
    })
    if err != nil {
        log.Error().Err(err).Str("key", key).Msg("s3 upload failed")
        return fmt.Errorf("failed to upload to S3: %w", err)
    }
    log.Info().Str("key", key).Int64("size", size).Msg("uploaded file to S3")
    return nil
}

// Get downloads the object stored under key
func (s *S3Client) Get(ctx context.Context, key string) ([]byte, error) {
    result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
        Bucket: aws.String(s.bucketName),
        Key:    aws.String(key),
    })
    var noKey *s3types.NoSuchKey
    if errors.As(err, &noKey) { return nil, apperr.NotFound("file", key) }
    if err != nil {
        return nil, fmt.Errorf("failed to download from S3: %w", err)
    }
    defer result.Body.Close()

    var buf bytes.Buffer
    if result.ContentLength != nil && *result.ContentLength > 0 {
        buf.Grow(int(*result.ContentLength))
    }
    if _, err := io.Copy(&buf, result.Body); err != nil {
        return nil, fmt.Errorf("failed to read S3 object: %w", err)
    }
    log.Debug().Str("key", key).Int("size", buf.Len()).Msg("downloaded file from S3")
    return buf.Bytes(), nil
}

func (s *S3Client) Ping(ctx context.Context) error {
    _, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucketName)})
    return err
}
