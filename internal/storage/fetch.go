package storage

import (
    "context"
    "fmt"
    "io"
    "net/http"
    "time"

    "github.com/local/vibedoc/internal/apperr"
)

// maxFetchBytes caps remote downloads (PDF.co results, source URLs).
const maxFetchBytes = 64 << 20

// FetchURL downloads a remote file into memory.
func FetchURL(ctx context.Context, client *http.Client, url string) ([]byte, error) {
    if client == nil {
        client = &http.Client{Timeout: 60 * time.Second}
    }
    req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
    if err != nil { return nil, apperr.Invalid("url", "invalid url: %v", err) }
    resp, err := client.Do(req)
    if err != nil { return nil, apperr.Remote("file host", 0, "%v", err) }
    defer resp.Body.Close()
    if resp.StatusCode != http.StatusOK {
        return nil, apperr.Remote("file host", resp.StatusCode, "download %s failed", url)
    }
    b, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes+1))
    if err != nil { return nil, fmt.Errorf("read %s: %w", url, err) }
    if len(b) > maxFetchBytes {
        return nil, apperr.Invalid("url", "file larger than %d bytes", maxFetchBytes)
    }
    return b, nil
}
