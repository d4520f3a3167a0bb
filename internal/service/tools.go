package service

import (
    "context"
    "fmt"
    "net/http"
    "strings"

    "github.com/local/vibedoc/internal/apperr"
    "github.com/local/vibedoc/internal/filetype"
    "github.com/local/vibedoc/internal/orchestrator"
    "github.com/local/vibedoc/internal/pdf"
    "github.com/local/vibedoc/internal/storage"
)

// ToolService runs text and field extraction against an arbitrary hosted PDF.
// With a remote API configured the URL is passed through; otherwise the file
// is downloaded and read in-process.
type ToolService struct {
    client     *http.Client
    extractor  pdf.TextExtractor
    remoteText orchestrator.RemoteTextAPI
    remoteFlds orchestrator.RemoteFieldAPI
}

type ToolOptions struct {
    Client     *http.Client
    Extractor  pdf.TextExtractor
    RemoteText orchestrator.RemoteTextAPI
    RemoteFlds orchestrator.RemoteFieldAPI
}

func NewToolService(opts ToolOptions) *ToolService {
    return &ToolService{client: opts.Client, extractor: opts.Extractor, remoteText: opts.RemoteText, remoteFlds: opts.RemoteFlds}
}

func (s *ToolService) ExtractText(ctx context.Context, fileURL string) (string, error) {
    if err := checkURL(fileURL); err != nil { return "", err }
    if s.remoteText != nil {
        return s.remoteText.ConvertToText(ctx, fileURL)
    }
    data, err := s.download(ctx, fileURL)
    if err != nil { return "", err }
    if s.extractor == nil { return "", fmt.Errorf("no text extractor configured") }
    return s.extractor.ExtractText(ctx, data)
}

func (s *ToolService) ListFields(ctx context.Context, fileURL string) ([]pdf.FieldDescriptor, error) {
    if err := checkURL(fileURL); err != nil { return nil, err }
    if s.remoteFlds != nil {
        return s.remoteFlds.FetchFields(ctx, fileURL)
    }
    data, err := s.download(ctx, fileURL)
    if err != nil { return nil, err }
    return pdf.ListFields(data)
}

func (s *ToolService) download(ctx context.Context, fileURL string) ([]byte, error) {
    data, err := storage.FetchURL(ctx, s.client, fileURL)
    if err != nil { return nil, err }
    if err := filetype.RequirePDF("fileUrl", data); err != nil { return nil, err }
    return data, nil
}

func checkURL(u string) error {
    u = strings.TrimSpace(u)
    if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
        return apperr.Invalid("fileUrl", "must be an http(s) url")
    }
    return nil
}
