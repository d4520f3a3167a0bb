package orchestrator

import (
    "context"
    "fmt"

    "github.com/local/vibedoc/internal/pdf"
    "github.com/local/vibedoc/internal/storage"
)

// FileRef points at one stored PDF both ways: by storage key for local
// processing and by public URL for remote APIs.
type FileRef struct {
    CloudName string
    URL       string
}

// FieldFetcher lists the AcroForm fields of a stored PDF.
type FieldFetcher interface {
    FetchFields(ctx context.Context, ref FileRef) ([]pdf.FieldDescriptor, error)
}

// TextSource returns the plain text of a stored PDF.
type TextSource interface {
    TextFor(ctx context.Context, ref FileRef) (string, error)
}

// RemoteFieldAPI and RemoteTextAPI are satisfied by *pdfco.Client.
type RemoteFieldAPI interface {
    FetchFields(ctx context.Context, fileURL string) ([]pdf.FieldDescriptor, error)
}

type RemoteTextAPI interface {
    ConvertToText(ctx context.Context, fileURL string) (string, error)
}

type RemoteFields struct{ API RemoteFieldAPI }

func (r RemoteFields) FetchFields(ctx context.Context, ref FileRef) ([]pdf.FieldDescriptor, error) {
    return r.API.FetchFields(ctx, ref.URL)
}

type RemoteText struct{ API RemoteTextAPI }

func (r RemoteText) TextFor(ctx context.Context, ref FileRef) (string, error) {
    return r.API.ConvertToText(ctx, ref.URL)
}

// LocalFields reads the template from the file store and walks its AcroForm.
type LocalFields struct{ Store storage.Store }

func (l LocalFields) FetchFields(ctx context.Context, ref FileRef) ([]pdf.FieldDescriptor, error) {
    data, err := l.Store.Get(ctx, ref.CloudName)
    if err != nil { return nil, fmt.Errorf("load %s: %w", ref.CloudName, err) }
    return pdf.ListFields(data)
}

// LocalText reads the file from the file store and runs an in-process extractor.
type LocalText struct {
    Store     storage.Store
    Extractor pdf.TextExtractor
}

func (l LocalText) TextFor(ctx context.Context, ref FileRef) (string, error) {
    data, err := l.Store.Get(ctx, ref.CloudName)
    if err != nil { return "", fmt.Errorf("load %s: %w", ref.CloudName, err) }
    return l.Extractor.ExtractText(ctx, data)
}
