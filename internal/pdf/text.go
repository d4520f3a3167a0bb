package pdf

import (
    "bytes"
    "context"
    "errors"
    "fmt"
    "io"
    "strings"

    fitz "github.com/gen2brain/go-fitz"
    lpdf "github.com/ledongthuc/pdf"
    "github.com/rs/zerolog/log"

    "github.com/local/vibedoc/internal/apperr"
)

// TextExtractor turns PDF bytes into plain text for all pages.
type TextExtractor interface {
    ExtractText(ctx context.Context, data []byte) (string, error)
}

// NewTextExtractor returns the local extractor registered under name.
func NewTextExtractor(name string) (TextExtractor, error) {
    switch name {
    case "ledongthuc":
        return LedongthucExtractor{}, nil
    case "fitz":
        return NewFitzExtractor(), nil
    default:
        return nil, fmt.Errorf("unknown text extractor %q", name)
    }
}

// LedongthucExtractor is a pure Go extractor.
type LedongthucExtractor struct{}

func (LedongthucExtractor) ExtractText(_ context.Context, data []byte) (text string, err error) {
    // the parser panics on some malformed inputs
    defer func() {
        if r := recover(); r != nil {
            text, err = "", &apperr.ExtractionError{Err: fmt.Errorf("parser panic: %v", r)}
        }
    }()

    reader, err := lpdf.NewReader(bytes.NewReader(data), int64(len(data)))
    if err != nil {
        return "", &apperr.ExtractionError{Err: err}
    }
    rd, err := reader.GetPlainText()
    if err != nil {
        return "", &apperr.ExtractionError{Err: err}
    }
    var b strings.Builder
    if _, err := io.Copy(&b, rd); err != nil {
        return "", &apperr.ExtractionError{Err: err}
    }
    return b.String(), nil
}

// Doc abstracts an opened PDF document for text extraction.
type Doc interface {
    NumPage() int
    Text(i int) (string, error)
    Close() error
}

// Opener abstracts opening PDF bytes into a Doc.
type Opener interface {
    Open(data []byte) (Doc, error)
}

type fitzOpener struct{}

func (fitzOpener) Open(data []byte) (Doc, error) {
    doc, err := fitz.NewFromMemory(data)
    if err != nil {
        return nil, err
    }
    return doc, nil
}

// FitzExtractor extracts text with MuPDF. Pages are joined with blank lines;
// a page that fails is logged and skipped.
type FitzExtractor struct {
    opener Opener
}

func NewFitzExtractor() *FitzExtractor { return &FitzExtractor{opener: fitzOpener{}} }

func (e *FitzExtractor) ExtractText(ctx context.Context, data []byte) (string, error) {
    if len(data) == 0 {
        return "", &apperr.ExtractionError{Err: errors.New("empty document")}
    }
    doc, err := e.opener.Open(data)
    if err != nil {
        return "", &apperr.ExtractionError{Err: err}
    }
    defer doc.Close()

    var result strings.Builder
    for i := 0; i < doc.NumPage(); i++ {
        if err := ctx.Err(); err != nil {
            return "", err
        }
        text, err := doc.Text(i)
        if err != nil {
            log.Warn().Err(err).Int("page", i+1).Msg("failed to extract text from page")
            continue
        }
        if result.Len() > 0 {
            result.WriteString("\n\n")
        }
        result.WriteString(text)
    }
    log.Debug().Int("pages", doc.NumPage()).Int("chars", result.Len()).Msg("extracted text with go-fitz")
    return result.String(), nil
}
