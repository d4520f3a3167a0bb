package filetype

import (
    "fmt"
    "strings"

    "github.com/gabriel-vasile/mimetype"
    "github.com/rs/zerolog/log"

    "github.com/local/vibedoc/internal/apperr"
)

const PDF = "application/pdf"

// FileTypeInfo contains detected file type information
type FileTypeInfo struct {
    MIMEType    string
    Extension   string
    Supported   bool
    Description string
}

// Detect detects the actual file type using magic bytes, not the client supplied name or header
func Detect(data []byte) *FileTypeInfo {
    mtype := mimetype.Detect(data)
    info := &FileTypeInfo{
        MIMEType:  mtype.String(),
        Extension: mtype.Extension(),
    }
    // mimetype appends parameters for some text types
    if i := strings.Index(info.MIMEType, ";"); i >= 0 {
        info.MIMEType = strings.TrimSpace(info.MIMEType[:i])
    }
    classify(info)
    log.Debug().Str("mime", info.MIMEType).Str("ext", info.Extension).Msg("detected file type")
    return info
}

func classify(info *FileTypeInfo) {
    switch info.MIMEType {
    case PDF:
        info.Supported = true
        info.Description = "PDF document"
    default:
        info.Supported = false
        info.Description = fmt.Sprintf("Unsupported file type: %s", info.MIMEType)
    }
}

// RequirePDF returns a validation error unless data starts like a PDF.
func RequirePDF(field string, data []byte) error {
    info := Detect(data)
    if !info.Supported {
        return apperr.Invalid(field, "only PDF files are accepted, got %s", info.MIMEType)
    }
    return nil
}
