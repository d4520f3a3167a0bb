package handlers

import (
    "errors"
    "io"
    "net/http"

    "github.com/gin-gonic/gin"

    "github.com/local/vibedoc/internal/apperr"
    "github.com/local/vibedoc/internal/service"
)

// readUpload pulls the multipart "file" part into memory, capped at maxBytes.
func readUpload(c *gin.Context, maxBytes int64) (service.Upload, error) {
    if maxBytes > 0 {
        c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+1<<20)
    }
    fh, err := c.FormFile("file")
    if err != nil {
        var tooBig *http.MaxBytesError
        if errors.As(err, &tooBig) { return service.Upload{}, apperr.Invalid("file", "upload exceeds %d bytes", maxBytes) }
        return service.Upload{}, apperr.Invalid("file", "multipart field \"file\" is required")
    }
    if maxBytes > 0 && fh.Size > maxBytes {
        return service.Upload{}, apperr.Invalid("file", "upload exceeds %d bytes", maxBytes)
    }
    f, err := fh.Open()
    if err != nil { return service.Upload{}, err }
    defer f.Close()
    data, err := io.ReadAll(f)
    if err != nil { return service.Upload{}, err }
    return service.Upload{FileName: fh.Filename, Data: data}, nil
}
