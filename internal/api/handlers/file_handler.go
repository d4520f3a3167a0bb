package handlers

import (
    "mime"
    "net/http"
    "strings"

    "github.com/gin-gonic/gin"

    "github.com/local/vibedoc/internal/apperr"
    "github.com/local/vibedoc/internal/filetype"
    "github.com/local/vibedoc/internal/storage"
)

// FileHandler serves stored files under the public URL handed to the remote PDF API.
type FileHandler struct {
    store storage.Store
}

func NewFileHandler(store storage.Store) *FileHandler {
    return &FileHandler{store: store}
}

// ServeFile godoc
// @Summary Download a stored file by its cloud name
// @Tags files
// @Produce application/pdf
// @Param cloudName path string true "Cloud name"
// @Success 200 {file} binary
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /f/{cloudName} [get]
func (h *FileHandler) ServeFile(c *gin.Context) {
    name := c.Param("cloudName")
    if name == "" || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
        respondError(c, apperr.Invalid("cloudName", "invalid file name %q", name))
        return
    }
    data, err := h.store.Get(c.Request.Context(), name)
    if err != nil { respondError(c, err); return }
    c.Header("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": name}))
    c.Data(http.StatusOK, filetype.Detect(data).MIMEType, data)
}
