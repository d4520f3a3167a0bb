package handlers

import (
    "net/http"

    "github.com/gin-gonic/gin"

    "github.com/local/vibedoc/internal/service"
)

type DocumentHandler struct {
    svc      *service.DocumentService
    maxBytes int64
}

func NewDocumentHandler(svc *service.DocumentService, maxBytes int64) *DocumentHandler {
    return &DocumentHandler{svc: svc, maxBytes: maxBytes}
}

// UploadDocument godoc
// @Summary Attach an additional context document to a project
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Project ID"
// @Param file formData file true "PDF file"
// @Success 201 {object} models.AdditionalDocument
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/projects/{id}/documents [post]
func (h *DocumentHandler) UploadDocument(c *gin.Context) {
    id, ok := parseID(c, "id")
    if !ok { return }
    up, err := readUpload(c, h.maxBytes)
    if err != nil { respondError(c, err); return }
    doc, err := h.svc.Upload(c.Request.Context(), id, up)
    if err != nil { respondError(c, err); return }
    c.JSON(http.StatusCreated, doc)
}

// ListDocuments godoc
// @Summary List a project's additional documents
// @Tags documents
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {array} models.AdditionalDocument
// @Failure 404 {object} ErrorResponse
// @Router /api/projects/{id}/documents [get]
func (h *DocumentHandler) ListDocuments(c *gin.Context) {
    id, ok := parseID(c, "id")
    if !ok { return }
    docs, err := h.svc.List(c.Request.Context(), id)
    if err != nil { respondError(c, err); return }
    c.JSON(http.StatusOK, docs)
}

// DeleteDocument godoc
// @Summary Remove an additional document
// @Tags documents
// @Param id path int true "Document ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /api/documents/{id} [delete]
func (h *DocumentHandler) DeleteDocument(c *gin.Context) {
    id, ok := parseID(c, "id")
    if !ok { return }
    if err := h.svc.Delete(c.Request.Context(), id); err != nil { respondError(c, err); return }
    c.Status(http.StatusNoContent)
}
