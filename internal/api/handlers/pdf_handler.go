package handlers

import (
    "net/http"

    "github.com/gin-gonic/gin"

    "github.com/local/vibedoc/internal/apperr"
    "github.com/local/vibedoc/internal/fill"
    "github.com/local/vibedoc/internal/models"
    "github.com/local/vibedoc/internal/pdf"
    "github.com/local/vibedoc/internal/service"
)

// PDFHandler exposes fill and extraction for PDFs that are not stored forms.
type PDFHandler struct {
    tools  *service.ToolService
    filler *fill.Service
}

func NewPDFHandler(tools *service.ToolService, filler *fill.Service) *PDFHandler {
    return &PDFHandler{tools: tools, filler: filler}
}

type FileURLRequest struct {
    FileURL string `json:"fileUrl" binding:"required"`
}

type TextResponse struct {
    Text string `json:"text"`
}

type FieldsResponse struct {
    Fields []pdf.FieldDescriptor `json:"fields"`
}

type FillInput struct {
    PdfElementID string           `json:"pdfElementId" binding:"required"`
    Value        models.Value     `json:"value"`
    Type         models.InputType `json:"type" binding:"required"`
}

type FillURLRequest struct {
    SourceURL string      `json:"sourceUrl" binding:"required"`
    Inputs    []FillInput `json:"inputs" binding:"dive"`
}

// ExtractText godoc
// @Summary Extract the text of a hosted PDF
// @Tags pdf
// @Accept json
// @Produce json
// @Param body body FileURLRequest true "File"
// @Success 200 {object} TextResponse
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /api/pdf/text [post]
func (h *PDFHandler) ExtractText(c *gin.Context) {
    var req FileURLRequest
    if err := c.ShouldBindJSON(&req); err != nil { bindError(c, err); return }
    txt, err := h.tools.ExtractText(c.Request.Context(), req.FileURL)
    if err != nil { respondError(c, err); return }
    c.JSON(http.StatusOK, TextResponse{Text: txt})
}

// ListFields godoc
// @Summary List the form fields of a hosted PDF
// @Tags pdf
// @Accept json
// @Produce json
// @Param body body FileURLRequest true "File"
// @Success 200 {object} FieldsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /api/pdf/fields [post]
func (h *PDFHandler) ListFields(c *gin.Context) {
    var req FileURLRequest
    if err := c.ShouldBindJSON(&req); err != nil { bindError(c, err); return }
    fields, err := h.tools.ListFields(c.Request.Context(), req.FileURL)
    if err != nil { respondError(c, err); return }
    if fields == nil { fields = []pdf.FieldDescriptor{} }
    c.JSON(http.StatusOK, FieldsResponse{Fields: fields})
}

// FillURL godoc
// @Summary Fill a hosted PDF through the remote fill API
// @Description Checkbox values are written as "X" when checked and left empty otherwise.
// @Tags pdf
// @Accept json
// @Produce json
// @Param body body FillURLRequest true "Source and values"
// @Success 200 {object} DownloadURLResponse
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /api/pdf/fill [post]
func (h *PDFHandler) FillURL(c *gin.Context) {
    var req FillURLRequest
    if err := c.ShouldBindJSON(&req); err != nil { bindError(c, err); return }
    inputs := make([]models.Input, 0, len(req.Inputs))
    for _, in := range req.Inputs {
        if !in.Type.Valid() {
            respondError(c, apperr.Invalid("type", "unknown input type %q", in.Type))
            return
        }
        inputs = append(inputs, models.Input{PdfElementID: in.PdfElementID, Type: in.Type, Value: in.Value.As(in.Type)})
    }
    url, err := h.filler.FillURL(c.Request.Context(), req.SourceURL, inputs)
    if err != nil { respondError(c, err); return }
    c.JSON(http.StatusOK, DownloadURLResponse{DownloadURL: url})
}
