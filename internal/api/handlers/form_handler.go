package handlers

import (
    "mime"
    "net/http"
    "strconv"

    "github.com/gin-gonic/gin"

    "github.com/local/vibedoc/internal/apperr"
    "github.com/local/vibedoc/internal/fill"
    "github.com/local/vibedoc/internal/service"
)

type FormHandler struct {
    svc      *service.FormService
    filler   *fill.Service
    maxBytes int64
    queued   bool
}

func NewFormHandler(svc *service.FormService, filler *fill.Service, maxBytes int64, queued bool) *FormHandler {
    return &FormHandler{svc: svc, filler: filler, maxBytes: maxBytes, queued: queued}
}

type DownloadURLResponse struct {
    DownloadURL string `json:"downloadUrl"`
}

func (h *FormHandler) createdStatus() int {
    if h.queued { return http.StatusAccepted }
    return http.StatusCreated
}

// UploadForm godoc
// @Summary Upload a fillable PDF and run field enrichment on it
// @Description In queue mode the form is returned immediately with no inputs and status 202.
// @Tags forms
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Project ID"
// @Param file formData file true "PDF form"
// @Param name formData string false "Display name, defaults to the file name"
// @Success 201 {object} models.Form
// @Success 202 {object} models.Form
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /api/projects/{id}/forms [post]
func (h *FormHandler) UploadForm(c *gin.Context) {
    id, ok := parseID(c, "id")
    if !ok { return }
    up, err := readUpload(c, h.maxBytes)
    if err != nil { respondError(c, err); return }
    form, err := h.svc.Upload(c.Request.Context(), id, c.PostForm("name"), up)
    if err != nil {
        body := ErrorResponse{}
        if form != nil { body.FormID = form.ID }
        respondErrorWith(c, err, body)
        return
    }
    c.JSON(h.createdStatus(), form)
}

// GetForm godoc
// @Summary Get a form with its inputs and parent project
// @Tags forms
// @Produce json
// @Param id path int true "Form ID"
// @Success 200 {object} service.FormDetail
// @Failure 404 {object} ErrorResponse
// @Router /api/forms/{id} [get]
func (h *FormHandler) GetForm(c *gin.Context) {
    id, ok := parseID(c, "id")
    if !ok { return }
    f, err := h.svc.Get(c.Request.Context(), id)
    if err != nil { respondError(c, err); return }
    c.JSON(http.StatusOK, f)
}

// ReprocessForm godoc
// @Summary Rerun enrichment for a form that has no inputs
// @Tags forms
// @Produce json
// @Param id path int true "Form ID"
// @Success 200 {object} models.Form
// @Success 202 {object} models.Form
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/forms/{id}/reprocess [post]
func (h *FormHandler) ReprocessForm(c *gin.Context) {
    id, ok := parseID(c, "id")
    if !ok { return }
    f, err := h.svc.Reprocess(c.Request.Context(), id)
    if err != nil { respondErrorWith(c, err, ErrorResponse{FormID: id}); return }
    if h.queued { c.JSON(http.StatusAccepted, f); return }
    c.JSON(http.StatusOK, f)
}

// FormStatus godoc
// @Summary Last recorded pipeline stage of a form
// @Tags forms
// @Produce json
// @Param id path int true "Form ID"
// @Success 200 {object} orchestrator.Status
// @Failure 404 {object} ErrorResponse
// @Router /api/forms/{id}/status [get]
func (h *FormHandler) FormStatus(c *gin.Context) {
    id, ok := parseID(c, "id")
    if !ok { return }
    st, err := h.svc.Status(c.Request.Context(), id)
    if err != nil { respondError(c, err); return }
    c.JSON(http.StatusOK, st)
}

// DownloadFilled godoc
// @Summary Fill the form with its current input values
// @Description strategy=local streams the PDF; strategy=remote returns a download URL.
// @Tags forms
// @Produce application/pdf
// @Produce json
// @Param id path int true "Form ID"
// @Param strategy query string false "local or remote" default(local)
// @Param flatten query bool false "Flatten fields (local only)"
// @Success 200 {file} file
// @Success 200 {object} DownloadURLResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /api/forms/{id}/download [get]
func (h *FormHandler) DownloadFilled(c *gin.Context) {
    id, ok := parseID(c, "id")
    if !ok { return }
    strategy, err := fill.ParseStrategy(c.Query("strategy"))
    if err != nil { respondError(c, err); return }
    flatten := false
    if v := c.Query("flatten"); v != "" {
        flatten, err = strconv.ParseBool(v)
        if err != nil { respondError(c, apperr.Invalid("flatten", "must be a boolean")); return }
    }
    res, err := h.filler.FillForm(c.Request.Context(), id, strategy, flatten)
    if err != nil { respondError(c, err); return }

    if res.Strategy == fill.StrategyRemote {
        c.JSON(http.StatusOK, DownloadURLResponse{DownloadURL: res.DownloadURL})
        return
    }
    c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": res.FileName}))
    c.Header("X-Fields-Applied", strconv.Itoa(res.Report.Applied))
    c.Header("X-Fields-Skipped", strconv.Itoa(res.Report.Skipped))
    c.Data(http.StatusOK, "application/pdf", res.PDF)
}
