package handlers

import (
    "net/http"

    "github.com/gin-gonic/gin"

    "github.com/local/vibedoc/internal/models"
    "github.com/local/vibedoc/internal/service"
)

type InputHandler struct {
    svc *service.InputService
}

func NewInputHandler(svc *service.InputService) *InputHandler {
    return &InputHandler{svc: svc}
}

type UpdateValueRequest struct {
    Value models.Value `json:"value"`
}

type UpdateManyRequest struct {
    Inputs []service.InputUpdate `json:"inputs" binding:"required,dive"`
}

// UpdateValue godoc
// @Summary Set the value of one input
// @Description The value must be a boolean for CHECKBOX inputs and a string otherwise.
// @Tags inputs
// @Accept json
// @Produce json
// @Param id path int true "Input ID"
// @Param body body UpdateValueRequest true "Value"
// @Success 200 {object} models.Input
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/inputs/{id} [patch]
func (h *InputHandler) UpdateValue(c *gin.Context) {
    id, ok := parseID(c, "id")
    if !ok { return }
    var req UpdateValueRequest
    if err := c.ShouldBindJSON(&req); err != nil { bindError(c, err); return }
    in, err := h.svc.UpdateValue(c.Request.Context(), id, req.Value)
    if err != nil { respondError(c, err); return }
    c.JSON(http.StatusOK, in)
}

// UpdateMany godoc
// @Summary Set the values of several inputs at once
// @Tags inputs
// @Accept json
// @Produce json
// @Param body body UpdateManyRequest true "Updates"
// @Success 200 {array} models.Input
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/inputs [patch]
func (h *InputHandler) UpdateMany(c *gin.Context) {
    var req UpdateManyRequest
    if err := c.ShouldBindJSON(&req); err != nil { bindError(c, err); return }
    out, err := h.svc.UpdateMany(c.Request.Context(), req.Inputs)
    if err != nil { respondError(c, err); return }
    c.JSON(http.StatusOK, out)
}
