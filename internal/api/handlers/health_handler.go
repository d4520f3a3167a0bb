package handlers

import (
    "net/http"

    "github.com/gin-gonic/gin"

    "github.com/local/vibedoc/internal/statuscheck"
)

type HealthHandler struct {
    checker *statuscheck.Checker
}

func NewHealthHandler(checker *statuscheck.Checker) *HealthHandler {
    return &HealthHandler{checker: checker}
}

// Health godoc
// @Summary Liveness check
// @Tags system
// @Produce json
// @Success 200 {object} MessageResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
    c.JSON(http.StatusOK, MessageResponse{Message: "ok"})
}

// Ready godoc
// @Summary Readiness of the database, file store, Redis and remote APIs
// @Tags system
// @Produce json
// @Success 200 {object} statuscheck.Summary
// @Failure 503 {object} statuscheck.Summary
// @Router /ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
    s := h.checker.Summary(c.Request.Context())
    code := http.StatusOK
    if !s.Ready { code = http.StatusServiceUnavailable }
    c.JSON(code, s)
}
