package handlers

import (
    "strconv"

    "github.com/gin-gonic/gin"
    "github.com/rs/zerolog/log"

    "github.com/local/vibedoc/internal/apperr"
)

// ErrorResponse is the body of every failed request. Error is the raw message
// so the client can show it as is.
type ErrorResponse struct {
    Error  string `json:"error"`
    FormID uint   `json:"formId,omitempty"`
}

type MessageResponse struct {
    Message string `json:"message"`
}

func respondError(c *gin.Context, err error) {
    respondErrorWith(c, err, ErrorResponse{})
}

func respondErrorWith(c *gin.Context, err error, body ErrorResponse) {
    status := apperr.HTTPStatus(err)
    ev := log.Warn()
    if status >= 500 { ev = log.Error() }
    ev.Err(err).Int("status", status).Str("method", c.Request.Method).Str("route", c.FullPath()).Msg("request failed")
    body.Error = err.Error()
    c.AbortWithStatusJSON(status, body)
}

func parseID(c *gin.Context, name string) (uint, bool) {
    id, err := strconv.ParseUint(c.Param(name), 10, 32)
    if err != nil || id == 0 {
        respondError(c, apperr.Invalid(name, "invalid id %q", c.Param(name)))
        return 0, false
    }
    return uint(id), true
}

func bindError(c *gin.Context, err error) {
    respondError(c, apperr.Invalid("", "%s", err.Error()))
}
