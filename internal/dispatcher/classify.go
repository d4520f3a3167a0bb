package dispatcher

import (
    "context"
    "errors"
    "net/http"
    "strings"

    "github.com/local/vibedoc/internal/ai"
    "github.com/local/vibedoc/internal/apperr"
)

const (
    classTransient = "transient"
    classFatal     = "fatal"
)

// classify labels a failed run. Transient failures are worth a manual
// reprocess later; fatal ones will fail again on the same file.
func classify(err error) string {
    if err == nil {
        return ""
    }
    if isTransientError(err) {
        return classTransient
    }
    return classFatal
}

func isTransientError(err error) bool {
    if ai.IsRateLimited(err) || errors.Is(err, context.DeadlineExceeded) {
        return true
    }
    // extraction, validation and missing rows repeat on retry
    if apperr.IsExtraction(err) || apperr.IsValidation(err) || apperr.IsNotFound(err) {
        return false
    }

    var remote *apperr.RemoteServiceError
    if errors.As(err, &remote) {
        // PDF.co reports some failures with error:true and no status
        return remote.StatusCode == 0 || remote.StatusCode >= 500 || remote.StatusCode == http.StatusTooManyRequests
    }

    // Network errors (connection issues, timeouts)
    errStr := strings.ToLower(err.Error())
    return strings.Contains(errStr, "connection refused") ||
        strings.Contains(errStr, "connection reset") ||
        strings.Contains(errStr, "timeout") ||
        strings.Contains(errStr, "eof")
}
