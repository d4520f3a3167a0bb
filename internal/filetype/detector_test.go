package filetype

import (
    "testing"

    "github.com/stretchr/testify/assert"

    "github.com/local/vibedoc/internal/apperr"
)

func TestDetect(t *testing.T) {
    info := Detect([]byte("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n1 0 obj\n<<>>\nendobj\n"))
    assert.Equal(t, PDF, info.MIMEType)
    assert.True(t, info.Supported)

    info = Detect([]byte("hello world"))
    assert.Equal(t, "text/plain", info.MIMEType)
    assert.False(t, info.Supported)
}

func TestRequirePDF(t *testing.T) {
    assert.NoError(t, RequirePDF("file", []byte("%PDF-1.4\n")))

    err := RequirePDF("file", []byte("\x89PNG\r\n\x1a\n"))
    assert.Error(t, err)
    assert.True(t, apperr.IsValidation(err))
}
