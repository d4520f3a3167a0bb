package storage

import (
    "context"
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/local/vibedoc/internal/apperr"
)

func TestCloudName(t *testing.T) {
    a := CloudName("Intake Form (v2).pdf")
    b := CloudName("Intake Form (v2).pdf")
    assert.NotEqual(t, a, b)
    assert.True(t, strings.HasSuffix(a, "-Intake_Form_v2_.pdf"), a)

    assert.True(t, strings.HasSuffix(CloudName(`C:\docs\..\id.pdf`), "-id.pdf"))
    assert.True(t, strings.HasSuffix(CloudName("///"), "-file.pdf"))
}

func TestPublicURL(t *testing.T) {
    assert.Equal(t, "https://uploadthing.com/f/abc.pdf", PublicURL("https://uploadthing.com/", "abc.pdf"))
}

func TestMemoryStore(t *testing.T) {
    ctx := context.Background()
    m := NewMemoryStore()
    require.NoError(t, m.Put(ctx, "k", "application/pdf", strings.NewReader("%PDF-1.7"), 8))

    b, err := m.Get(ctx, "k")
    require.NoError(t, err)
    assert.Equal(t, "%PDF-1.7", string(b))

    _, err = m.Get(ctx, "missing")
    assert.Error(t, err)
    assert.NoError(t, m.Ping(ctx))
}

func TestFetchURL(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if r.URL.Path == "/missing" {
            http.NotFound(w, r)
            return
        }
        _, _ = w.Write([]byte("payload"))
    }))
    defer srv.Close()

    b, err := FetchURL(context.Background(), srv.Client(), srv.URL+"/ok")
    require.NoError(t, err)
    assert.Equal(t, "payload", string(b))

    _, err = FetchURL(context.Background(), srv.Client(), srv.URL+"/missing")
    require.Error(t, err)
    assert.True(t, apperr.IsRemote(err))
}
