package routes

import (
    "bytes"
    "context"
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/gin-gonic/gin"
    "github.com/golang/mock/gomock"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/local/vibedoc/internal/api/handlers"
    "github.com/local/vibedoc/internal/fill"
    "github.com/local/vibedoc/internal/pdf"
    "github.com/local/vibedoc/internal/repository/mock"
    "github.com/local/vibedoc/internal/service"
    "github.com/local/vibedoc/internal/statuscheck"
    "github.com/local/vibedoc/internal/storage"
)

func newRouter(t *testing.T) *gin.Engine {
    r, _ := newRouterWithStore(t)
    return r
}

func newRouterWithStore(t *testing.T) (*gin.Engine, *storage.MemoryStore) {
    gin.SetMode(gin.TestMode)
    ctrl := gomock.NewController(t)
    projects := mock.NewMockProjectRepo(ctrl)
    forms := mock.NewMockFormRepo(ctrl)
    store := storage.NewMemoryStore()
    svcs := &service.Services{
        Project:  service.NewProjectService(projects),
        Document: service.NewDocumentService(projects, mock.NewMockDocumentRepo(ctrl), store),
        Form:     service.NewFormService(forms, store, nil),
        Input:    service.NewInputService(mock.NewMockInputRepo(ctrl)),
        Tools:    service.NewToolService(service.ToolOptions{}),
        Files:    store,
    }
    filler := fill.NewService(forms, fill.NewLocal(store, pdf.PDFCPUFiller{}), nil, "")
    h := handlers.New(svcs, filler, statuscheck.New(statuscheck.Options{Storage: store}), handlers.Options{})

    r := gin.New()
    RegisterRoutes(r, h, Options{JWTSecret: "s3cret", AllowedOrigins: []string{"https://app.example"}})
    return r, store
}

func TestHealthChecksAreOpenAndAPIIsProtected(t *testing.T) {
    r := newRouter(t)

    for _, path := range []string{"/health", "/metrics"} {
        w := httptest.NewRecorder()
        r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
        assert.Equal(t, http.StatusOK, w.Code, path)
    }

    for _, tc := range []struct{ method, path string }{
        {http.MethodGet, "/api/projects"},
        {http.MethodPost, "/api/projects/1/forms"},
        {http.MethodGet, "/api/forms/1/download"},
        {http.MethodPatch, "/api/inputs"},
        {http.MethodPost, "/api/pdf/fill"},
    } {
        w := httptest.NewRecorder()
        r.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
        assert.Equal(t, http.StatusUnauthorized, w.Code, tc.path)
    }
}

func TestStoredFilesNeedNoSession(t *testing.T) {
    r, store := newRouterWithStore(t)
    body := []byte("%PDF-1.7\n%%EOF\n")
    require.NoError(t, store.Put(context.Background(), "abc-form.pdf", "application/pdf", bytes.NewReader(body), int64(len(body))))

    w := httptest.NewRecorder()
    r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/f/abc-form.pdf", nil))
    assert.Equal(t, http.StatusOK, w.Code)
    assert.Equal(t, body, w.Body.Bytes())
}

func TestCORSPreflight(t *testing.T) {
    r := newRouter(t)
    req := httptest.NewRequest(http.MethodOptions, "/api/projects", nil)
    req.Header.Set("Origin", "https://app.example")
    req.Header.Set("Access-Control-Request-Method", "POST")
    w := httptest.NewRecorder()
    r.ServeHTTP(w, req)
    assert.Equal(t, http.StatusNoContent, w.Code)
    assert.Equal(t, "https://app.example", w.Header().Get("Access-Control-Allow-Origin"))
}
