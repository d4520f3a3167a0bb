package handlers

import (
    "bytes"
    "context"
    "encoding/json"
    "errors"
    "mime"
    "mime/multipart"
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"

    "github.com/gin-gonic/gin"
    "github.com/golang/mock/gomock"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/local/vibedoc/internal/apperr"
    "github.com/local/vibedoc/internal/fill"
    "github.com/local/vibedoc/internal/models"
    "github.com/local/vibedoc/internal/orchestrator"
    "github.com/local/vibedoc/internal/pdf"
    "github.com/local/vibedoc/internal/pdfco"
    "github.com/local/vibedoc/internal/repository/mock"
    "github.com/local/vibedoc/internal/service"
    "github.com/local/vibedoc/internal/statuscheck"
    "github.com/local/vibedoc/internal/storage"
)

var minimalPDF = []byte("%PDF-1.7\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")

func init() { gin.SetMode(gin.TestMode) }

type fakePipeline struct {
    form *models.Form
    err  error
    got  orchestrator.CreateFormInput
}

func (p *fakePipeline) CreateForm(_ context.Context, in orchestrator.CreateFormInput) (*models.Form, error) {
    p.got = in
    return p.form, p.err
}

func (p *fakePipeline) Reprocess(context.Context, uint) (*models.Form, error) { return p.form, p.err }

func (p *fakePipeline) PipelineStatus(context.Context, uint) (orchestrator.Status, error) {
    return orchestrator.Status{Stage: orchestrator.StageEnriched}, p.err
}

type fakeEngine struct{ fields []pdf.FieldDescriptor }

func (e fakeEngine) Fields([]byte) ([]pdf.FieldDescriptor, error) { return e.fields, nil }

func (e fakeEngine) Fill(template []byte, values []pdf.FieldValue, _ bool) ([]byte, []string, error) {
    return append([]byte("%PDF-filled "), []byte(values[0].Text)...), nil, nil
}

type fakeEditAPI struct{ fields []pdfco.EditField }

func (f *fakeEditAPI) EditAdd(_ context.Context, _, _ string, fields []pdfco.EditField) (*pdfco.EditResult, error) {
    f.fields = fields
    return &pdfco.EditResult{URL: "https://cdn.example/filled.pdf"}, nil
}

type fakeExtractor struct{}

func (fakeExtractor) ExtractText(context.Context, []byte) (string, error) { return "hello form", nil }

type downPinger struct{}

func (downPinger) Ping(context.Context) error { return errors.New("connection refused") }

type harness struct {
    projects *mock.MockProjectRepo
    forms    *mock.MockFormRepo
    inputs   *mock.MockInputRepo
    docs     *mock.MockDocumentRepo
    pipeline *fakePipeline
    store    *storage.MemoryStore
    edit     *fakeEditAPI
    router   *gin.Engine
}

func newHarness(t *testing.T, queued bool) *harness {
    ctrl := gomock.NewController(t)
    h := &harness{
        projects: mock.NewMockProjectRepo(ctrl),
        forms:    mock.NewMockFormRepo(ctrl),
        inputs:   mock.NewMockInputRepo(ctrl),
        docs:     mock.NewMockDocumentRepo(ctrl),
        pipeline: &fakePipeline{},
        store:    storage.NewMemoryStore(),
        edit:     &fakeEditAPI{},
    }
    svcs := &service.Services{
        Project:  service.NewProjectService(h.projects),
        Document: service.NewDocumentService(h.projects, h.docs, h.store),
        Form:     service.NewFormService(h.forms, h.store, h.pipeline),
        Input:    service.NewInputService(h.inputs),
        Tools:    service.NewToolService(service.ToolOptions{Extractor: fakeExtractor{}}),
        Files:    h.store,
    }
    engine := fakeEngine{fields: []pdf.FieldDescriptor{{FieldName: "first_name", Type: pdf.TypeTextBox}}}
    filler := fill.NewService(h.forms, fill.NewLocal(h.store, engine), fill.NewRemote(h.edit), "https://files.example")
    checker := statuscheck.New(statuscheck.Options{Database: downPinger{}, Storage: h.store})
    hs := New(svcs, filler, checker, Options{MaxUploadBytes: 1 << 20, Queued: queued})

    r := gin.New()
    r.GET("/ready", hs.Health.Ready)
    r.GET("/api/projects/:id", hs.Project.GetProject)
    r.POST("/api/projects", hs.Project.CreateProject)
    r.POST("/api/projects/:id/forms", hs.Form.UploadForm)
    r.GET("/api/forms/:id/download", hs.Form.DownloadFilled)
    r.PATCH("/api/inputs/:id", hs.Input.UpdateValue)
    r.POST("/api/pdf/fill", hs.PDF.FillURL)
    r.POST("/api/pdf/text", hs.PDF.ExtractText)
    r.GET("/f/:cloudName", hs.File.ServeFile)
    h.router = r
    return h
}

func (h *harness) do(method, path string, body any) *httptest.ResponseRecorder {
    var buf bytes.Buffer
    if body != nil { _ = json.NewEncoder(&buf).Encode(body) }
    req := httptest.NewRequest(method, path, &buf)
    req.Header.Set("Content-Type", "application/json")
    w := httptest.NewRecorder()
    h.router.ServeHTTP(w, req)
    return w
}

func (h *harness) upload(path, name string, data []byte) *httptest.ResponseRecorder {
    var buf bytes.Buffer
    mw := multipart.NewWriter(&buf)
    fw, _ := mw.CreateFormFile("file", "intake.pdf")
    _, _ = fw.Write(data)
    if name != "" { _ = mw.WriteField("name", name) }
    _ = mw.Close()
    req := httptest.NewRequest(http.MethodPost, path, &buf)
    req.Header.Set("Content-Type", mw.FormDataContentType())
    w := httptest.NewRecorder()
    h.router.ServeHTTP(w, req)
    return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
    t.Helper()
    var e ErrorResponse
    require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))
    return e
}

func TestCreateProject(t *testing.T) {
    h := newHarness(t, false)
    h.projects.EXPECT().CreateProject(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, p *models.Project) error {
        p.ID = 11
        return nil
    })

    w := h.do(http.MethodPost, "/api/projects", map[string]string{"name": "Clinic"})
    require.Equal(t, http.StatusCreated, w.Code)
    var p models.Project
    require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
    assert.Equal(t, uint(11), p.ID)
    assert.Equal(t, "Clinic", p.Name)

    w = h.do(http.MethodPost, "/api/projects", map[string]string{})
    assert.Equal(t, http.StatusBadRequest, w.Code)
    assert.NotEmpty(t, decodeError(t, w).Error)
}

func TestGetProjectErrors(t *testing.T) {
    h := newHarness(t, false)
    h.projects.EXPECT().GetProjectWithRelations(gomock.Any(), uint(404)).Return(nil, apperr.NotFound("project", uint(404)))

    w := h.do(http.MethodGet, "/api/projects/404", nil)
    assert.Equal(t, http.StatusNotFound, w.Code)
    assert.Contains(t, decodeError(t, w).Error, "project")

    w = h.do(http.MethodGet, "/api/projects/abc", nil)
    assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadFormReportsFormIDOnPipelineFailure(t *testing.T) {
    h := newHarness(t, false)
    h.pipeline.form = &models.Form{ID: 5, ProjectID: 1}
    h.pipeline.err = apperr.Remote("pdf.co", 500, "upstream down")

    w := h.upload("/api/projects/1/forms", "", minimalPDF)
    assert.Equal(t, http.StatusBadGateway, w.Code)
    e := decodeError(t, w)
    assert.Equal(t, uint(5), e.FormID)
    assert.Contains(t, e.Error, "upstream down")
    assert.Equal(t, "intake", h.pipeline.got.Name)
    assert.Equal(t, uint(1), h.pipeline.got.ProjectID)
}

func TestUploadFormQueuedAccepts(t *testing.T) {
    h := newHarness(t, true)
    h.pipeline.form = &models.Form{ID: 6, ProjectID: 1, Name: "Intake", Inputs: []models.Input{}}

    w := h.upload("/api/projects/1/forms", "Intake", minimalPDF)
    assert.Equal(t, http.StatusAccepted, w.Code)
    assert.Equal(t, "Intake", h.pipeline.got.Name)
}

func TestUploadFormRejectsNonPDF(t *testing.T) {
    h := newHarness(t, false)
    w := h.upload("/api/projects/1/forms", "x", []byte("plain text"))
    assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateValueChecksKind(t *testing.T) {
    h := newHarness(t, false)
    h.inputs.EXPECT().GetInputByID(gomock.Any(), uint(3)).Return(&models.Input{ID: 3, Type: models.InputTypeCheckbox}, nil)

    w := h.do(http.MethodPatch, "/api/inputs/3", map[string]any{"value": "yes"})
    assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDownloadLocalStreamsPDF(t *testing.T) {
    h := newHarness(t, false)
    require.NoError(t, h.store.Put(context.Background(), "abc-intake.pdf", "application/pdf", bytes.NewReader(minimalPDF), int64(len(minimalPDF))))
    h.forms.EXPECT().GetFormWithInputs(gomock.Any(), uint(8)).Return(&models.Form{
        ID: 8, FileName: "intake.pdf", CloudName: "abc-intake.pdf",
        Inputs: []models.Input{
            {ID: 1, PdfElementID: "first_name", Type: models.InputTypeInput, Value: models.TextValue("Ada")},
            {ID: 2, PdfElementID: "gone", Type: models.InputTypeInput, Value: models.TextValue("x")},
        },
    }, nil)

    w := h.do(http.MethodGet, "/api/forms/8/download", nil)
    require.Equal(t, http.StatusOK, w.Code)
    assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
    assert.Contains(t, w.Header().Get("Content-Disposition"), "filled-intake.pdf")
    assert.Equal(t, "1", w.Header().Get("X-Fields-Applied"))
    assert.Equal(t, "1", w.Header().Get("X-Fields-Skipped"))
    assert.Equal(t, "%PDF-filled Ada", w.Body.String())
}

func TestDownloadQuotesFileName(t *testing.T) {
    h := newHarness(t, false)
    require.NoError(t, h.store.Put(context.Background(), "abc.pdf", "application/pdf", bytes.NewReader(minimalPDF), int64(len(minimalPDF))))
    h.forms.EXPECT().GetFormWithInputs(gomock.Any(), uint(9)).Return(&models.Form{
        ID: 9, FileName: `tax "final" 2024.pdf`, CloudName: "abc.pdf",
        Inputs: []models.Input{{ID: 1, PdfElementID: "first_name", Value: models.TextValue("Ada")}},
    }, nil)

    w := h.do(http.MethodGet, "/api/forms/9/download", nil)
    require.Equal(t, http.StatusOK, w.Code)
    disposition, params, err := mime.ParseMediaType(w.Header().Get("Content-Disposition"))
    require.NoError(t, err)
    assert.Equal(t, "attachment", disposition)
    assert.Equal(t, `filled-tax "final" 2024.pdf`, params["filename"])
}

func TestServeStoredFile(t *testing.T) {
    h := newHarness(t, false)
    require.NoError(t, h.store.Put(context.Background(), "abc-intake.pdf", "application/pdf", bytes.NewReader(minimalPDF), int64(len(minimalPDF))))

    w := h.do(http.MethodGet, "/f/abc-intake.pdf", nil)
    require.Equal(t, http.StatusOK, w.Code)
    assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
    assert.Equal(t, minimalPDF, w.Body.Bytes())

    w = h.do(http.MethodGet, "/f/missing.pdf", nil)
    assert.Equal(t, http.StatusNotFound, w.Code)

    w = h.do(http.MethodGet, "/f/..hidden", nil)
    assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDownloadRemoteReturnsURL(t *testing.T) {
    h := newHarness(t, false)
    h.forms.EXPECT().GetFormWithInputs(gomock.Any(), uint(8)).Return(&models.Form{ID: 8, FileName: "intake.pdf", CloudName: "abc-intake.pdf"}, nil)

    w := h.do(http.MethodGet, "/api/forms/8/download?strategy=remote", nil)
    require.Equal(t, http.StatusOK, w.Code)
    var resp DownloadURLResponse
    require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
    assert.Equal(t, "https://cdn.example/filled.pdf", resp.DownloadURL)

    w = h.do(http.MethodGet, "/api/forms/8/download?strategy=cloud", nil)
    assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFillURLMapsCheckboxes(t *testing.T) {
    h := newHarness(t, false)
    w := h.do(http.MethodPost, "/api/pdf/fill", map[string]any{
        "sourceUrl": "https://files.example/form.pdf",
        "inputs": []map[string]any{
            {"pdfElementId": "agree", "value": true, "type": "CHECKBOX"},
            {"pdfElementId": "opt_out", "value": false, "type": "CHECKBOX"},
            {"pdfElementId": "name", "value": "Ada", "type": "INPUT"},
        },
    })
    require.Equal(t, http.StatusOK, w.Code)
    assert.JSONEq(t, `{"downloadUrl":"https://cdn.example/filled.pdf"}`, w.Body.String())
    assert.Equal(t, []pdfco.EditField{
        {FieldName: "agree", Text: "X"},
        {FieldName: "opt_out", Text: ""},
        {FieldName: "name", Text: "Ada"},
    }, h.edit.fields)

    w = h.do(http.MethodPost, "/api/pdf/fill", map[string]any{
        "sourceUrl": "https://files.example/form.pdf",
        "inputs":    []map[string]any{{"pdfElementId": "a", "value": "x", "type": "RADIO"}},
    })
    assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExtractTextDownloadsFile(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if strings.HasSuffix(r.URL.Path, ".pdf") {
            _, _ = w.Write(minimalPDF)
            return
        }
        w.WriteHeader(http.StatusNotFound)
    }))
    defer srv.Close()
    h := newHarness(t, false)

    w := h.do(http.MethodPost, "/api/pdf/text", map[string]string{"fileUrl": srv.URL + "/form.pdf"})
    require.Equal(t, http.StatusOK, w.Code)
    assert.JSONEq(t, `{"text":"hello form"}`, w.Body.String())

    w = h.do(http.MethodPost, "/api/pdf/text", map[string]string{"fileUrl": srv.URL + "/missing"})
    assert.Equal(t, http.StatusBadGateway, w.Code)

    w = h.do(http.MethodPost, "/api/pdf/text", map[string]string{"fileUrl": "ftp://x"})
    assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReadyReportsDatabaseDown(t *testing.T) {
    h := newHarness(t, false)
    w := h.do(http.MethodGet, "/ready", nil)
    assert.Equal(t, http.StatusServiceUnavailable, w.Code)
    var s statuscheck.Summary
    require.NoError(t, json.Unmarshal(w.Body.Bytes(), &s))
    assert.False(t, s.Ready)
    assert.False(t, s.Database.OK)
    assert.True(t, s.Storage.OK)
}
