package service

import (
    "context"
    "errors"
    "testing"

    "github.com/golang/mock/gomock"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/local/vibedoc/internal/apperr"
    "github.com/local/vibedoc/internal/models"
    "github.com/local/vibedoc/internal/orchestrator"
    "github.com/local/vibedoc/internal/repository/mock"
    "github.com/local/vibedoc/internal/storage"
)

var minimalPDF = []byte("%PDF-1.7\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")

func TestProjectServiceCreate(t *testing.T) {
    ctrl := gomock.NewController(t)
    repo := mock.NewMockProjectRepo(ctrl)
    svc := NewProjectService(repo)

    _, err := svc.Create(context.Background(), "   ")
    assert.True(t, apperr.IsValidation(err))

    repo.EXPECT().CreateProject(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, p *models.Project) error {
        p.ID = 3
        return nil
    })
    p, err := svc.Create(context.Background(), " Clinic ")
    require.NoError(t, err)
    assert.Equal(t, uint(3), p.ID)
    assert.Equal(t, "Clinic", p.Name)
    assert.Equal(t, "", p.SystemPrompt)
}

func TestProjectServiceUpdates(t *testing.T) {
    ctrl := gomock.NewController(t)
    repo := mock.NewMockProjectRepo(ctrl)
    svc := NewProjectService(repo)

    repo.EXPECT().UpdateProjectFields(gomock.Any(), uint(3), map[string]any{"system_prompt": ""}).
        Return(&models.Project{ID: 3, Name: "Clinic"}, nil)
    _, err := svc.UpdateSystemPrompt(context.Background(), 3, "")
    require.NoError(t, err)

    repo.EXPECT().UpdateProjectFields(gomock.Any(), uint(9), map[string]any{"name": "New"}).
        Return(nil, apperr.NotFound("project", uint(9)))
    _, err = svc.Rename(context.Background(), 9, "New")
    assert.True(t, apperr.IsNotFound(err))
}

func TestProjectServiceGetFillsEmptyCollections(t *testing.T) {
    ctrl := gomock.NewController(t)
    repo := mock.NewMockProjectRepo(ctrl)
    repo.EXPECT().GetProjectWithRelations(gomock.Any(), uint(1)).Return(&models.Project{ID: 1}, nil)
    p, err := NewProjectService(repo).Get(context.Background(), 1)
    require.NoError(t, err)
    assert.NotNil(t, p.Forms)
    assert.NotNil(t, p.AdditionalDocuments)
}

func TestDocumentUploadRejectsNonPDF(t *testing.T) {
    ctrl := gomock.NewController(t)
    projects := mock.NewMockProjectRepo(ctrl)
    docs := mock.NewMockDocumentRepo(ctrl)
    projects.EXPECT().GetProjectByID(gomock.Any(), uint(1)).Return(&models.Project{ID: 1}, nil)

    store := storage.NewMemoryStore()
    _, err := NewDocumentService(projects, docs, store).Upload(context.Background(), 1, Upload{FileName: "notes.txt", Data: []byte("just text")})
    assert.True(t, apperr.IsValidation(err))
}

func TestDocumentUpload(t *testing.T) {
    ctrl := gomock.NewController(t)
    projects := mock.NewMockProjectRepo(ctrl)
    docs := mock.NewMockDocumentRepo(ctrl)
    projects.EXPECT().GetProjectByID(gomock.Any(), uint(1)).Return(&models.Project{ID: 1}, nil)
    docs.EXPECT().CreateDocument(gomock.Any(), gomock.Any()).Return(nil)

    store := storage.NewMemoryStore()
    doc, err := NewDocumentService(projects, docs, store).Upload(context.Background(), 1, Upload{FileName: "../notes.pdf", Data: minimalPDF})
    require.NoError(t, err)
    assert.Equal(t, "notes.pdf", doc.FileName)
    assert.Equal(t, "application/pdf", doc.FileType)
    assert.Equal(t, int64(len(minimalPDF)), doc.FileSize)

    stored, err := store.Get(context.Background(), doc.CloudName)
    require.NoError(t, err)
    assert.Equal(t, minimalPDF, stored)
}

type fakePipeline struct {
    got  orchestrator.CreateFormInput
    err  error
}

func (p *fakePipeline) CreateForm(_ context.Context, in orchestrator.CreateFormInput) (*models.Form, error) {
    p.got = in
    return &models.Form{ID: 1, ProjectID: in.ProjectID, Name: in.Name, CloudName: in.CloudName, Inputs: []models.Input{}}, p.err
}

func (p *fakePipeline) Reprocess(context.Context, uint) (*models.Form, error) { return nil, p.err }

func (p *fakePipeline) PipelineStatus(context.Context, uint) (orchestrator.Status, error) {
    return orchestrator.Status{Stage: orchestrator.StageQueued}, p.err
}

func TestFormUploadStoresThenCreates(t *testing.T) {
    store := storage.NewMemoryStore()
    pipe := &fakePipeline{err: apperr.Remote("pdf.co", 500, "down")}
    svc := NewFormService(nil, store, pipe)

    form, err := svc.Upload(context.Background(), 7, "", Upload{FileName: "intake.pdf", Data: minimalPDF})
    assert.True(t, apperr.IsRemote(err))
    require.NotNil(t, form)
    assert.Equal(t, "intake", pipe.got.Name)
    assert.Equal(t, uint(7), pipe.got.ProjectID)
    _, err = store.Get(context.Background(), pipe.got.CloudName)
    assert.NoError(t, err)
}

func TestFormGetIncludesProjectRef(t *testing.T) {
    ctrl := gomock.NewController(t)
    forms := mock.NewMockFormRepo(ctrl)
    forms.EXPECT().GetFormWithInputs(gomock.Any(), uint(4)).Return(&models.Form{ID: 4, ProjectID: 2, Project: &models.Project{ID: 2, Name: "Clinic"}}, nil)

    d, err := NewFormService(forms, nil, &fakePipeline{}).Get(context.Background(), 4)
    require.NoError(t, err)
    assert.Equal(t, ProjectRef{ID: 2, Name: "Clinic"}, d.Project)
    assert.NotNil(t, d.Inputs)
}

func TestInputUpdateValueChecksKind(t *testing.T) {
    ctrl := gomock.NewController(t)
    inputs := mock.NewMockInputRepo(ctrl)
    svc := NewInputService(inputs)
    inputs.EXPECT().GetInputByID(gomock.Any(), uint(1)).Return(&models.Input{ID: 1, Type: models.InputTypeCheckbox}, nil).AnyTimes()
    inputs.EXPECT().GetInputByID(gomock.Any(), uint(2)).Return(&models.Input{ID: 2, Type: models.InputTypeInput}, nil).AnyTimes()

    _, err := svc.UpdateValue(context.Background(), 1, models.TextValue("yes"))
    assert.True(t, apperr.IsValidation(err))
    _, err = svc.UpdateValue(context.Background(), 2, models.CheckboxValue(true))
    assert.True(t, apperr.IsValidation(err))

    inputs.EXPECT().UpdateInputValue(gomock.Any(), uint(1), models.CheckboxValue(true)).Return(nil)
    in, err := svc.UpdateValue(context.Background(), 1, models.CheckboxValue(true))
    require.NoError(t, err)
    assert.True(t, in.Value.Checked())

    inputs.EXPECT().UpdateInputValue(gomock.Any(), uint(2), models.TextValue("")).Return(nil)
    in, err = svc.UpdateValue(context.Background(), 2, models.Value{})
    require.NoError(t, err)
    assert.Equal(t, models.KindText, in.Value.Kind())
}

func TestInputUpdateMany(t *testing.T) {
    ctrl := gomock.NewController(t)
    inputs := mock.NewMockInputRepo(ctrl)
    for id := uint(1); id <= 3; id++ {
        inputs.EXPECT().GetInputByID(gomock.Any(), id).Return(&models.Input{ID: id, Type: models.InputTypeInput}, nil)
        inputs.EXPECT().UpdateInputValue(gomock.Any(), id, gomock.Any()).Return(nil)
    }
    out, err := NewInputService(inputs).UpdateMany(context.Background(), []InputUpdate{
        {ID: 1, Value: models.TextValue("a")},
        {ID: 2, Value: models.TextValue("b")},
        {ID: 3, Value: models.TextValue("c")},
    })
    require.NoError(t, err)
    require.Len(t, out, 3)
    assert.Equal(t, "b", out[1].Value.Text())
}

func TestInputUpdateManyFailure(t *testing.T) {
    ctrl := gomock.NewController(t)
    inputs := mock.NewMockInputRepo(ctrl)
    inputs.EXPECT().GetInputByID(gomock.Any(), uint(1)).Return(nil, errors.New("db down"))
    _, err := NewInputService(inputs).UpdateMany(context.Background(), []InputUpdate{{ID: 1, Value: models.TextValue("a")}})
    assert.EqualError(t, err, "input 1: db down")
}
