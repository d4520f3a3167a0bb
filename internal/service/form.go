package service

import (
    "context"
    "strings"

    "github.com/local/vibedoc/internal/apperr"
    "github.com/local/vibedoc/internal/models"
    "github.com/local/vibedoc/internal/orchestrator"
    "github.com/local/vibedoc/internal/repository"
    "github.com/local/vibedoc/internal/storage"
)

// Pipeline is the part of the orchestrator the form service drives.
type Pipeline interface {
    CreateForm(ctx context.Context, in orchestrator.CreateFormInput) (*models.Form, error)
    Reprocess(ctx context.Context, formID uint) (*models.Form, error)
    PipelineStatus(ctx context.Context, formID uint) (orchestrator.Status, error)
}

type ProjectRef struct {
    ID   uint   `json:"id"`
    Name string `json:"name"`
}

// FormDetail is a form with its inputs and the project it belongs to.
type FormDetail struct {
    models.Form
    Project ProjectRef `json:"project"`
}

type FormService struct {
    forms    repository.FormRepo
    store    storage.Store
    pipeline Pipeline
}

func NewFormService(forms repository.FormRepo, store storage.Store, pipeline Pipeline) *FormService {
    return &FormService{forms: forms, store: store, pipeline: pipeline}
}

// Upload stores the PDF and hands it to the pipeline. The returned form is
// non-nil whenever the row was written, even if enrichment then failed.
func (s *FormService) Upload(ctx context.Context, projectID uint, name string, up Upload) (*models.Form, error) {
    name = strings.TrimSpace(name)
    if name == "" {
        name = strings.TrimSuffix(up.FileName, ".pdf")
    }
    if name == "" { return nil, apperr.Invalid("name", "is required") }
    sf, err := storePDF(ctx, s.store, "file", up)
    if err != nil { return nil, err }
    return s.pipeline.CreateForm(ctx, orchestrator.CreateFormInput{
        ProjectID: projectID,
        Name:      name,
        FileName:  sf.FileName,
        FileType:  sf.FileType,
        FileSize:  sf.FileSize,
        CloudName: sf.CloudName,
    })
}

func (s *FormService) Get(ctx context.Context, id uint) (*FormDetail, error) {
    f, err := s.forms.GetFormWithInputs(ctx, id)
    if err != nil { return nil, err }
    if f.Inputs == nil { f.Inputs = []models.Input{} }
    d := &FormDetail{Form: *f, Project: ProjectRef{ID: f.ProjectID}}
    if f.Project != nil { d.Project.Name = f.Project.Name }
    return d, nil
}

func (s *FormService) Reprocess(ctx context.Context, id uint) (*models.Form, error) {
    return s.pipeline.Reprocess(ctx, id)
}

func (s *FormService) Status(ctx context.Context, id uint) (orchestrator.Status, error) {
    return s.pipeline.PipelineStatus(ctx, id)
}
