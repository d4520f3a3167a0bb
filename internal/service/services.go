package service

import (
    "github.com/local/vibedoc/internal/repository"
    "github.com/local/vibedoc/internal/storage"
)

type Services struct {
    Project  *ProjectService
    Document *DocumentService
    Form     *FormService
    Input    *InputService
    Tools    *ToolService
    Files    storage.Store
}

func New(repos *repository.Repos, store storage.Store, pipeline Pipeline) *Services {
    return &Services{
        Project:  NewProjectService(repos.Project),
        Document: NewDocumentService(repos.Project, repos.Document, store),
        Form:     NewFormService(repos.Form, store, pipeline),
        Input:    NewInputService(repos.Input),
        Files:    store,
    }
}
