package handlers

import (
    "github.com/local/vibedoc/internal/fill"
    "github.com/local/vibedoc/internal/service"
    "github.com/local/vibedoc/internal/statuscheck"
)

// Handlers groups every HTTP handler behind one value for route registration.
type Handlers struct {
    Project  *ProjectHandler
    Document *DocumentHandler
    Form     *FormHandler
    Input    *InputHandler
    PDF      *PDFHandler
    Health   *HealthHandler
    File     *FileHandler
}

type Options struct {
    MaxUploadBytes int64
    Queued         bool
}

func New(svcs *service.Services, filler *fill.Service, checker *statuscheck.Checker, opts Options) *Handlers {
    h := &Handlers{
        Project:  NewProjectHandler(svcs.Project),
        Document: NewDocumentHandler(svcs.Document, opts.MaxUploadBytes),
        Form:     NewFormHandler(svcs.Form, filler, opts.MaxUploadBytes, opts.Queued),
        Input:    NewInputHandler(svcs.Input),
        PDF:      NewPDFHandler(svcs.Tools, filler),
        Health:   NewHealthHandler(checker),
        File:     NewFileHandler(svcs.Files),
    }
    return h
}
