package service

import (
    "context"

    "github.com/rs/zerolog/log"

    "github.com/local/vibedoc/internal/models"
    "github.com/local/vibedoc/internal/repository"
    "github.com/local/vibedoc/internal/storage"
)

// DocumentService manages the additional documents that give the suggestion step its context.
type DocumentService struct {
    projects  repository.ProjectRepo
    documents repository.DocumentRepo
    store     storage.Store
}

func NewDocumentService(projects repository.ProjectRepo, documents repository.DocumentRepo, store storage.Store) *DocumentService {
    return &DocumentService{projects: projects, documents: documents, store: store}
}

func (s *DocumentService) Upload(ctx context.Context, projectID uint, up Upload) (*models.AdditionalDocument, error) {
    if _, err := s.projects.GetProjectByID(ctx, projectID); err != nil { return nil, err }
    sf, err := storePDF(ctx, s.store, "file", up)
    if err != nil { return nil, err }
    doc := &models.AdditionalDocument{
        ProjectID: projectID,
        FileName:  sf.FileName,
        FileType:  sf.FileType,
        FileSize:  sf.FileSize,
        CloudName: sf.CloudName,
    }
    if err := s.documents.CreateDocument(ctx, doc); err != nil { return nil, err }
    log.Info().Uint("project_id", projectID).Uint("document_id", doc.ID).Str("cloud_name", doc.CloudName).Msg("additional document stored")
    return doc, nil
}

func (s *DocumentService) List(ctx context.Context, projectID uint) ([]models.AdditionalDocument, error) {
    if _, err := s.projects.GetProjectByID(ctx, projectID); err != nil { return nil, err }
    docs, err := s.documents.ListDocumentsByProject(ctx, projectID)
    if err != nil { return nil, err }
    if docs == nil { docs = []models.AdditionalDocument{} }
    return docs, nil
}

// Delete removes the row; the stored object is kept.
func (s *DocumentService) Delete(ctx context.Context, id uint) error {
    return s.documents.DeleteDocument(ctx, id)
}
