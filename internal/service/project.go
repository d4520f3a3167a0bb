package service

import (
    "context"
    "strings"

    "github.com/rs/zerolog/log"

    "github.com/local/vibedoc/internal/apperr"
    "github.com/local/vibedoc/internal/models"
    "github.com/local/vibedoc/internal/repository"
)

type ProjectService struct {
    repo repository.ProjectRepo
}

func NewProjectService(repo repository.ProjectRepo) *ProjectService {
    return &ProjectService{repo: repo}
}

// List returns projects newest first, each with its additional document count.
func (s *ProjectService) List(ctx context.Context) ([]models.ProjectListItem, error) {
    items, err := s.repo.ListProjects(ctx)
    if err != nil { return nil, err }
    if items == nil { items = []models.ProjectListItem{} }
    return items, nil
}

// Get returns the project with its forms, their inputs and its additional documents.
func (s *ProjectService) Get(ctx context.Context, id uint) (*models.Project, error) {
    p, err := s.repo.GetProjectWithRelations(ctx, id)
    if err != nil { return nil, err }
    if p.Forms == nil { p.Forms = []models.Form{} }
    if p.AdditionalDocuments == nil { p.AdditionalDocuments = []models.AdditionalDocument{} }
    return p, nil
}

func (s *ProjectService) Create(ctx context.Context, name string) (*models.Project, error) {
    name = strings.TrimSpace(name)
    if name == "" { return nil, apperr.Invalid("name", "is required") }
    p := &models.Project{Name: name}
    if err := s.repo.CreateProject(ctx, p); err != nil { return nil, err }
    log.Info().Uint("project_id", p.ID).Msg("project created")
    return p, nil
}

func (s *ProjectService) Rename(ctx context.Context, id uint, name string) (*models.Project, error) {
    name = strings.TrimSpace(name)
    if name == "" { return nil, apperr.Invalid("name", "is required") }
    return s.repo.UpdateProjectFields(ctx, id, map[string]any{"name": name})
}

// UpdateSystemPrompt stores the prompt verbatim; an empty prompt is allowed.
func (s *ProjectService) UpdateSystemPrompt(ctx context.Context, id uint, prompt string) (*models.Project, error) {
    return s.repo.UpdateProjectFields(ctx, id, map[string]any{"system_prompt": prompt})
}

// Delete removes the project; forms, inputs and documents go with it.
func (s *ProjectService) Delete(ctx context.Context, id uint) error {
    if err := s.repo.DeleteProject(ctx, id); err != nil { return err }
    log.Info().Uint("project_id", id).Msg("project deleted")
    return nil
}
