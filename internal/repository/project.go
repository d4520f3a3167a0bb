package repository

import (
    "context"

    "gorm.io/gorm"

    "github.com/local/vibedoc/internal/apperr"
    "github.com/local/vibedoc/internal/models"
)

type ProjectRepo interface {
    ListProjects(ctx context.Context) ([]models.ProjectListItem, error)
    GetProjectByID(ctx context.Context, id uint) (*models.Project, error)
    GetProjectWithRelations(ctx context.Context, id uint) (*models.Project, error)
    CreateProject(ctx context.Context, p *models.Project) error
    UpdateProjectFields(ctx context.Context, id uint, fields map[string]any) (*models.Project, error)
    DeleteProject(ctx context.Context, id uint) error
}

type DBProjectRepo struct {
    db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *DBProjectRepo {
    return &DBProjectRepo{db: db}
}

func (r *DBProjectRepo) ListProjects(ctx context.Context) ([]models.ProjectListItem, error) {
    var items []models.ProjectListItem
    err := r.db.WithContext(ctx).Table("projects p").
        Select(`p.id, p.name, p.system_prompt, p.created_at, COUNT(d.id) AS document_count`).
        Joins("LEFT JOIN additional_documents d ON d.project_id = p.id").
        Group("p.id").
        Order("p.created_at DESC").
        Scan(&items).Error
    return items, err
}

func (r *DBProjectRepo) GetProjectByID(ctx context.Context, id uint) (*models.Project, error) {
    var p models.Project
    if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
        return nil, notFound(err, "project", id)
    }
    return &p, nil
}

func (r *DBProjectRepo) GetProjectWithRelations(ctx context.Context, id uint) (*models.Project, error) {
    var p models.Project
    err := r.db.WithContext(ctx).
        Preload("Forms", func(db *gorm.DB) *gorm.DB { return db.Order("forms.created_at DESC") }).
        Preload("Forms.Inputs", func(db *gorm.DB) *gorm.DB { return db.Order("inputs.id") }).
        Preload("AdditionalDocuments", func(db *gorm.DB) *gorm.DB { return db.Order("additional_documents.created_at DESC") }).
        First(&p, id).Error
    if err != nil { return nil, notFound(err, "project", id) }
    return &p, nil
}

func (r *DBProjectRepo) CreateProject(ctx context.Context, p *models.Project) error {
    return r.db.WithContext(ctx).Create(p).Error
}

func (r *DBProjectRepo) UpdateProjectFields(ctx context.Context, id uint, fields map[string]any) (*models.Project, error) {
    res := r.db.WithContext(ctx).Model(&models.Project{}).Where("id = ?", id).Updates(fields)
    if res.Error != nil { return nil, res.Error }
    if res.RowsAffected == 0 { return nil, apperr.NotFound("project", id) }
    return r.GetProjectByID(ctx, id)
}

func (r *DBProjectRepo) DeleteProject(ctx context.Context, id uint) error {
    res := r.db.WithContext(ctx).Delete(&models.Project{}, id)
    if res.Error != nil { return res.Error }
    if res.RowsAffected == 0 { return apperr.NotFound("project", id) }
    return nil
}
