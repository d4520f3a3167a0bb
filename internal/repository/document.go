package repository

import (
    "context"

    "gorm.io/gorm"

    "github.com/local/vibedoc/internal/apperr"
    "github.com/local/vibedoc/internal/models"
)

type DocumentRepo interface {
    CreateDocument(ctx context.Context, d *models.AdditionalDocument) error
    ListDocumentsByProject(ctx context.Context, projectID uint) ([]models.AdditionalDocument, error)
    DeleteDocument(ctx context.Context, id uint) error
}

type DBDocumentRepo struct {
    db *gorm.DB
}

func NewDocumentRepo(db *gorm.DB) *DBDocumentRepo {
    return &DBDocumentRepo{db: db}
}

func (r *DBDocumentRepo) CreateDocument(ctx context.Context, d *models.AdditionalDocument) error {
    return r.db.WithContext(ctx).Create(d).Error
}

func (r *DBDocumentRepo) ListDocumentsByProject(ctx context.Context, projectID uint) ([]models.AdditionalDocument, error) {
    var docs []models.AdditionalDocument
    err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Order("created_at").Find(&docs).Error
    return docs, err
}

func (r *DBDocumentRepo) DeleteDocument(ctx context.Context, id uint) error {
    res := r.db.WithContext(ctx).Delete(&models.AdditionalDocument{}, id)
    if res.Error != nil { return res.Error }
    if res.RowsAffected == 0 { return apperr.NotFound("document", id) }
    return nil
}
