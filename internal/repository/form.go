package repository

import (
    "context"

    "gorm.io/gorm"

    "github.com/local/vibedoc/internal/models"
)

type FormRepo interface {
    CreateForm(ctx context.Context, f *models.Form) error
    GetFormByID(ctx context.Context, id uint) (*models.Form, error)
    GetFormWithInputs(ctx context.Context, id uint) (*models.Form, error)
}

type DBFormRepo struct {
    db *gorm.DB
}

func NewFormRepo(db *gorm.DB) *DBFormRepo {
    return &DBFormRepo{db: db}
}

func (r *DBFormRepo) CreateForm(ctx context.Context, f *models.Form) error {
    return r.db.WithContext(ctx).Omit("Project", "Inputs").Create(f).Error
}

func (r *DBFormRepo) GetFormByID(ctx context.Context, id uint) (*models.Form, error) {
    var f models.Form
    if err := r.db.WithContext(ctx).First(&f, id).Error; err != nil {
        return nil, notFound(err, "form", id)
    }
    return &f, nil
}

// GetFormWithInputs loads the form, its inputs in creation order and its project.
func (r *DBFormRepo) GetFormWithInputs(ctx context.Context, id uint) (*models.Form, error) {
    var f models.Form
    err := r.db.WithContext(ctx).
        Preload("Inputs", func(db *gorm.DB) *gorm.DB { return db.Order("inputs.id") }).
        Preload("Project").
        First(&f, id).Error
    if err != nil { return nil, notFound(err, "form", id) }
    return &f, nil
}
