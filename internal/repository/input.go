package repository

import (
    "context"

    "gorm.io/gorm"

    "github.com/local/vibedoc/internal/models"
)

type InputRepo interface {
    CreateInput(ctx context.Context, in *models.Input) error
    GetInputByID(ctx context.Context, id uint) (*models.Input, error)
    CountInputsByForm(ctx context.Context, formID uint) (int64, error)
    UpdateInputValue(ctx context.Context, id uint, v models.Value) error
}

type DBInputRepo struct {
    db *gorm.DB
}

func NewInputRepo(db *gorm.DB) *DBInputRepo {
    return &DBInputRepo{db: db}
}

func (r *DBInputRepo) CreateInput(ctx context.Context, in *models.Input) error {
    return r.db.WithContext(ctx).Create(in).Error
}

func (r *DBInputRepo) GetInputByID(ctx context.Context, id uint) (*models.Input, error) {
    var in models.Input
    if err := r.db.WithContext(ctx).First(&in, id).Error; err != nil {
        return nil, notFound(err, "input", id)
    }
    return &in, nil
}

func (r *DBInputRepo) CountInputsByForm(ctx context.Context, formID uint) (int64, error) {
    var n int64
    err := r.db.WithContext(ctx).Model(&models.Input{}).Where("form_id = ?", formID).Count(&n).Error
    return n, err
}

func (r *DBInputRepo) UpdateInputValue(ctx context.Context, id uint, v models.Value) error {
    res := r.db.WithContext(ctx).Model(&models.Input{}).Where("id = ?", id).Update("value", v)
    if res.Error != nil { return res.Error }
    if res.RowsAffected == 0 { return notFound(gorm.ErrRecordNotFound, "input", id) }
    return nil
}
