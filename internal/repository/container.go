package repository

import (
    "context"
    "errors"

    "gorm.io/gorm"

    "github.com/local/vibedoc/internal/apperr"
)

type Repos struct {
    Project  ProjectRepo
    Form     FormRepo
    Input    InputRepo
    Document DocumentRepo

    db *gorm.DB
}

func NewRepositories(db *gorm.DB) *Repos {
    return &Repos{
        Project:  NewProjectRepo(db),
        Form:     NewFormRepo(db),
        Input:    NewInputRepo(db),
        Document: NewDocumentRepo(db),
        db:       db,
    }
}

// Ping reports whether the database answers.
func (r *Repos) Ping(ctx context.Context) error {
    if r.db == nil { return errors.New("database not configured") }
    return Ping(ctx, r.db)
}

func notFound(err error, entity string, id any) error {
    if errors.Is(err, gorm.ErrRecordNotFound) {
        return apperr.NotFound(entity, id)
    }
    return err
}
