package service

import (
    "context"
    "fmt"

    "golang.org/x/sync/errgroup"

    "github.com/local/vibedoc/internal/apperr"
    "github.com/local/vibedoc/internal/models"
    "github.com/local/vibedoc/internal/repository"
)

type InputUpdate struct {
    ID    uint         `json:"id" binding:"required"`
    Value models.Value `json:"value"`
}

type InputService struct {
    inputs repository.InputRepo
}

func NewInputService(inputs repository.InputRepo) *InputService {
    return &InputService{inputs: inputs}
}

// UpdateValue sets one input's value. The value must be of the input's kind;
// null resets it to the empty value of that kind.
func (s *InputService) UpdateValue(ctx context.Context, id uint, v models.Value) (*models.Input, error) {
    in, err := s.inputs.GetInputByID(ctx, id)
    if err != nil { return nil, err }
    v, err = checkKind(in.Type, v)
    if err != nil { return nil, err }
    if err := s.inputs.UpdateInputValue(ctx, id, v); err != nil { return nil, err }
    in.Value = v
    return in, nil
}

// UpdateMany applies every update concurrently. The first failure is returned;
// updates already written are kept.
func (s *InputService) UpdateMany(ctx context.Context, updates []InputUpdate) ([]models.Input, error) {
    if len(updates) == 0 { return []models.Input{}, nil }
    out := make([]models.Input, len(updates))
    g, gctx := errgroup.WithContext(ctx)
    g.SetLimit(8)
    for i, u := range updates {
        i, u := i, u
        g.Go(func() error {
            in, err := s.UpdateValue(gctx, u.ID, u.Value)
            if err != nil { return fmt.Errorf("input %d: %w", u.ID, err) }
            out[i] = *in
            return nil
        })
    }
    if err := g.Wait(); err != nil { return nil, err }
    return out, nil
}

func checkKind(t models.InputType, v models.Value) (models.Value, error) {
    want := t.Kind()
    if v.IsZero() { return models.ValueFromAny(t, nil), nil }
    if v.Kind() != want {
        if want == models.KindCheckbox {
            return models.Value{}, apperr.Invalid("value", "expected boolean for %s input", t)
        }
        return models.Value{}, apperr.Invalid("value", "expected string for %s input", t)
    }
    return v, nil
}
