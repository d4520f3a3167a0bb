package orchestrator

import (
    "context"
    "fmt"

    "github.com/rs/zerolog/log"
    "golang.org/x/sync/errgroup"

    "github.com/local/vibedoc/internal/models"
    "github.com/local/vibedoc/internal/repository"
)

// BuildInputs turns enriched fields and suggestions into Input rows. Fields
// sharing a PDF name (radio widgets, repeated kids) collapse into the first one.
func BuildInputs(formID uint, fields []EnrichedField, suggestions map[string]any) []models.Input {
    seen := make(map[string]struct{}, len(fields))
    out := make([]models.Input, 0, len(fields))
    for _, f := range fields {
        id := f.Field.FieldName
        if id == "" { continue }
        if _, dup := seen[id]; dup {
            log.Debug().Uint("form_id", formID).Str("field", id).Msg("duplicate field name; keeping first")
            continue
        }
        seen[id] = struct{}{}
        out = append(out, models.Input{
            FormID:       formID,
            Name:         f.Name,
            Description:  f.Description,
            Type:         f.Type,
            Value:        models.ValueFromAny(f.Type, lookupSuggestion(suggestions, f)),
            PdfElementID: id,
        })
    }
    return out
}

// createInputs writes all rows concurrently and waits for every create.
func createInputs(ctx context.Context, repo repository.InputRepo, inputs []models.Input, limit int) error {
    g, gctx := errgroup.WithContext(ctx)
    if limit > 0 { g.SetLimit(limit) }
    for i := range inputs {
        in := &inputs[i]
        g.Go(func() error {
            if err := repo.CreateInput(gctx, in); err != nil {
                return fmt.Errorf("create input %q: %w", in.PdfElementID, err)
            }
            return nil
        })
    }
    return g.Wait()
}
