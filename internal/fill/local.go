package fill

import (
    "context"
    "fmt"

    "github.com/rs/zerolog/log"

    "github.com/local/vibedoc/internal/metrics"
    "github.com/local/vibedoc/internal/models"
    "github.com/local/vibedoc/internal/pdf"
    "github.com/local/vibedoc/internal/storage"
)

// Engine reads and writes AcroForm fields. pdf.PDFCPUFiller is the production engine.
type Engine interface {
    Fields(template []byte) ([]pdf.FieldDescriptor, error)
    // Fill returns the PDF and the names of values it could not set.
    Fill(template []byte, values []pdf.FieldValue, flatten bool) ([]byte, []string, error)
}

// Report summarises a local fill. Applied never exceeds Supplied.
type Report struct {
    Supplied int      `json:"supplied"`
    Applied  int      `json:"applied"`
    Skipped  int      `json:"skipped"`
    Unknown  []string `json:"unknown,omitempty"`
    Rejected []string `json:"rejected,omitempty"`
}

// Local fills the stored template in-process.
type Local struct {
    store  storage.Store
    engine Engine
}

func NewLocal(store storage.Store, engine Engine) *Local {
    return &Local{store: store, engine: engine}
}

// Fill loads the template stored under cloudName and writes every input whose
// pdfElementId names a field of it. Unknown ids are skipped with a warning.
func (l *Local) Fill(ctx context.Context, cloudName string, inputs []models.Input, flatten bool) (out []byte, rep Report, err error) {
    defer func() { metrics.IncFill("local", metrics.Result(err)) }()

    template, err := l.store.Get(ctx, cloudName)
    if err != nil { return nil, Report{}, fmt.Errorf("load template %s: %w", cloudName, err) }
    return l.FillBytes(template, inputs, flatten)
}

// FillBytes is Fill for a template already in memory.
func (l *Local) FillBytes(template []byte, inputs []models.Input, flatten bool) ([]byte, Report, error) {
    fields, err := l.engine.Fields(template)
    if err != nil { return nil, Report{}, err }
    byName := make(map[string]pdf.FieldDescriptor, len(fields))
    for _, f := range fields {
        if _, ok := byName[f.FieldName]; !ok { byName[f.FieldName] = f }
    }

    rep := Report{Supplied: len(inputs)}
    values := make([]pdf.FieldValue, 0, len(inputs))
    applied := make(map[string]int, len(inputs))
    for _, in := range inputs {
        f, ok := byName[in.PdfElementID]
        if !ok || f.Type == pdf.TypeSignature {
            log.Warn().Str("field", in.PdfElementID).Uint("input_id", in.ID).Msg("field not found in PDF; skipping")
            rep.Skipped++
            rep.Unknown = append(rep.Unknown, in.PdfElementID)
            continue
        }
        v := fieldValue(f, in.Value)
        // a later input for the same field replaces the earlier one
        if i, dup := applied[f.FieldName]; dup {
            values[i] = v
            rep.Skipped++
            continue
        }
        applied[f.FieldName] = len(values)
        values = append(values, v)
    }

    out, rejected, err := l.engine.Fill(template, values, flatten)
    if err != nil { return nil, rep, err }
    for _, name := range rejected {
        log.Warn().Str("field", name).Msg("value not accepted by field; skipping")
    }
    rep.Rejected = rejected
    rep.Applied = len(values) - len(rejected)
    rep.Skipped += len(rejected)
    metrics.AddFillFields(rep.Applied, rep.Skipped)
    return out, rep, nil
}

func fieldValue(f pdf.FieldDescriptor, v models.Value) pdf.FieldValue {
    fv := pdf.FieldValue{Name: f.FieldName, Type: f.Type}
    if f.Type == pdf.TypeCheckBox {
        fv.Checked = models.Truthy(v.Scalar())
        return fv
    }
    fv.Text = v.Text()
    return fv
}
