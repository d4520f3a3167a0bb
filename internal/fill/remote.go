package fill

import (
    "context"

    "github.com/local/vibedoc/internal/metrics"
    "github.com/local/vibedoc/internal/models"
    "github.com/local/vibedoc/internal/pdfco"
)

// EditAPI is satisfied by *pdfco.Client.
type EditAPI interface {
    EditAdd(ctx context.Context, fileURL, outputName string, fields []pdfco.EditField) (*pdfco.EditResult, error)
}

// Remote fills through the PDF.co edit API and hands back a download URL.
type Remote struct{ api EditAPI }

func NewRemote(api EditAPI) *Remote { return &Remote{api: api} }

// Fill sends every input as a text annotation on its field. Checkboxes are
// written as "X" when checked and "" otherwise.
func (r *Remote) Fill(ctx context.Context, sourceURL, outputName string, inputs []models.Input) (url string, err error) {
    defer func() { metrics.IncFill("remote", metrics.Result(err)) }()

    fields := make([]pdfco.EditField, 0, len(inputs))
    for _, in := range inputs {
        fields = append(fields, pdfco.EditField{FieldName: in.PdfElementID, Text: remoteText(in)})
    }
    res, err := r.api.EditAdd(ctx, sourceURL, outputName, fields)
    if err != nil { return "", err }
    return res.URL, nil
}

func remoteText(in models.Input) string {
    if in.Type == models.InputTypeCheckbox || in.Value.Kind() == models.KindCheckbox {
        if models.Truthy(in.Value.Scalar()) { return "X" }
        return ""
    }
    return in.Value.Text()
}
