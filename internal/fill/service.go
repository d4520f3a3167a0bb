package fill

import (
    "context"
    "strings"

    "github.com/local/vibedoc/internal/apperr"
    "github.com/local/vibedoc/internal/models"
    "github.com/local/vibedoc/internal/repository"
    "github.com/local/vibedoc/internal/storage"
)

type Strategy string

const (
    StrategyLocal  Strategy = "local"
    StrategyRemote Strategy = "remote"
)

// ParseStrategy accepts "local" (the default when empty) or "remote".
func ParseStrategy(s string) (Strategy, error) {
    switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
    case "", StrategyLocal:
        return StrategyLocal, nil
    case StrategyRemote:
        return StrategyRemote, nil
    }
    return "", apperr.Invalid("strategy", "must be %q or %q", StrategyLocal, StrategyRemote)
}

// Result carries the PDF bytes of a local fill or the URL of a remote one.
type Result struct {
    Strategy    Strategy
    FileName    string
    PDF         []byte
    DownloadURL string
    Report      Report
}

type Service struct {
    forms         repository.FormRepo
    local         *Local
    remote        *Remote
    publicBaseURL string
}

func NewService(forms repository.FormRepo, local *Local, remote *Remote, publicBaseURL string) *Service {
    return &Service{forms: forms, local: local, remote: remote, publicBaseURL: publicBaseURL}
}

// FillForm fills a stored form with its current input values.
func (s *Service) FillForm(ctx context.Context, formID uint, strategy Strategy, flatten bool) (*Result, error) {
    form, err := s.forms.GetFormWithInputs(ctx, formID)
    if err != nil { return nil, err }
    res := &Result{Strategy: strategy, FileName: filledName(form.FileName)}

    switch strategy {
    case StrategyRemote:
        url, err := s.remote.Fill(ctx, storage.PublicURL(s.publicBaseURL, form.CloudName), res.FileName, form.Inputs)
        if err != nil { return nil, err }
        res.DownloadURL = url
        res.Report = Report{Supplied: len(form.Inputs), Applied: len(form.Inputs)}
    default:
        out, rep, err := s.local.Fill(ctx, form.CloudName, form.Inputs, flatten)
        if err != nil { return nil, err }
        res.PDF, res.Report = out, rep
    }
    return res, nil
}

// FillURL fills an arbitrary hosted PDF through the remote API.
func (s *Service) FillURL(ctx context.Context, sourceURL string, inputs []models.Input) (string, error) {
    if strings.TrimSpace(sourceURL) == "" { return "", apperr.Invalid("sourceUrl", "is required") }
    return s.remote.Fill(ctx, sourceURL, "", inputs)
}

func filledName(name string) string {
    if name == "" { name = "form.pdf" }
    if !strings.HasSuffix(strings.ToLower(name), ".pdf") { name += ".pdf" }
    return "filled-" + name
}
