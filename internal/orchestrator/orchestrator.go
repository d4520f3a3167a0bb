package orchestrator

import (
    "context"
    "fmt"
    "strings"
    "time"

    "github.com/rs/zerolog/log"
    "golang.org/x/sync/errgroup"

    "github.com/local/vibedoc/internal/apperr"
    "github.com/local/vibedoc/internal/metrics"
    "github.com/local/vibedoc/internal/models"
    "github.com/local/vibedoc/internal/pdf"
    "github.com/local/vibedoc/internal/repository"
    "github.com/local/vibedoc/internal/storage"
)

type Queue interface {
    EnqueueForm(ctx context.Context, formID uint) error
}

type FieldEnricher interface {
    Enrich(ctx context.Context, formText string, fields []pdf.FieldDescriptor) ([]FieldDescription, error)
}

type ValueSuggester interface {
    Suggest(ctx context.Context, in SuggestInput) (map[string]any, error)
}

type Dependencies struct {
    Projects  repository.ProjectRepo
    Forms     repository.FormRepo
    Inputs    repository.InputRepo
    Documents repository.DocumentRepo

    Fields    FieldFetcher
    Text      TextSource
    Enricher  FieldEnricher
    Suggester ValueSuggester

    Status StatusStore
    Queue  Queue // nil runs enrichment inside the request
}

type Options struct {
    PublicBaseURL    string
    JobTimeout       time.Duration
    WriteConcurrency int
}

type Orchestrator struct {
    deps Dependencies
    opts Options
}

func New(deps Dependencies, opts Options) *Orchestrator {
    if deps.Status == nil { deps.Status = NewMemoryStatus() }
    if opts.WriteConcurrency <= 0 { opts.WriteConcurrency = 8 }
    return &Orchestrator{deps: deps, opts: opts}
}

// Queued reports whether enrichment runs on the worker instead of in the request.
func (o *Orchestrator) Queued() bool { return o.deps.Queue != nil }

type CreateFormInput struct {
    ProjectID uint
    Name      string
    FileName  string
    FileType  string
    FileSize  int64
    CloudName string
}

// CreateForm persists the form row and then runs (or enqueues) enrichment.
// The row is committed first; an enrichment error is returned together with it.
func (o *Orchestrator) CreateForm(ctx context.Context, in CreateFormInput) (*models.Form, error) {
    name := strings.TrimSpace(in.Name)
    if name == "" { return nil, apperr.Invalid("name", "is required") }
    if in.CloudName == "" { return nil, apperr.Invalid("cloudName", "is required") }
    if _, err := o.deps.Projects.GetProjectByID(ctx, in.ProjectID); err != nil { return nil, err }

    form := &models.Form{
        ProjectID: in.ProjectID,
        Name:      name,
        CloudName: in.CloudName,
        FileName:  in.FileName,
        FileType:  in.FileType,
        FileSize:  in.FileSize,
    }
    if err := o.deps.Forms.CreateForm(ctx, form); err != nil {
        return nil, fmt.Errorf("create form: %w", err)
    }
    log.Info().Uint("form_id", form.ID).Uint("project_id", in.ProjectID).Str("cloud_name", in.CloudName).Msg("form created")
    now := time.Now()
    o.record(ctx, form.ID, Status{Stage: StageUploaded, Message: "form stored", Start: &now})

    inputs, err := o.dispatch(ctx, form.ID)
    form.Inputs = inputs
    if form.Inputs == nil { form.Inputs = []models.Input{} }
    return form, err
}

// Reprocess reruns enrichment for a form whose previous run left no inputs.
// Forms that already have inputs are refused so pdfElementIds are never regenerated.
func (o *Orchestrator) Reprocess(ctx context.Context, formID uint) (*models.Form, error) {
    form, err := o.deps.Forms.GetFormByID(ctx, formID)
    if err != nil { return nil, err }
    n, err := o.deps.Inputs.CountInputsByForm(ctx, formID)
    if err != nil { return nil, fmt.Errorf("count inputs: %w", err) }
    if n > 0 {
        return nil, apperr.Invalid("form", "form %d already has %d inputs", formID, n)
    }
    log.Info().Uint("form_id", formID).Msg("reprocessing form")
    now := time.Now()
    o.record(ctx, formID, Status{Stage: StageUploaded, Message: "reprocess requested", Start: &now})
    inputs, err := o.dispatch(ctx, formID)
    form.Inputs = inputs
    if form.Inputs == nil { form.Inputs = []models.Input{} }
    return form, err
}

func (o *Orchestrator) dispatch(ctx context.Context, formID uint) ([]models.Input, error) {
    if o.deps.Queue == nil {
        // a caller that goes away must not abort the remote calls or the input batch
        return o.Enrich(context.WithoutCancel(ctx), formID)
    }
    if err := o.deps.Queue.EnqueueForm(ctx, formID); err != nil {
        return nil, o.fail(ctx, formID, time.Now(), fmt.Errorf("enqueue form %d: %w", formID, err))
    }
    o.record(ctx, formID, Status{Stage: StageQueued, Message: "waiting for worker"})
    return nil, nil
}

// Enrich runs the pipeline for one stored form: texts, field metadata,
// descriptions, suggestions, then one concurrent batch of Input creates.
// Any failing stage stops the run and leaves the form without inputs.
func (o *Orchestrator) Enrich(ctx context.Context, formID uint) ([]models.Input, error) {
    start := time.Now()
    if o.opts.JobTimeout > 0 {
        var cancel context.CancelFunc
        ctx, cancel = context.WithTimeout(ctx, o.opts.JobTimeout)
        defer cancel()
    }

    form, err := o.deps.Forms.GetFormByID(ctx, formID)
    if err != nil { return nil, o.fail(ctx, formID, start, err) }
    project, err := o.deps.Projects.GetProjectByID(ctx, form.ProjectID)
    if err != nil { return nil, o.fail(ctx, formID, start, err) }
    docs, err := o.deps.Documents.ListDocumentsByProject(ctx, form.ProjectID)
    if err != nil { return nil, o.fail(ctx, formID, start, fmt.Errorf("list documents: %w", err)) }

    l := log.With().Uint("form_id", formID).Uint("project_id", form.ProjectID).Logger()
    formRef := o.ref(form.CloudName)

    // additional documents and the form itself are extracted together
    docTexts := make([]string, len(docs))
    var formText string
    g, gctx := errgroup.WithContext(ctx)
    for i, d := range docs {
        i, d := i, d
        g.Go(func() error {
            txt, err := o.deps.Text.TextFor(gctx, o.ref(d.CloudName))
            if err != nil { return fmt.Errorf("text of document %d (%s): %w", d.ID, d.FileName, err) }
            docTexts[i] = txt
            return nil
        })
    }
    g.Go(func() error {
        txt, err := o.deps.Text.TextFor(gctx, formRef)
        if err != nil { return fmt.Errorf("text of form: %w", err) }
        formText = txt
        return nil
    })
    if err := g.Wait(); err != nil { return nil, o.fail(ctx, formID, start, err) }
    l.Debug().Int("documents", len(docs)).Int("form_chars", len(formText)).Msg("texts extracted")

    fields, err := o.deps.Fields.FetchFields(ctx, formRef)
    if err != nil { return nil, o.fail(ctx, formID, start, fmt.Errorf("fetch fields: %w", err)) }
    o.record(ctx, formID, Status{Stage: StageMetadataFetched, Message: fmt.Sprintf("%d fields", len(fields)), Start: &start,
        Metadata: map[string]any{"fields": len(fields)}})
    l.Info().Int("fields", len(fields)).Str("stage", string(StageMetadataFetched)).Msg("field metadata fetched")

    descs, err := o.deps.Enricher.Enrich(ctx, formText, fields)
    if err != nil { return nil, o.fail(ctx, formID, start, err) }
    enriched := ApplyDescriptions(fields, descs)
    o.record(ctx, formID, Status{Stage: StageEnriched, Message: fmt.Sprintf("%d of %d fields described", len(descs), len(fields)), Start: &start,
        Metadata: map[string]any{"fields": len(fields), "described": len(descs)}})

    suggestions, err := o.deps.Suggester.Suggest(ctx, SuggestInput{
        SystemPrompt:        project.SystemPrompt,
        AdditionalDocuments: docTexts,
        FormText:            formText,
        Fields:              enriched,
    })
    if err != nil { return nil, o.fail(ctx, formID, start, err) }
    o.record(ctx, formID, Status{Stage: StageValuesSuggested, Message: fmt.Sprintf("%d suggestions", len(suggestions)), Start: &start,
        Metadata: map[string]any{"fields": len(fields), "suggestions": len(suggestions)}})

    inputs := BuildInputs(formID, enriched, suggestions)
    if err := createInputs(ctx, o.deps.Inputs, inputs, o.opts.WriteConcurrency); err != nil {
        return nil, o.fail(ctx, formID, start, err)
    }
    metrics.AddInputs(len(inputs))

    end := time.Now()
    o.record(ctx, formID, Status{Stage: StagePersisted, Message: fmt.Sprintf("%d inputs created", len(inputs)), Start: &start, End: &end,
        Metadata: map[string]any{"inputs": len(inputs)}})
    l.Info().Int("inputs", len(inputs)).Dur("took", end.Sub(start)).Str("stage", string(StagePersisted)).Msg("form enriched")
    return inputs, nil
}

// PipelineStatus returns the last recorded stage of a form. Forms whose record
// expired report PERSISTED or UPLOADED from their input count.
func (o *Orchestrator) PipelineStatus(ctx context.Context, formID uint) (Status, error) {
    if _, err := o.deps.Forms.GetFormByID(ctx, formID); err != nil { return Status{}, err }
    st, ok, err := o.deps.Status.Get(ctx, formID)
    if err != nil { return Status{}, fmt.Errorf("pipeline status: %w", err) }
    if ok { return st, nil }
    n, err := o.deps.Inputs.CountInputsByForm(ctx, formID)
    if err != nil { return Status{}, fmt.Errorf("count inputs: %w", err) }
    if n > 0 {
        return Status{Stage: StagePersisted, Message: fmt.Sprintf("%d inputs", n), Metadata: map[string]any{"inputs": n}}, nil
    }
    return Status{Stage: StageUploaded}, nil
}

func (o *Orchestrator) ref(cloudName string) FileRef {
    return FileRef{CloudName: cloudName, URL: storage.PublicURL(o.opts.PublicBaseURL, cloudName)}
}

func (o *Orchestrator) record(ctx context.Context, formID uint, st Status) {
    metrics.IncStage(string(st.Stage))
    // status writes must outlive a cancelled run
    if err := o.deps.Status.Set(context.WithoutCancel(ctx), formID, st); err != nil {
        log.Warn().Err(err).Uint("form_id", formID).Str("stage", string(st.Stage)).Msg("status write failed")
    }
}

func (o *Orchestrator) fail(ctx context.Context, formID uint, start time.Time, err error) error {
    end := time.Now()
    log.Error().Err(err).Uint("form_id", formID).Str("stage", string(StageFailed)).Msg("form enrichment failed")
    o.record(ctx, formID, Status{Stage: StageFailed, Message: err.Error(), Start: &start, End: &end})
    return err
}
