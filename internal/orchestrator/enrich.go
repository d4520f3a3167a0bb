package orchestrator

import (
    "context"
    "encoding/json"
    "fmt"
    "sort"

    "github.com/rs/zerolog/log"

    "github.com/local/vibedoc/internal/ai"
    "github.com/local/vibedoc/internal/models"
    "github.com/local/vibedoc/internal/pdf"
)

const enrichSystemPrompt = `You are an expert at analyzing PDF forms and creating clear, concise descriptions for form fields. Given the content of a PDF and information about form fields, you will create helpful descriptions that explain what each field is for and also a short name, which can be displayed on a form. The output should be a JSON object, of this schema: { "name": "string", "description": "string", "shortName": "string" }[]`

// FieldDescription is one entry of the enrichment answer.
type FieldDescription struct {
    Name        string `json:"name"`
    Description string `json:"description"`
    ShortName   string `json:"shortName"`
}

// EnrichedField is a fetched field with its display name and description resolved.
type EnrichedField struct {
    Field       pdf.FieldDescriptor
    Name        string
    Description string
    Type        models.InputType
}

// LLMOptions are the per-call model settings shared by the enrichment and suggestion calls.
type LLMOptions struct {
    Model       string
    Temperature float64
}

type Enricher struct {
    llm  ai.Client
    opts LLMOptions
}

func NewEnricher(llm ai.Client, opts LLMOptions) *Enricher {
    return &Enricher{llm: llm, opts: opts}
}

type enrichLocation struct {
    Page int     `json:"page"`
    Top  float64 `json:"top"`
    Left float64 `json:"left"`
}

type enrichField struct {
    Name     string         `json:"name"`
    Type     string         `json:"type"`
    Location enrichLocation `json:"location"`
}

type enrichPayload struct {
    PDFText string        `json:"pdfText"`
    Fields  []enrichField `json:"fields"`
}

// Enrich asks the model for a description and short name per field.
// An unparseable answer yields an empty list, not an error.
func (e *Enricher) Enrich(ctx context.Context, formText string, fields []pdf.FieldDescriptor) ([]FieldDescription, error) {
    payload := enrichPayload{PDFText: formText, Fields: make([]enrichField, 0, len(fields))}
    for _, f := range fields {
        payload.Fields = append(payload.Fields, enrichField{
            Name:     f.Key(),
            Type:     f.Type,
            Location: enrichLocation{Page: f.PageIndex + 1, Top: f.Top, Left: f.Left},
        })
    }
    user, err := json.Marshal(payload)
    if err != nil { return nil, err }

    resp, err := e.llm.Chat(ctx, ai.ChatRequest{
        Model:       e.opts.Model,
        System:      enrichSystemPrompt,
        User:        string(user),
        Temperature: e.opts.Temperature,
        JSON:        true,
    })
    if err != nil { return nil, fmt.Errorf("field descriptions: %w", err) }

    descs := parseDescriptions(resp.Text)
    log.Debug().Int("fields", len(fields)).Int("descriptions", len(descs)).Msg("field descriptions received")
    return descs, nil
}

// parseDescriptions accepts a bare array or an object wrapping one. JSON object
// mode forces the latter, under whatever key the model picks.
func parseDescriptions(text string) []FieldDescription {
    var raw any
    if !ai.DecodeJSON(text, &raw) { return nil }
    arr := firstArray(raw)
    if arr == nil { return nil }
    out := make([]FieldDescription, 0, len(arr))
    for _, item := range arr {
        m, ok := item.(map[string]any)
        if !ok { continue }
        d := FieldDescription{}
        d.Name, _ = m["name"].(string)
        d.Description, _ = m["description"].(string)
        d.ShortName, _ = m["shortName"].(string)
        if d.Name == "" { continue }
        out = append(out, d)
    }
    return out
}

func firstArray(v any) []any {
    switch t := v.(type) {
    case []any:
        return t
    case map[string]any:
        keys := make([]string, 0, len(t))
        for k := range t { keys = append(keys, k) }
        sort.Strings(keys)
        for _, k := range keys {
            if arr, ok := t[k].([]any); ok { return arr }
        }
        // a single description object
        if _, ok := t["name"]; ok { return []any{t} }
    }
    return nil
}

// ApplyDescriptions pairs every field with its description entry. Fields the
// model skipped get their raw key and a generic description.
func ApplyDescriptions(fields []pdf.FieldDescriptor, descs []FieldDescription) []EnrichedField {
    out := make([]EnrichedField, 0, len(fields))
    for _, f := range fields {
        ef := EnrichedField{Field: f, Type: models.InputTypeForField(f.Type)}
        if d, ok := findDescription(f, descs); ok {
            ef.Name = d.ShortName
            if ef.Name == "" { ef.Name = d.Name }
            ef.Description = d.Description
        } else {
            ef.Name = f.Key()
            ef.Description = fmt.Sprintf("Field of type %s from page %d", f.Type, f.PageIndex+1)
        }
        out = append(out, ef)
    }
    return out
}

func findDescription(f pdf.FieldDescriptor, descs []FieldDescription) (FieldDescription, bool) {
    for _, d := range descs {
        if f.Matches(d.Name) { return d, true }
    }
    return FieldDescription{}, false
}
