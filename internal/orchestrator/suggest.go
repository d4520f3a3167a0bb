package orchestrator

import (
    "context"
    "encoding/json"
    "fmt"

    "github.com/local/vibedoc/internal/ai"
)

const suggestSystemPrompt = `You are an AI assistant specialized in filling out forms based on available context. You have access to:
1. The system prompt that defines the purpose of this project
2. Additional documents that provide context
3. The form itself and its fields

Based on this information, suggest appropriate values for each form field. Your output should be a JSON object where:
- Keys are the field names
- Values are your suggested values, appropriate for the field type (boolean for checkboxes, string for text/select)

Only suggest values if you are reasonably confident based on the available context. If you cannot determine a good value for a field, set it to null.`

type SuggestInput struct {
    SystemPrompt        string
    AdditionalDocuments []string
    FormText            string
    Fields              []EnrichedField
}

type Suggester struct {
    llm  ai.Client
    opts LLMOptions
}

func NewSuggester(llm ai.Client, opts LLMOptions) *Suggester {
    return &Suggester{llm: llm, opts: opts}
}

type suggestField struct {
    Name        string `json:"name"`
    Type        string `json:"type"`
    Description string `json:"description"`
}

type suggestPayload struct {
    SystemPrompt        string         `json:"systemPrompt"`
    AdditionalDocuments []string       `json:"additionalDocuments"`
    FormContent         string         `json:"formContent"`
    Fields              []suggestField `json:"fields"`
}

// Suggest returns raw suggested values keyed by field name. Values are left
// untyped; coercion happens per input type when Inputs are built.
func (s *Suggester) Suggest(ctx context.Context, in SuggestInput) (map[string]any, error) {
    docs := in.AdditionalDocuments
    if docs == nil { docs = []string{} }
    payload := suggestPayload{
        SystemPrompt:        in.SystemPrompt,
        AdditionalDocuments: docs,
        FormContent:         in.FormText,
        Fields:              make([]suggestField, 0, len(in.Fields)),
    }
    for _, f := range in.Fields {
        payload.Fields = append(payload.Fields, suggestField{Name: f.Field.Key(), Type: f.Field.Type, Description: f.Description})
    }
    user, err := json.Marshal(payload)
    if err != nil { return nil, err }

    resp, err := s.llm.Chat(ctx, ai.ChatRequest{
        Model:       s.opts.Model,
        System:      suggestSystemPrompt,
        User:        string(user),
        Temperature: s.opts.Temperature,
        JSON:        true,
    })
    if err != nil { return nil, fmt.Errorf("value suggestions: %w", err) }

    out := map[string]any{}
    if !ai.DecodeJSON(resp.Text, &out) || out == nil {
        return map[string]any{}, nil
    }
    return out, nil
}

// lookupSuggestion finds the value for a field under its PDF name first, then its alternate name.
func lookupSuggestion(suggestions map[string]any, f EnrichedField) any {
    if v, ok := suggestions[f.Field.FieldName]; ok { return v }
    if f.Field.AltFieldName != "" {
        if v, ok := suggestions[f.Field.AltFieldName]; ok { return v }
    }
    return nil
}
