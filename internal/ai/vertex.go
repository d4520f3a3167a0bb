package ai

import (
    "context"
    "fmt"
    "strings"
    "time"

    "cloud.google.com/go/vertexai/genai"

    "github.com/local/vibedoc/internal/apperr"
)

// VertexClient calls Gemini models through Vertex AI.
type VertexClient struct {
    client *genai.Client
    model  string
}

func NewVertexClient(ctx context.Context, projectID, region, model string) (*VertexClient, error) {
    if projectID == "" { return nil, fmt.Errorf("missing VERTEX_PROJECT_ID") }
    c, err := genai.NewClient(ctx, projectID, region)
    if err != nil { return nil, fmt.Errorf("genai.NewClient: %w", err) }
    // OpenRouter ids carry a vendor prefix ("google/gemini-...")
    if i := strings.LastIndex(model, "/"); i >= 0 { model = model[i+1:] }
    return &VertexClient{client: c, model: model}, nil
}

func (c *VertexClient) Name() string { return "vertex" }

func (c *VertexClient) Close() error { return c.client.Close() }

func (c *VertexClient) Chat(ctx context.Context, req ChatRequest) (out ChatResponse, err error) {
    start := time.Now()
    defer func() { observe(c.Name(), start, err) }()

    m := c.client.GenerativeModel(c.model)
    if req.System != "" {
        m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.System)}}
    }
    m.GenerationConfig = genai.GenerationConfig{Temperature: genai.Ptr(float32(req.Temperature))}
    if req.JSON { m.GenerationConfig.ResponseMIMEType = "application/json" }
    if req.MaxTokens > 0 { m.GenerationConfig.MaxOutputTokens = genai.Ptr(int32(req.MaxTokens)) }

    resp, err := m.GenerateContent(ctx, genai.Text(req.User))
    if err != nil { return ChatResponse{}, apperr.Remote("llm", 0, "vertex: %v", err) }
    if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
        return ChatResponse{}, apperr.Remote("llm", 0, "no candidates")
    }
    var text strings.Builder
    for _, part := range resp.Candidates[0].Content.Parts {
        if t, ok := part.(genai.Text); ok { text.WriteString(string(t)) }
    }
    out = ChatResponse{Text: text.String()}
    if resp.UsageMetadata != nil {
        out.TokensIn = int(resp.UsageMetadata.PromptTokenCount)
        out.TokensOut = int(resp.UsageMetadata.CandidatesTokenCount)
    }
    return out, nil
}
