package ai

import (
    "bytes"
    "context"
    "encoding/json"
    "net/http"
    "strings"
    "time"

    "github.com/local/vibedoc/internal/apperr"
)

const anthropicURL = "https://api.anthropic.com/v1/messages"

type AnthropicClient struct {
    http   *http.Client
    url    string
    apiKey string
    model  string
}

func NewAnthropicClient(apiKey, model string, timeout time.Duration) *AnthropicClient {
    return &AnthropicClient{http: &http.Client{Timeout: timeout}, url: anthropicURL, apiKey: apiKey, model: model}
}

func (c *AnthropicClient) Name() string { return "anthropic" }

type anthropicMessage struct {
    Role    string `json:"role"`
    Content string `json:"content"`
}

type anthropicMsgReq struct {
    Model       string             `json:"model"`
    MaxTokens   int                `json:"max_tokens"`
    System      string             `json:"system,omitempty"`
    Temperature float64            `json:"temperature"`
    Messages    []anthropicMessage `json:"messages"`
}

type anthropicMsgResp struct {
    Content []struct {
        Type string `json:"type"`
        Text string `json:"text"`
    } `json:"content"`
    Usage struct {
        InputTokens  int `json:"input_tokens"`
        OutputTokens int `json:"output_tokens"`
    } `json:"usage"`
}

const jsonOnlyInstruction = "\n\nRespond with a single valid JSON object and nothing else."

func (c *AnthropicClient) Chat(ctx context.Context, req ChatRequest) (out ChatResponse, err error) {
    start := time.Now()
    defer func() { observe(c.Name(), start, err) }()

    if c.apiKey == "" { return ChatResponse{}, apperr.Remote("llm", 0, "missing ANTHROPIC_API_KEY") }

    // OpenRouter-style model ids are not valid here
    model := c.model
    if req.Model != "" && !strings.Contains(req.Model, "/") { model = req.Model }
    maxTokens := req.MaxTokens
    if maxTokens <= 0 { maxTokens = 8192 }
    system := req.System
    if req.JSON { system += jsonOnlyInstruction }

    payload := anthropicMsgReq{
        Model:       model,
        MaxTokens:   maxTokens,
        System:      system,
        Temperature: req.Temperature,
        Messages:    []anthropicMessage{{Role: "user", Content: req.User}},
    }
    body, err := json.Marshal(payload)
    if err != nil { return ChatResponse{}, err }
    httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
    if err != nil { return ChatResponse{}, err }
    httpReq.Header.Set("x-api-key", c.apiKey)
    httpReq.Header.Set("anthropic-version", "2023-06-01")
    httpReq.Header.Set("Content-Type", "application/json")

    resp, err := c.http.Do(httpReq)
    if err != nil { return ChatResponse{}, apperr.Remote("llm", 0, "%v", err) }
    defer resp.Body.Close()
    if err := statusError("llm", resp); err != nil { return ChatResponse{}, err }

    var r anthropicMsgResp
    if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
        return ChatResponse{}, apperr.Remote("llm", resp.StatusCode, "decode response: %v", err)
    }
    var text strings.Builder
    for _, part := range r.Content {
        if part.Type == "" || part.Type == "text" { text.WriteString(part.Text) }
    }
    if text.Len() == 0 { return ChatResponse{}, apperr.Remote("llm", resp.StatusCode, "no content") }
    return ChatResponse{Text: text.String(), TokensIn: r.Usage.InputTokens, TokensOut: r.Usage.OutputTokens}, nil
}
