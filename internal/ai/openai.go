package ai

import (
    "bytes"
    "context"
    "encoding/json"
    "fmt"
    "io"
    "net/http"
    "strings"
    "time"

    "github.com/local/vibedoc/internal/apperr"
)

const defaultOpenAIBaseURL = "https://openrouter.ai/api/v1"

// OpenAIClient talks to any OpenAI-compatible chat completions endpoint
// (OpenRouter by default).
type OpenAIClient struct {
    http    *http.Client
    baseURL string
    apiKey  string
    headers map[string]string
}

type OpenAIOptions struct {
    BaseURL string
    APIKey  string
    Referer string
    Title   string
    Timeout time.Duration
}

func NewOpenAIClient(opts OpenAIOptions) *OpenAIClient {
    base := strings.TrimRight(opts.BaseURL, "/")
    if base == "" { base = defaultOpenAIBaseURL }
    headers := map[string]string{}
    if opts.Referer != "" { headers["HTTP-Referer"] = opts.Referer }
    if opts.Title != "" { headers["X-Title"] = opts.Title }
    return &OpenAIClient{
        http:    &http.Client{Timeout: opts.Timeout},
        baseURL: base,
        apiKey:  opts.APIKey,
        headers: headers,
    }
}

func (c *OpenAIClient) Name() string { return "openai" }

type openAIMessage struct {
    Role    string `json:"role"`
    Content string `json:"content"`
}

type openAIResponseFormat struct {
    Type string `json:"type"`
}

type openAIChatReq struct {
    Model          string                `json:"model"`
    Messages       []openAIMessage       `json:"messages"`
    Temperature    float64               `json:"temperature"`
    MaxTokens      int                   `json:"max_tokens,omitempty"`
    ResponseFormat *openAIResponseFormat `json:"response_format,omitempty"`
}

type openAIChatResp struct {
    Choices []struct {
        Message struct {
            Content string `json:"content"`
        } `json:"message"`
    } `json:"choices"`
    Usage struct {
        PromptTokens     int `json:"prompt_tokens"`
        CompletionTokens int `json:"completion_tokens"`
    } `json:"usage"`
    Error *struct {
        Message string `json:"message"`
    } `json:"error,omitempty"`
}

func (c *OpenAIClient) Chat(ctx context.Context, req ChatRequest) (out ChatResponse, err error) {
    start := time.Now()
    defer func() { observe(c.Name(), start, err) }()

    if c.apiKey == "" {
        return ChatResponse{}, apperr.Remote("llm", 0, "missing OPENROUTER_API_KEY / OPENAI_API_KEY")
    }

    var messages []openAIMessage
    if req.System != "" {
        messages = append(messages, openAIMessage{Role: "system", Content: req.System})
    }
    messages = append(messages, openAIMessage{Role: "user", Content: req.User})

    payload := openAIChatReq{
        Model:       req.Model,
        Messages:    messages,
        Temperature: req.Temperature,
        MaxTokens:   req.MaxTokens,
    }
    if req.JSON {
        payload.ResponseFormat = &openAIResponseFormat{Type: "json_object"}
    }

    body, err := json.Marshal(payload)
    if err != nil { return ChatResponse{}, err }
    httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
    if err != nil { return ChatResponse{}, err }
    httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
    httpReq.Header.Set("Content-Type", "application/json")
    for k, v := range c.headers {
        httpReq.Header.Set(k, v)
    }

    resp, err := c.http.Do(httpReq)
    if err != nil {
        return ChatResponse{}, apperr.Remote("llm", 0, "%v", err)
    }
    defer resp.Body.Close()

    if err := statusError("llm", resp); err != nil {
        return ChatResponse{}, err
    }

    var r openAIChatResp
    if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
        return ChatResponse{}, apperr.Remote("llm", resp.StatusCode, "decode response: %v", err)
    }
    if r.Error != nil && r.Error.Message != "" {
        return ChatResponse{}, apperr.Remote("llm", resp.StatusCode, "%s", r.Error.Message)
    }
    if len(r.Choices) == 0 {
        return ChatResponse{}, apperr.Remote("llm", resp.StatusCode, "no choices")
    }

    return ChatResponse{
        Text:      r.Choices[0].Message.Content,
        TokensIn:  r.Usage.PromptTokens,
        TokensOut: r.Usage.CompletionTokens,
    }, nil
}

// statusError converts a non-2xx response into a RemoteServiceError; 429
// additionally matches ErrRateLimited.
func statusError(service string, resp *http.Response) error {
    if resp.StatusCode >= 200 && resp.StatusCode < 300 {
        return nil
    }
    snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
    msg := strings.TrimSpace(string(snippet))
    if msg == "" { msg = http.StatusText(resp.StatusCode) }
    remote := apperr.Remote(service, resp.StatusCode, "%s", msg)
    if resp.StatusCode == http.StatusTooManyRequests {
        return fmt.Errorf("%w: %w", ErrRateLimited, remote)
    }
    return remote
}
