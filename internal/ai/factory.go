package ai

import (
    "context"
    "fmt"

    "github.com/local/vibedoc/internal/config"
)

// New builds the client selected by cfg.Engine.
func New(ctx context.Context, cfg config.LLMConfig) (Client, error) {
    switch cfg.Engine {
    case "openai", "openrouter", "":
        return NewOpenAIClient(OpenAIOptions{
            BaseURL: cfg.OpenAIBaseURL,
            APIKey:  cfg.OpenAIKey,
            Referer: cfg.Referer,
            Title:   cfg.Title,
            Timeout: cfg.Timeout,
        }), nil
    case "anthropic":
        return NewAnthropicClient(cfg.AnthropicKey, cfg.AnthropicModel, cfg.Timeout), nil
    case "vertex":
        return NewVertexClient(ctx, cfg.VertexProject, cfg.VertexRegion, cfg.Model)
    default:
        return nil, fmt.Errorf("unknown LLM engine %q", cfg.Engine)
    }
}
