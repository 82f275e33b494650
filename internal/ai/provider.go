package ai

import (
	"context"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/schema"

	"countystats/internal/config"
	"countystats/internal/domain"
)

var _ domain.CompletionProvider = (*ChatProvider)(nil)

// sqlTemperature keeps generation close to deterministic. SQL synthesis
// wants the most likely statement, not a creative one.
const sqlTemperature float32 = 0.2

// ChatProvider adapts an OpenAI-compatible chat endpoint to the
// CompletionProvider interface. Doubao, Ark and OpenAI itself all speak this
// protocol, so one provider covers every configured service type.
type ChatProvider struct {
	cfg config.AIConfig
}

// NewChatProvider creates a provider for the configured endpoint.
func NewChatProvider(cfg config.AIConfig) *ChatProvider {
	return &ChatProvider{cfg: cfg}
}

// Complete sends a system and user message pair and returns the assistant's
// reply content. The model client is built per call; the configured timeout
// bounds the whole request.
func (p *ChatProvider) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	temperature := sqlTemperature
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		Model:       p.cfg.Model,
		APIKey:      p.cfg.APIKey,
		BaseURL:     p.cfg.BaseURL,
		Temperature: &temperature,
		Timeout:     p.cfg.Timeout,
	})
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	msg, err := chatModel.Generate(ctx, []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(userPrompt),
	})
	if err != nil {
		return "", err
	}
	return msg.Content, nil
}
