package ai

import (
	"context"
	"log/slog"
	"strings"

	"countystats/internal/domain"
)

// Response markers the model is instructed to emit.
const (
	markerSQL         = "SQL:"
	markerExplanation = "Explanation:"
)

const notConfiguredMessage = "AI service is not configured. Set AI_API_KEY (or DOUBAO_API_KEY / ARK_API_KEY) and restart the server."

// Generator turns natural-language questions into SQL using a chat
// completion provider and the stored prompt configuration.
type Generator struct {
	provider   domain.CompletionProvider
	prompts    domain.PromptConfigRepository
	configured bool
	logger     *slog.Logger
}

// NewGenerator creates a Generator. configured reports whether an API key is
// present; when false every Generate call short-circuits with a setup hint
// instead of contacting the provider.
func NewGenerator(provider domain.CompletionProvider, prompts domain.PromptConfigRepository, configured bool, logger *slog.Logger) *Generator {
	return &Generator{provider: provider, prompts: prompts, configured: configured, logger: logger}
}

// Generate produces SQL for the question. It never returns an error: any
// failure comes back as a Generation with empty SQL and an explanation the
// caller can show verbatim. The prompt configuration is reloaded on every
// call so admin edits apply immediately.
func (g *Generator) Generate(ctx context.Context, question string) *domain.Generation {
	if !g.configured {
		return &domain.Generation{Explanation: notConfiguredMessage}
	}

	cfg, err := g.prompts.Get(ctx)
	if err != nil {
		g.logger.Error("load prompt config", "error", err)
		return &domain.Generation{Explanation: "Failed to load the prompt configuration: " + err.Error()}
	}
	if err := cfg.Validate(); err != nil {
		return &domain.Generation{Explanation: "The prompt configuration is invalid: " + err.Error()}
	}

	userPrompt := RenderUserPrompt(cfg, question)
	reply, err := g.provider.Complete(ctx, cfg.SystemPrompt, userPrompt)
	if err != nil {
		g.logger.Warn("completion request failed", "error", err)
		return &domain.Generation{Explanation: classifyProviderError(err)}
	}

	gen := parseReply(reply)
	if gen.SQL == "" {
		gen.Explanation = "The AI response did not contain a SQL statement. Raw response:\n" + reply
	}
	return gen
}

// FullPrompt returns the rendered user prompt for the question, used by the
// admin preview endpoint.
func (g *Generator) FullPrompt(ctx context.Context, question string) (string, error) {
	cfg, err := g.prompts.Get(ctx)
	if err != nil {
		return "", err
	}
	return RenderUserPrompt(cfg, question), nil
}

// RenderUserPrompt substitutes the schema and question placeholders in the
// configured template.
func RenderUserPrompt(cfg *domain.PromptConfig, question string) string {
	out := strings.ReplaceAll(cfg.UserPromptTemplate, domain.PlaceholderSchema, cfg.TableSchema)
	return strings.ReplaceAll(out, domain.PlaceholderQuestion, question)
}

// parseReply extracts the SQL statement and explanation from a reply shaped
// by the required format. Markers are matched literally; a reply without the
// SQL marker yields an empty statement.
func parseReply(reply string) *domain.Generation {
	var gen domain.Generation

	sqlIdx := strings.Index(reply, markerSQL)
	if sqlIdx < 0 {
		return &gen
	}
	rest := reply[sqlIdx+len(markerSQL):]

	if expIdx := strings.Index(rest, markerExplanation); expIdx >= 0 {
		gen.SQL = cleanSQL(rest[:expIdx])
		gen.Explanation = strings.TrimSpace(rest[expIdx+len(markerExplanation):])
	} else {
		gen.SQL = cleanSQL(rest)
	}
	return &gen
}

// cleanSQL strips whitespace and markdown code fences the model may wrap the
// statement in.
func cleanSQL(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```sql")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// classifyProviderError maps common provider failures to actionable hints.
func classifyProviderError(err error) string {
	msg := err.Error()
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "model") && strings.Contains(lower, "not") && (strings.Contains(lower, "found") || strings.Contains(lower, "exist")):
		return "The configured model was rejected by the provider. Check AI_MODEL and make sure the model is enabled for your account. Provider said: " + msg
	case strings.Contains(lower, "unauthorized") || strings.Contains(lower, "401") || strings.Contains(lower, "invalid api key") || strings.Contains(lower, "authentication"):
		return "The provider rejected the API key. Check AI_API_KEY. Provider said: " + msg
	default:
		return "AI request failed: " + msg
	}
}
