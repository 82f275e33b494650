package ai

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"countystats/internal/domain"
)

type stubProvider struct {
	reply     string
	err       error
	gotSystem string
	gotUser   string
	callCount int
}

func (s *stubProvider) Complete(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	s.callCount++
	s.gotSystem = systemPrompt
	s.gotUser = userPrompt
	return s.reply, s.err
}

type stubPromptRepo struct {
	cfg *domain.PromptConfig
	err error
}

func (s *stubPromptRepo) Get(context.Context) (*domain.PromptConfig, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.cfg, nil
}

func (s *stubPromptRepo) Update(context.Context, *domain.PromptConfig) error { return nil }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGenerator_ParsesMarkers(t *testing.T) {
	provider := &stubProvider{reply: "SQL:\nSELECT * FROM core_county\n\nExplanation:\nLists all counties."}
	repo := &stubPromptRepo{cfg: domain.DefaultPromptConfig()}
	gen := NewGenerator(provider, repo, true, testLogger())

	out := gen.Generate(context.Background(), "show all counties")
	assert.Equal(t, "SELECT * FROM core_county", out.SQL)
	assert.Equal(t, "Lists all counties.", out.Explanation)
	assert.Equal(t, 1, provider.callCount)
}

func TestGenerator_RendersPlaceholders(t *testing.T) {
	provider := &stubProvider{reply: "SQL:\nSELECT 1\nExplanation:\nok"}
	repo := &stubPromptRepo{cfg: &domain.PromptConfig{
		TableSchema:        "THE SCHEMA",
		SystemPrompt:       "sys",
		UserPromptTemplate: "schema={table_schema} q={question}",
	}}
	gen := NewGenerator(provider, repo, true, testLogger())

	gen.Generate(context.Background(), "my question")
	assert.Equal(t, "sys", provider.gotSystem)
	assert.Equal(t, "schema=THE SCHEMA q=my question", provider.gotUser)
}

func TestGenerator_StripsCodeFence(t *testing.T) {
	provider := &stubProvider{reply: "SQL:\n```sql\nSELECT name FROM core_county\n```\nExplanation:\ncounty names"}
	repo := &stubPromptRepo{cfg: domain.DefaultPromptConfig()}
	gen := NewGenerator(provider, repo, true, testLogger())

	out := gen.Generate(context.Background(), "names")
	assert.Equal(t, "SELECT name FROM core_county", out.SQL)
}

func TestGenerator_NotConfigured(t *testing.T) {
	provider := &stubProvider{}
	repo := &stubPromptRepo{cfg: domain.DefaultPromptConfig()}
	gen := NewGenerator(provider, repo, false, testLogger())

	out := gen.Generate(context.Background(), "anything")
	assert.Empty(t, out.SQL)
	assert.Contains(t, out.Explanation, "not configured")
	assert.Zero(t, provider.callCount, "provider must not be contacted without a key")
}

func TestGenerator_InvalidTemplate(t *testing.T) {
	provider := &stubProvider{}
	repo := &stubPromptRepo{cfg: &domain.PromptConfig{UserPromptTemplate: "missing placeholders"}}
	gen := NewGenerator(provider, repo, true, testLogger())

	out := gen.Generate(context.Background(), "q")
	assert.Empty(t, out.SQL)
	assert.Contains(t, out.Explanation, "invalid")
	assert.Zero(t, provider.callCount)
}

func TestGenerator_NoSQLMarker(t *testing.T) {
	provider := &stubProvider{reply: "I cannot answer that."}
	repo := &stubPromptRepo{cfg: domain.DefaultPromptConfig()}
	gen := NewGenerator(provider, repo, true, testLogger())

	out := gen.Generate(context.Background(), "q")
	assert.Empty(t, out.SQL)
	assert.Contains(t, out.Explanation, "did not contain a SQL statement")
	assert.Contains(t, out.Explanation, "I cannot answer that.")
}

func TestGenerator_ProviderErrorClassification(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"model missing", errors.New("the model `foo` does not exist"), "AI_MODEL"},
		{"unauthorized", errors.New("401 Unauthorized"), "AI_API_KEY"},
		{"generic", errors.New("connection reset"), "AI request failed"},
	}
	repo := &stubPromptRepo{cfg: domain.DefaultPromptConfig()}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			provider := &stubProvider{err: tc.err}
			gen := NewGenerator(provider, repo, true, testLogger())
			out := gen.Generate(context.Background(), "q")
			assert.Empty(t, out.SQL)
			assert.Contains(t, out.Explanation, tc.want)
			assert.Equal(t, 1, provider.callCount, "exactly one attempt, no retries")
		})
	}
}

func TestGenerator_FullPrompt(t *testing.T) {
	repo := &stubPromptRepo{cfg: domain.DefaultPromptConfig()}
	gen := NewGenerator(&stubProvider{}, repo, true, testLogger())

	prompt, err := gen.FullPrompt(context.Background(), "which county has the highest GDP")
	require.NoError(t, err)
	assert.Contains(t, prompt, "which county has the highest GDP")
	assert.Contains(t, prompt, "core_county")
	assert.NotContains(t, prompt, domain.PlaceholderQuestion)
	assert.NotContains(t, prompt, domain.PlaceholderSchema)
}
