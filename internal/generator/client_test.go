package generator

import (
	"context"
	"strings"
	"testing"

	"github.com/heythambi/backend/internal/models"
)

func clearProviderEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{"PROVIDER", "ANTHROPIC_API_KEY", "GEMINI_API_KEY", "USE_CLI_GENERATOR"} {
		t.Setenv(name, "")
	}
}

func TestNewProvider_UnknownChoiceRejected(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("PROVIDER", "openai")

	_, err := NewProvider()
	if err == nil {
		t.Fatal("expected an error for an unknown provider choice")
	}
	if !strings.Contains(err.Error(), "unknown PROVIDER") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNewProvider_ExplicitChoiceNeedsCredentials(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("PROVIDER", "anthropic")

	_, err := NewProvider()
	if err == nil || !strings.Contains(err.Error(), "ANTHROPIC_API_KEY") {
		t.Errorf("expected a missing-key error, got: %v", err)
	}
}

func TestNewProvider_CredentialInference(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("GEMINI_API_KEY", "test-key")

	p, err := NewProvider()
	if err != nil {
		t.Fatalf("expected the gemini client, got: %v", err)
	}
	if !strings.HasPrefix(p.Name, "gemini/") {
		t.Errorf("expected a gemini provider name, got %q", p.Name)
	}
}

func TestNewProvider_FallsBackToMock(t *testing.T) {
	clearProviderEnv(t)

	p, err := NewProvider()
	if err != nil {
		t.Fatalf("expected the mock fallback, got: %v", err)
	}
	if p.Name != "mock" {
		t.Errorf("expected the mock provider, got %q", p.Name)
	}
}

func TestNewProvider_ModelOverride(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("PROVIDER", "anthropic")
	t.Setenv("ANTHROPIC_API_KEY", "test-key")
	t.Setenv("ANTHROPIC_MODEL", "claude-haiku-test")

	p, err := NewProvider()
	if err != nil {
		t.Fatalf("expected the anthropic client, got: %v", err)
	}
	if p.Name != "anthropic/claude-haiku-test" {
		t.Errorf("expected the model override in the name, got %q", p.Name)
	}
}

func TestMockClient_MatchesRequestedShape(t *testing.T) {
	m := NewMockClient()
	prompt := BuildConversationPrompt(curriculumPos("grocery"), models.LevelBeginner, 5, 0)

	resp, err := m.Generate(context.Background(), ConversationSystemPrompt(), prompt)
	if err != nil {
		t.Fatalf("expected mock output, got: %v", err)
	}

	pairs, violations := ParseConversation(resp.Content)
	if len(violations) > 0 {
		t.Fatalf("mock output unparsable: %s", violationsString(violations))
	}
	c := &models.Context{Level: models.LevelBeginner, Pairs: pairs}
	if vs := ValidateContext(c, 5); len(vs) > 0 {
		t.Errorf("mock output rejected: %s", violationsString(vs))
	}
	if !strings.Contains(resp.Content, "grocery") {
		t.Error("mock output should echo the topic")
	}
}

func TestMockClient_VariesAcrossCalls(t *testing.T) {
	m := NewMockClient()
	prompt := BuildConversationPrompt(curriculumPos("returns"), models.LevelBeginner, 5, 0)

	first, err := m.Generate(context.Background(), "", prompt)
	if err != nil {
		t.Fatal(err)
	}
	second, err := m.Generate(context.Background(), "", prompt)
	if err != nil {
		t.Fatal(err)
	}
	if first.Content == second.Content {
		t.Fatal("mock output must change between calls")
	}

	ledger := NewLedger(0)
	firstPairs, _ := ParseConversation(first.Content)
	secondPairs, _ := ParseConversation(second.Content)

	firstCtx := &models.Context{Pairs: firstPairs}
	secondCtx := &models.Context{Pairs: secondPairs}
	ledger.RecordContext(firstCtx.ENLines())
	if ledger.IsDuplicateContext(secondCtx.ENLines()) {
		t.Error("consecutive mock conversations should clear the overlap check")
	}
}

func TestMockClient_ReportsTokenCounts(t *testing.T) {
	m := NewMockClient()
	resp, err := m.Generate(context.Background(), "", "a 5-turn prompt\nTopic: onam")
	if err != nil {
		t.Fatal(err)
	}
	if resp.PromptTokens <= 0 || resp.OutputTokens <= 0 {
		t.Errorf("expected token estimates, got prompt=%d output=%d", resp.PromptTokens, resp.OutputTokens)
	}
}
