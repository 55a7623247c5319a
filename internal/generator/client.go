package generator

import (
	"context"
	"fmt"
	"log"
	"os"
	"regexp"
	"strconv"
	"strings"
	"sync"
)

// LLMClient is the minimal surface the pipeline needs from a generative
// provider. Implementations return raw text plus token counts; parsing and
// validation happen upstream, in one place, for every provider.
type LLMClient interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (*LLMResponse, error)
}

// LLMResponse holds the raw response content and token usage.
type LLMResponse struct {
	Content      string
	PromptTokens int
	OutputTokens int
}

// Provider bundles a client with the name recorded on generation runs.
type Provider struct {
	LLMClient
	Name string
}

// NewProvider picks the content provider. PROVIDER forces a choice; without
// it the decision follows available credentials, falling back to the mock so
// a checkout with no keys can still run the smoke pipeline end to end.
func NewProvider() (*Provider, error) {
	switch choice := strings.ToLower(os.Getenv("PROVIDER")); choice {
	case "anthropic":
		return anthropicProvider()
	case "gemini":
		return geminiProvider()
	case "cli":
		return cliProvider(), nil
	case "mock":
		return mockProvider(), nil
	case "":
	default:
		return nil, fmt.Errorf("unknown PROVIDER %q (want anthropic, gemini, cli, or mock)", choice)
	}

	if os.Getenv("ANTHROPIC_API_KEY") != "" {
		return anthropicProvider()
	}
	if os.Getenv("GEMINI_API_KEY") != "" {
		return geminiProvider()
	}
	if os.Getenv("USE_CLI_GENERATOR") == "true" {
		return cliProvider(), nil
	}

	log.Printf("[provider] WARN: no provider credentials found, using mock client")
	return mockProvider(), nil
}

func anthropicProvider() (*Provider, error) {
	key := os.Getenv("ANTHROPIC_API_KEY")
	if key == "" {
		return nil, fmt.Errorf("anthropic provider requires ANTHROPIC_API_KEY")
	}
	model := os.Getenv("ANTHROPIC_MODEL")
	if model == "" {
		model = defaultAnthropicModel
	}
	return &Provider{LLMClient: NewAnthropicClient(key, model), Name: "anthropic/" + model}, nil
}

func geminiProvider() (*Provider, error) {
	key := os.Getenv("GEMINI_API_KEY")
	if key == "" {
		return nil, fmt.Errorf("gemini provider requires GEMINI_API_KEY")
	}
	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = defaultGeminiModel
	}
	return &Provider{LLMClient: NewGeminiClient(key, model), Name: "gemini/" + model}, nil
}

func cliProvider() *Provider {
	path := os.Getenv("CLAUDE_CLI_PATH")
	if path == "" {
		path = "claude"
	}
	return &Provider{LLMClient: NewCLIClient(path), Name: "claude-cli"}
}

func mockProvider() *Provider {
	return &Provider{LLMClient: NewMockClient(), Name: "mock"}
}

// ── Mock Client ────────────────────────────────────────────

// MockClient fabricates structurally valid conversations without any
// network. Each call salts its lines with a counter so the uniqueness ledger
// accepts consecutive conversations, which keeps smoke runs honest.
type MockClient struct {
	mu    sync.Mutex
	calls int
}

func NewMockClient() *MockClient {
	return &MockClient{}
}

var (
	mockTurnsRe = regexp.MustCompile(`(\d+)-turn`)
	mockTopicRe = regexp.MustCompile(`(?m)^Topic: (.+)$`)
)

func (m *MockClient) Generate(_ context.Context, _ string, userPrompt string) (*LLMResponse, error) {
	m.mu.Lock()
	m.calls++
	take := m.calls
	m.mu.Unlock()

	turns := 4
	if match := mockTurnsRe.FindStringSubmatch(userPrompt); match != nil {
		if v, err := strconv.Atoi(match[1]); err == nil && v > 0 {
			turns = v
		}
	}
	topic := "the day"
	if match := mockTopicRe.FindStringSubmatch(userPrompt); match != nil {
		topic = strings.TrimSpace(match[1])
	}

	var sb strings.Builder
	for i := 1; i <= turns; i++ {
		fmt.Fprintf(&sb, "This is mock turn %d about %s, take %d.\n", i, topic, take)
		fmt.Fprintf(&sb, "Ithu mock vari %d aanu, vishayam %s, thavana %d.\n", i, topic, take)
	}

	content := sb.String()
	return &LLMResponse{
		Content:      content,
		PromptTokens: len(userPrompt) / 4,
		OutputTokens: len(content) / 4,
	}, nil
}
