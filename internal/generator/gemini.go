package generator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const defaultGeminiModel = "gemini-2.0-flash"

// GeminiClient generates conversations through the Gemini API. A fresh SDK
// client per call keeps connection state out of the long-lived pipeline,
// which matters on runs that sleep for hours between calls.
type GeminiClient struct {
	apiKey string
	model  string
}

func NewGeminiClient(apiKey, model string) *GeminiClient {
	return &GeminiClient{apiKey: apiKey, model: model}
}

func (c *GeminiClient) Generate(ctx context.Context, systemPrompt, userPrompt string) (*LLMResponse, error) {
	cl, err := genai.NewClient(ctx, option.WithAPIKey(c.apiKey))
	if err != nil {
		return nil, &ProviderError{Kind: FailFatal, Message: "gemini client setup failed", Err: err}
	}
	defer cl.Close()

	m := cl.GenerativeModel(c.model)
	m.GenerationConfig = genai.GenerationConfig{Temperature: ptrFloat32(0.8)}
	m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemPrompt)}}

	resp, err := m.GenerateContent(ctx, genai.Text(userPrompt))
	if err != nil {
		return nil, classifyGeminiErr(err)
	}

	text := firstText(resp)
	if text == "" {
		return nil, &ProviderError{Kind: FailMalformed, Message: "gemini returned no text candidates"}
	}

	out := &LLMResponse{Content: text}
	if resp.UsageMetadata != nil {
		out.PromptTokens = int(resp.UsageMetadata.PromptTokenCount)
		out.OutputTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}
	return out, nil
}

func firstText(resp *genai.GenerateContentResponse) string {
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok && len(t) > 0 {
				return string(t)
			}
		}
	}
	return ""
}

// classifyGeminiErr maps googleapi errors onto the retry taxonomy. A 429
// carries the server's Retry-After when present, and the scheduler honors it
// when it asks for more than the escalation step.
func classifyGeminiErr(err error) *ProviderError {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch {
		case gerr.Code == http.StatusTooManyRequests:
			pe := &ProviderError{Kind: FailRateLimited, Message: "gemini quota exceeded", Err: err}
			if after := gerr.Header.Get("Retry-After"); after != "" {
				if secs, convErr := strconv.Atoi(after); convErr == nil && secs > 0 {
					pe.RetryAfter = time.Duration(secs) * time.Second
				}
			}
			return pe
		case gerr.Code == http.StatusUnauthorized || gerr.Code == http.StatusForbidden:
			return &ProviderError{Kind: FailFatal, Message: "gemini rejected the credentials", Err: err}
		case gerr.Code >= 500:
			return &ProviderError{Kind: FailTransient, Message: fmt.Sprintf("gemini server error %d", gerr.Code), Err: err}
		}
	}
	return &ProviderError{Kind: FailTransient, Message: "gemini call failed", Err: err}
}

func ptrFloat32(f float32) *float32 { return &f }
