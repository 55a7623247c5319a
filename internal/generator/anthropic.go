package generator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"
)

const defaultAnthropicModel = "claude-sonnet-4-5-20250929"

// AnthropicClient generates conversations through the Anthropic Messages
// API. It classifies failures but never retries; retry policy lives in the
// scheduler.
type AnthropicClient struct {
	client anthropic.Client
	model  string
}

func NewAnthropicClient(apiKey, model string) *AnthropicClient {
	return &AnthropicClient{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

func (c *AnthropicClient) Generate(ctx context.Context, systemPrompt, userPrompt string) (*LLMResponse, error) {
	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   8192,
		Temperature: param.NewOpt(0.8),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})
	if err != nil {
		return nil, classifyAnthropicErr(err)
	}

	var content strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			content.WriteString(block.Text)
		}
	}
	if content.Len() == 0 {
		return nil, &ProviderError{Kind: FailMalformed, Message: "anthropic returned no text content"}
	}

	return &LLMResponse{
		Content:      content.String(),
		PromptTokens: int(message.Usage.InputTokens),
		OutputTokens: int(message.Usage.OutputTokens),
	}, nil
}

// classifyAnthropicErr maps SDK API errors onto the retry taxonomy by their
// HTTP status. 529 is the API's overloaded signal and is retried like a 429,
// with the server's Retry-After honored when present. Errors that never
// reached the API (DNS, timeouts) carry no status and stay transient.
func classifyAnthropicErr(err error) *ProviderError {
	var apierr *anthropic.Error
	if errors.As(err, &apierr) {
		switch {
		case apierr.StatusCode == http.StatusTooManyRequests || apierr.StatusCode == 529:
			pe := &ProviderError{Kind: FailRateLimited, Message: "anthropic throttled the request", Err: err}
			if apierr.Response != nil {
				if secs, convErr := strconv.Atoi(apierr.Response.Header.Get("Retry-After")); convErr == nil && secs > 0 {
					pe.RetryAfter = time.Duration(secs) * time.Second
				}
			}
			return pe
		case apierr.StatusCode == http.StatusUnauthorized || apierr.StatusCode == http.StatusForbidden:
			return &ProviderError{Kind: FailFatal, Message: "anthropic rejected the credentials", Err: err}
		case apierr.StatusCode >= 500:
			return &ProviderError{Kind: FailTransient, Message: fmt.Sprintf("anthropic server error %d", apierr.StatusCode), Err: err}
		}
	}
	return &ProviderError{Kind: FailTransient, Message: "anthropic call failed", Err: err}
}
