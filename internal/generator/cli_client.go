package generator

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// CLIClient shells out to the claude CLI for local dev generation.
// Uses an existing subscription — no API key needed, no per-token charges.
type CLIClient struct {
	cliPath string
}

func NewCLIClient(cliPath string) *CLIClient {
	return &CLIClient{cliPath: cliPath}
}

func (c *CLIClient) Generate(ctx context.Context, systemPrompt, userPrompt string) (*LLMResponse, error) {
	cmd := exec.CommandContext(ctx,
		c.cliPath,
		"--print",
		"--output-format", "text",
		"--system-prompt", systemPrompt,
		"--max-turns", "1",
	)

	cmd.Stdin = strings.NewReader(userPrompt)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if err := cmd.Run(); err != nil {
		return nil, &ProviderError{
			Kind:    FailTransient,
			Message: fmt.Sprintf("claude CLI failed: %s", strings.TrimSpace(stderr.String())),
			Err:     err,
		}
	}

	responseText := strings.TrimSpace(stdout.String())
	if responseText == "" {
		return nil, &ProviderError{Kind: FailMalformed, Message: "claude CLI returned empty response"}
	}

	// The CLI does not report token usage.
	return &LLMResponse{Content: responseText}, nil
}
