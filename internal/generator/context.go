package generator

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/heythambi/backend/internal/models"
)

const defaultContextAttempts = 5

// ContextGenerator produces one accepted conversation per lesson: prompt the
// provider, parse, validate, check the run ledger, and retry with a perturbed
// prompt until a fresh conversation passes or the attempt budget runs out.
type ContextGenerator struct {
	llm       LLMClient
	scheduler *Scheduler
	ledger    *Ledger

	// Attempts bounds rejected outputs only. Provider-level retries happen
	// inside the scheduler and never consume an attempt here.
	Attempts int
}

func NewContextGenerator(llm LLMClient, scheduler *Scheduler, ledger *Ledger) *ContextGenerator {
	return &ContextGenerator{
		llm:       llm,
		scheduler: scheduler,
		ledger:    ledger,
		Attempts:  envInt(envContextAttempts, defaultContextAttempts),
	}
}

// Generate runs the accept-or-regenerate loop for one lesson's conversation.
// Each attempt asks for a different scenario framing, so a rejected duplicate
// is never retried with the prompt that produced it. A conversation that
// still collides or stays malformed after the last attempt fails the lesson
// with ErrExhaustedRetries; it is never force-accepted.
func (g *ContextGenerator) Generate(ctx context.Context, pos models.CurriculumPosition, level models.LearningLevel, turns int) (*models.Context, error) {
	var lastErr error
	for attempt := 0; attempt < g.Attempts; attempt++ {
		c, err := g.attempt(ctx, pos, level, turns, attempt)
		if err == nil {
			return c, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		// The scheduler already spent its own budget on this call; burning
		// the remaining regeneration attempts on a broken provider would
		// just multiply the damage.
		if errors.Is(err, ErrExhaustedRetries) {
			return nil, err
		}
		lastErr = err
		log.Printf("[context] WARN: attempt %d/%d for %q rejected: %v", attempt+1, g.Attempts, pos.TopicLabel, err)
	}

	return nil, fmt.Errorf("no acceptable conversation for %q after %d attempts (last: %v): %w",
		pos.TopicLabel, g.Attempts, lastErr, ErrExhaustedRetries)
}

func (g *ContextGenerator) attempt(ctx context.Context, pos models.CurriculumPosition, level models.LearningLevel, turns, attempt int) (*models.Context, error) {
	prompt := BuildConversationPrompt(pos, level, turns, attempt)

	resp, err := g.scheduler.Execute(ctx, func(ctx context.Context) (*LLMResponse, error) {
		return g.llm.Generate(ctx, ConversationSystemPrompt(), prompt)
	})
	if err != nil {
		return nil, err
	}

	pairs, violations := ParseConversation(resp.Content)
	if len(violations) > 0 {
		return nil, fmt.Errorf("unusable output: %s", violationsString(violations))
	}

	c := &models.Context{Level: level, Pairs: pairs}
	if violations := ValidateContext(c, turns); len(violations) > 0 {
		return nil, fmt.Errorf("malformed conversation: %s", violationsString(violations))
	}

	if g.ledger.IsDuplicateContext(c.ENLines()) {
		return nil, fmt.Errorf("conversation overlaps an accepted one: %w", ErrDuplicateContent)
	}
	g.ledger.RecordContext(c.ENLines())
	return c, nil
}
