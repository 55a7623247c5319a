package generator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/heythambi/backend/internal/models"
)

// Validation here is purely structural: no provider round-trips, no judgment
// calls. A question either satisfies the shape rules for its type or it is
// regenerated. Content quality is the prompt's problem, not the validator's.

type ViolationKind string

const (
	VioUnparsable        ViolationKind = "unparsable_output"
	VioWrongTurnCount    ViolationKind = "wrong_turn_count"
	VioEmptyLine         ViolationKind = "empty_line"
	VioDuplicateLine     ViolationKind = "duplicate_line"
	VioUnknownLevel      ViolationKind = "unknown_level"
	VioUnknownType       ViolationKind = "unknown_type"
	VioMissingPrompt     ViolationKind = "missing_prompt"
	VioBadAnswerCount    ViolationKind = "bad_answer_count"
	VioBadCorrectCount   ViolationKind = "bad_correct_count"
	VioDuplicateAnswer   ViolationKind = "duplicate_answer"
	VioPlaceholderAnswer ViolationKind = "placeholder_answer"
	VioBadOrderPositions ViolationKind = "bad_order_positions"
)

// Violation names one structural defect. The kind is stable and loggable; the
// detail is for humans reading the run log.
type Violation struct {
	Kind   ViolationKind
	Field  string
	Detail string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s (%s): %s", v.Kind, v.Field, v.Detail)
}

func violationsString(vs []Violation) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = v.String()
	}
	return strings.Join(parts, "; ")
}

// ── Context Validation ─────────────────────────────────────

// ValidateContext checks a parsed conversation against the turn count that
// was requested. A mismatched count is a hard failure: trimming extra turns
// or padding missing ones would corrupt the material the question builders
// draw from, so the caller regenerates instead.
func ValidateContext(c *models.Context, wantTurns int) []Violation {
	var violations []Violation

	if !models.ValidLevels[c.Level] {
		violations = append(violations, Violation{
			Kind: VioUnknownLevel, Field: "level", Detail: string(c.Level),
		})
	}
	if got := c.TurnCount(); got != wantTurns {
		violations = append(violations, Violation{
			Kind:   VioWrongTurnCount,
			Field:  "pairs",
			Detail: fmt.Sprintf("want %d turns, got %d", wantTurns, got),
		})
	}

	seen := make(map[string]int, len(c.Pairs))
	for i, p := range c.Pairs {
		if strings.TrimSpace(p.EN) == "" {
			violations = append(violations, Violation{
				Kind: VioEmptyLine, Field: "pairs", Detail: fmt.Sprintf("turn %d has no English line", i+1),
			})
		}
		if strings.TrimSpace(p.ML) == "" {
			violations = append(violations, Violation{
				Kind: VioEmptyLine, Field: "pairs", Detail: fmt.Sprintf("turn %d has no Malayalam line", i+1),
			})
		}
		key := normalizeLine(p.EN)
		if key == "" {
			continue
		}
		if prev, dup := seen[key]; dup {
			violations = append(violations, Violation{
				Kind:   VioDuplicateLine,
				Field:  "pairs",
				Detail: fmt.Sprintf("turn %d repeats turn %d (%q)", i+1, prev+1, p.EN),
			})
		} else {
			seen[key] = i
		}
	}

	return violations
}

// ── Question Validation ────────────────────────────────────

// Answer-count and correct-count bounds per question type. Ordering length
// varies by tier (2, 3 or 4 steps) and matching uses 3 or 4 pairs, so those
// carry ranges here; the exact per-tier count is checked against the shape
// tables separately.
type shapeRule struct {
	minAnswers, maxAnswers int
	minCorrect, maxCorrect int
	requireIncorrect       bool
}

var shapeRules = map[models.QuestionType]shapeRule{
	models.TypeSingleSelect:  {minAnswers: 4, maxAnswers: 4, minCorrect: 1, maxCorrect: 1, requireIncorrect: true},
	models.TypeMultiSelect:   {minAnswers: 4, maxAnswers: 6, minCorrect: 2, maxCorrect: 3, requireIncorrect: true},
	models.TypeTrueFalse:     {minAnswers: 2, maxAnswers: 2, minCorrect: 1, maxCorrect: 1, requireIncorrect: true},
	models.TypeTextInput:     {minAnswers: 1, maxAnswers: 1, minCorrect: 1, maxCorrect: 1},
	models.TypeOrdering:      {minAnswers: 2, maxAnswers: 4, minCorrect: 2, maxCorrect: 4},
	models.TypeMatchingPairs: {minAnswers: 3, maxAnswers: 4, minCorrect: 3, maxCorrect: 4},
}

var placeholderAnswer = regexp.MustCompile(`(?i)^(wrong\s+)?(option|answer|choice|distractor)\s*\d*$`)

// ValidateQuestion checks one assembled question and its answer rows. It
// never mutates the question; a violation means the builder retries the slot.
func ValidateQuestion(q *models.Question) []Violation {
	var violations []Violation

	rule, known := shapeRules[q.Type]
	if !known {
		return []Violation{{Kind: VioUnknownType, Field: "question_type", Detail: string(q.Type)}}
	}
	if !models.ValidLevels[q.Level] {
		violations = append(violations, Violation{
			Kind: VioUnknownLevel, Field: "difficulty_level", Detail: string(q.Level),
		})
	}
	if strings.TrimSpace(q.PromptEN) == "" {
		violations = append(violations, Violation{Kind: VioMissingPrompt, Field: "prompt_en", Detail: "empty"})
	}
	if strings.TrimSpace(q.PromptML) == "" {
		violations = append(violations, Violation{Kind: VioMissingPrompt, Field: "prompt_ml", Detail: "empty"})
	}

	n := len(q.Answers)
	if n < rule.minAnswers || n > rule.maxAnswers {
		violations = append(violations, Violation{
			Kind:   VioBadAnswerCount,
			Field:  "answers",
			Detail: fmt.Sprintf("%s needs %d-%d answers, got %d", q.Type, rule.minAnswers, rule.maxAnswers, n),
		})
	}

	correct := 0
	seen := make(map[string]int, n)
	for i, a := range q.Answers {
		if a.IsCorrect {
			correct++
		}
		text := strings.TrimSpace(a.TextEN)
		if text == "" {
			violations = append(violations, Violation{
				Kind: VioPlaceholderAnswer, Field: "answers", Detail: fmt.Sprintf("answer %d is empty", i+1),
			})
			continue
		}
		if placeholderAnswer.MatchString(text) {
			violations = append(violations, Violation{
				Kind: VioPlaceholderAnswer, Field: "answers", Detail: fmt.Sprintf("answer %d is filler (%q)", i+1, a.TextEN),
			})
		}
		key := normalizeLine(text)
		if prev, dup := seen[key]; dup {
			violations = append(violations, Violation{
				Kind:   VioDuplicateAnswer,
				Field:  "answers",
				Detail: fmt.Sprintf("answer %d repeats answer %d (%q)", i+1, prev+1, a.TextEN),
			})
		} else {
			seen[key] = i
		}
	}

	if correct < rule.minCorrect || correct > rule.maxCorrect {
		violations = append(violations, Violation{
			Kind:   VioBadCorrectCount,
			Field:  "answers",
			Detail: fmt.Sprintf("%s needs %d-%d correct answers, got %d", q.Type, rule.minCorrect, rule.maxCorrect, correct),
		})
	}
	if rule.requireIncorrect && correct >= n && n > 0 {
		violations = append(violations, Violation{
			Kind:   VioBadCorrectCount,
			Field:  "answers",
			Detail: fmt.Sprintf("%s needs at least one incorrect answer", q.Type),
		})
	}

	switch q.Type {
	case models.TypeOrdering, models.TypeMatchingPairs:
		if want := sequenceLengthFor(q.Type, q.Level); want > 0 && n != want {
			violations = append(violations, Violation{
				Kind:   VioBadAnswerCount,
				Field:  "answers",
				Detail: fmt.Sprintf("%s %s needs exactly %d answers, got %d", q.Level, q.Type, want, n),
			})
		}
		violations = append(violations, validatePositions(q)...)
	}

	return violations
}

// sequenceLengthFor is the exact answer count a sequence question owes its
// tier. Unknown levels return 0; the level check reports those.
func sequenceLengthFor(qtype models.QuestionType, level models.LearningLevel) int {
	switch qtype {
	case models.TypeOrdering:
		return orderingStepCount[level]
	case models.TypeMatchingPairs:
		return matchingPairCount[level]
	default:
		return 0
	}
}

// validatePositions requires every answer of a sequence question to be
// correct and the order indexes to form a dense 0-based permutation. For
// ordering questions the index is the step's true position, independent of
// the shuffled display order; for matching it is the pair number tying the
// English and Malayalam sides together.
func validatePositions(q *models.Question) []Violation {
	var violations []Violation

	used := make(map[int]bool, len(q.Answers))
	for i, a := range q.Answers {
		if !a.IsCorrect {
			violations = append(violations, Violation{
				Kind:   VioBadCorrectCount,
				Field:  "answers",
				Detail: fmt.Sprintf("%s answer %d must be correct", q.Type, i+1),
			})
		}
		if a.OrderIndex < 0 || a.OrderIndex >= len(q.Answers) {
			violations = append(violations, Violation{
				Kind:   VioBadOrderPositions,
				Field:  "answers",
				Detail: fmt.Sprintf("position %d out of range 0-%d", a.OrderIndex, len(q.Answers)-1),
			})
			continue
		}
		if used[a.OrderIndex] {
			violations = append(violations, Violation{
				Kind:   VioBadOrderPositions,
				Field:  "answers",
				Detail: fmt.Sprintf("position %d assigned twice", a.OrderIndex),
			})
		}
		used[a.OrderIndex] = true
	}

	if q.Type == models.TypeMatchingPairs {
		for i, a := range q.Answers {
			if strings.TrimSpace(a.TextML) == "" {
				violations = append(violations, Violation{
					Kind:   VioPlaceholderAnswer,
					Field:  "answers",
					Detail: fmt.Sprintf("pair %d has no Malayalam side", i+1),
				})
			}
		}
	}

	return violations
}
