package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type LearningLevel string

const (
	LevelBeginner     LearningLevel = "beginner"
	LevelBasic        LearningLevel = "basic"
	LevelIntermediate LearningLevel = "intermediate"
	LevelAdvanced     LearningLevel = "advanced"
	LevelFluent       LearningLevel = "fluent"
)

var ValidLevels = map[LearningLevel]bool{
	LevelBeginner:     true,
	LevelBasic:        true,
	LevelIntermediate: true,
	LevelAdvanced:     true,
	LevelFluent:       true,
}

// QuestionTiers are the three difficulty tiers every lesson's question set
// spans, in generation order.
var QuestionTiers = [3]LearningLevel{LevelBeginner, LevelIntermediate, LevelAdvanced}

// XPForLevel returns the XP value attached to a question at the given tier.
func XPForLevel(level LearningLevel) int {
	switch level {
	case LevelBeginner:
		return 10
	case LevelIntermediate:
		return 20
	default:
		return 30
	}
}

// ── Curriculum Hierarchy ───────────────────────────────

type Section struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	OrderIndex  int       `json:"order_index"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Unit struct {
	ID          int64     `json:"id"`
	SectionID   int64     `json:"section_id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	OrderIndex  int       `json:"order_index"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Lesson struct {
	ID         int64         `json:"id"`
	UnitID     int64         `json:"unit_id"`
	Title      string        `json:"title"`
	Slug       string        `json:"slug"`
	Summary    string        `json:"summary,omitempty"`
	Level      LearningLevel `json:"level"`
	XPReward   int           `json:"xp_reward"`
	OrderIndex int           `json:"order_index"`
	IsActive   bool          `json:"is_active"`
	RunID      *uuid.UUID    `json:"run_id,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// CurriculumPosition locates one lesson inside the fan-out. It is derived
// purely from loop counters and has no persistence identity; the generators
// use it to vary scenario and tone parameters.
type CurriculumPosition struct {
	SectionIndex int
	UnitIndex    int
	LessonIndex  int
	TopicLabel   string
}

// ── Conversational Context ─────────────────────────────

// LinePair is one conversation turn: an English line and its romanized
// Malayalam counterpart.
type LinePair struct {
	EN string `json:"en"`
	ML string `json:"ml"`
}

// Context is the bilingual conversational snippet a lesson's questions are
// grounded in. It is created once per lesson, never mutated after acceptance,
// and replaced wholesale on regeneration.
type Context struct {
	ID       int64         `json:"id"`
	LessonID int64         `json:"lesson_id"`
	Level    LearningLevel `json:"level"`
	Pairs    []LinePair    `json:"pairs"`
}

func (c *Context) TurnCount() int { return len(c.Pairs) }

// ENLines returns the source-language lines in order. The uniqueness ledger
// keys contexts on this slice.
func (c *Context) ENLines() []string {
	lines := make([]string, len(c.Pairs))
	for i, p := range c.Pairs {
		lines[i] = p.EN
	}
	return lines
}

// TextEN returns the newline-joined English block as persisted.
func (c *Context) TextEN() string {
	return strings.Join(c.ENLines(), "\n")
}

// TextML returns the newline-joined romanized-Malayalam block as persisted.
func (c *Context) TextML() string {
	lines := make([]string, len(c.Pairs))
	for i, p := range c.Pairs {
		lines[i] = p.ML
	}
	return strings.Join(lines, "\n")
}

// ContextRecord is the persisted, read-side form of a lesson's context.
type ContextRecord struct {
	ID       int64         `json:"id"`
	LessonID int64         `json:"lesson_id"`
	Level    LearningLevel `json:"level"`
	TextEN   string        `json:"text_en"`
	TextML   string        `json:"text_ml"`
}
