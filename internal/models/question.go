package models

import "time"

type QuestionType string

const (
	TypeSingleSelect  QuestionType = "single_select"
	TypeMultiSelect   QuestionType = "multi_select"
	TypeTrueFalse     QuestionType = "true_false"
	TypeTextInput     QuestionType = "text_input"
	TypeOrdering      QuestionType = "ordering"
	TypeMatchingPairs QuestionType = "matching_pairs"
)

var ValidQuestionTypes = map[QuestionType]bool{
	TypeSingleSelect:  true,
	TypeMultiSelect:   true,
	TypeTrueFalse:     true,
	TypeTextInput:     true,
	TypeOrdering:      true,
	TypeMatchingPairs: true,
}

// AllQuestionTypes lists the six generated types in generation order.
var AllQuestionTypes = [6]QuestionType{
	TypeSingleSelect,
	TypeMultiSelect,
	TypeTrueFalse,
	TypeTextInput,
	TypeOrdering,
	TypeMatchingPairs,
}

// LessonState tracks a lesson through the generation pipeline. Only committed
// lessons are ever persisted; the other states exist in memory and in logs.
type LessonState string

const (
	LessonPending             LessonState = "pending"
	LessonContextGenerating   LessonState = "context_generating"
	LessonContextAccepted     LessonState = "context_accepted"
	LessonQuestionsGenerating LessonState = "questions_generating"
	LessonCommitted           LessonState = "committed"
	LessonSkipped             LessonState = "skipped"
)

// ── Core Structs ───────────────────────────────────────

type Question struct {
	ID         int64         `json:"id"`
	LessonID   int64         `json:"lesson_id"`
	ContextID  int64         `json:"context_id,omitempty"`
	Type       QuestionType  `json:"question_type"`
	Level      LearningLevel `json:"difficulty_level"`
	PromptEN   string        `json:"prompt_en"`
	PromptML   string        `json:"prompt_ml"`
	XPValue    int           `json:"xp_value"`
	OrderIndex int           `json:"order_index"`
	IsActive   bool          `json:"is_active"`
	Answers    []Answer      `json:"answers"`
	CreatedAt  time.Time     `json:"created_at"`
}

// Answer is one option of a question. OrderIndex is 0-based and dense within
// a question; for ordering questions it is the step's correct position, for
// matching questions the pair index, and plain enumeration otherwise.
type Answer struct {
	ID         int64  `json:"id"`
	QuestionID int64  `json:"question_id"`
	TextEN     string `json:"text_en"`
	TextML     string `json:"text_ml,omitempty"`
	IsCorrect  bool   `json:"is_correct"`
	OrderIndex int    `json:"order_index"`
}

// CorrectTexts returns the EN texts of the correct answers, in answer order.
// The uniqueness ledger canonicalizes these into a question key.
func (q *Question) CorrectTexts() []string {
	var texts []string
	for _, a := range q.Answers {
		if a.IsCorrect {
			texts = append(texts, a.TextEN)
		}
	}
	return texts
}

// GeneratedLesson is the aggregate the driver commits: one lesson row, its
// context and exactly the full question set. It is persisted atomically or
// not at all.
type GeneratedLesson struct {
	Lesson    Lesson     `json:"lesson"`
	Context   Context    `json:"context"`
	Questions []Question `json:"questions"`
}

// ── Response Types ────────────────────────────────────

type LessonDetail struct {
	Lesson    Lesson        `json:"lesson"`
	Context   ContextRecord `json:"context"`
	Questions []Question    `json:"questions"`
}

type SectionListResponse struct {
	Sections []Section `json:"sections"`
	Total    int       `json:"total"`
}

type UnitListResponse struct {
	Units []Unit `json:"units"`
	Total int    `json:"total"`
}

type LessonListResponse struct {
	Lessons []Lesson `json:"lessons"`
	Total   int      `json:"total"`
}
