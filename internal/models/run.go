package models

import (
	"time"

	"github.com/google/uuid"
)

type RunMode string

const (
	RunModeFull  RunMode = "full"
	RunModeSmoke RunMode = "smoke"
)

// GenerationRun records one invocation of the curriculum seeder. Counters are
// finalized when the run ends; a missing FinishedAt means the run was
// interrupted (committed lessons from it remain valid).
type GenerationRun struct {
	ID               uuid.UUID  `json:"id"`
	Mode             RunMode    `json:"mode"`
	Provider         string     `json:"provider"`
	LessonsCommitted int        `json:"lessons_committed"`
	LessonsSkipped   int        `json:"lessons_skipped"`
	QuestionsWritten int        `json:"questions_written"`
	StartedAt        time.Time  `json:"started_at"`
	FinishedAt       *time.Time `json:"finished_at,omitempty"`
}
