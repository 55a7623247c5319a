package curriculum

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/heythambi/backend/internal/generator"
	"github.com/heythambi/backend/internal/models"
)

// LessonStore is the persistence surface the driver needs. SaveLesson must
// be atomic: either the whole aggregate lands or nothing does.
type LessonStore interface {
	EnsureSection(section *models.Section) error
	EnsureUnit(unit *models.Unit) error
	LessonExists(unitID int64, slug string) (bool, error)
	SaveLesson(ctx context.Context, runID uuid.UUID, agg *models.GeneratedLesson) error
	CreateRun(run *models.GenerationRun) error
	FinishRun(run *models.GenerationRun) error
}

// Driver walks the plan in strict hierarchical order and runs the per-lesson
// state machine: pending → context_generating → context_accepted →
// questions_generating → committed, with skipped as the terminal for any
// lesson that runs out of attempts. Commit is the only persistence point, so
// stopping the process mid-run leaves only whole lessons behind and the next
// run resumes at the first slug it does not find.
type Driver struct {
	store     LessonStore
	contexts  *generator.ContextGenerator
	questions *generator.QuestionSetGenerator
	provider  string
	mode      models.RunMode
}

func NewDriver(store LessonStore, contexts *generator.ContextGenerator, questions *generator.QuestionSetGenerator, provider string, mode models.RunMode) *Driver {
	return &Driver{
		store:     store,
		contexts:  contexts,
		questions: questions,
		provider:  provider,
		mode:      mode,
	}
}

// Run executes the whole fan-out for one generation run. Generation failures
// skip the lesson and the run continues; only persistence failures and
// cancellation stop it. The returned run carries the final counters either
// way.
func (d *Driver) Run(ctx context.Context) (*models.GenerationRun, error) {
	run := &models.GenerationRun{
		ID:        uuid.New(),
		Mode:      d.mode,
		Provider:  d.provider,
		StartedAt: time.Now(),
	}
	if err := d.store.CreateRun(run); err != nil {
		return nil, fmt.Errorf("create run: %w", err)
	}

	plan := BuildPlan(d.mode)
	log.Printf("[driver] run %s started: mode=%s provider=%s sections=%d", run.ID, d.mode, d.provider, len(plan))

	err := d.walk(ctx, run, plan)

	now := time.Now()
	run.FinishedAt = &now
	if ferr := d.store.FinishRun(run); ferr != nil {
		log.Printf("[driver] WARN: could not finalize run %s: %v", run.ID, ferr)
	}
	log.Printf("[driver] run %s finished: committed=%d skipped=%d questions=%d",
		run.ID, run.LessonsCommitted, run.LessonsSkipped, run.QuestionsWritten)
	return run, err
}

func (d *Driver) walk(ctx context.Context, run *models.GenerationRun, plan []PlannedSection) error {
	for _, psec := range plan {
		section := models.Section{
			Title:       psec.Title,
			Slug:        psec.Slug,
			Description: psec.Description,
			OrderIndex:  psec.OrderIndex,
			IsActive:    true,
		}
		if err := d.store.EnsureSection(&section); err != nil {
			return fmt.Errorf("ensure section %s: %w", psec.Slug, err)
		}

		for _, punit := range psec.Units {
			unit := models.Unit{
				SectionID:   section.ID,
				Title:       punit.Title,
				Slug:        punit.Slug,
				Description: punit.Topic,
				OrderIndex:  punit.OrderIndex,
				IsActive:    true,
			}
			if err := d.store.EnsureUnit(&unit); err != nil {
				return fmt.Errorf("ensure unit %s: %w", punit.Slug, err)
			}
			log.Printf("[driver] %s / %s (%s): %d lessons", section.Slug, unit.Slug, punit.Topic, len(punit.Lessons))

			for _, plesson := range punit.Lessons {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := d.runLesson(ctx, run, unit.ID, plesson); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// runLesson drives one lesson through the state machine. A nil return means
// the lesson was committed, already present, or skipped after exhausting its
// attempts; a non-nil return is a persistence failure or cancellation.
func (d *Driver) runLesson(ctx context.Context, run *models.GenerationRun, unitID int64, pl PlannedLesson) error {
	exists, err := d.store.LessonExists(unitID, pl.Slug)
	if err != nil {
		return fmt.Errorf("check lesson %s: %w", pl.Slug, err)
	}
	if exists {
		log.Printf("[driver] %s: already committed, skipping", pl.Slug)
		return nil
	}

	log.Printf("[driver] %s: %s", pl.Slug, models.LessonContextGenerating)
	conversation, err := d.contexts.Generate(ctx, pl.Position, pl.Level, pl.Turns)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Printf("[driver] WARN: %s: %s (context: %v)", pl.Slug, models.LessonSkipped, err)
		run.LessonsSkipped++
		return nil
	}
	log.Printf("[driver] %s: %s (%d turns)", pl.Slug, models.LessonContextAccepted, conversation.TurnCount())

	log.Printf("[driver] %s: %s", pl.Slug, models.LessonQuestionsGenerating)
	questions, err := d.questions.Build(conversation, pl.Position.TopicLabel)
	if err != nil {
		log.Printf("[driver] WARN: %s: %s (questions: %v)", pl.Slug, models.LessonSkipped, err)
		run.LessonsSkipped++
		return nil
	}

	agg := &models.GeneratedLesson{
		Lesson: models.Lesson{
			UnitID:     unitID,
			Title:      pl.Title,
			Slug:       pl.Slug,
			Level:      pl.Level,
			XPReward:   models.XPForLevel(pl.Level),
			OrderIndex: pl.Position.LessonIndex,
			IsActive:   true,
		},
		Context:   *conversation,
		Questions: questions,
	}
	if err := d.store.SaveLesson(ctx, run.ID, agg); err != nil {
		return fmt.Errorf("save lesson %s: %w", pl.Slug, err)
	}

	run.LessonsCommitted++
	run.QuestionsWritten += len(questions)
	log.Printf("[driver] %s: %s (conversation: %s, %d questions)", pl.Slug, models.LessonCommitted, pl.Level, len(questions))
	return nil
}
