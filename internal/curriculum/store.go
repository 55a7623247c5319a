package curriculum

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/heythambi/backend/internal/models"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// ── Hierarchy (idempotent select-or-insert) ─────────────

// EnsureSection fills in the stored row for the slug, inserting it on first
// sight. Re-running the seeder against a seeded database is a no-op here.
func (s *Store) EnsureSection(section *models.Section) error {
	err := s.db.QueryRow(
		`SELECT id, title, slug, description, order_index, is_active, created_at, updated_at
		 FROM sections WHERE slug = $1`,
		section.Slug,
	).Scan(&section.ID, &section.Title, &section.Slug, &section.Description,
		&section.OrderIndex, &section.IsActive, &section.CreatedAt, &section.UpdatedAt)
	if err == nil {
		return nil
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("select section: %w", err)
	}

	err = s.db.QueryRow(
		`INSERT INTO sections (title, slug, description, order_index, is_active)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		section.Title, section.Slug, section.Description, section.OrderIndex, section.IsActive,
	).Scan(&section.ID, &section.CreatedAt, &section.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert section: %w", err)
	}
	return nil
}

func (s *Store) EnsureUnit(unit *models.Unit) error {
	err := s.db.QueryRow(
		`SELECT id, section_id, title, slug, description, order_index, is_active, created_at, updated_at
		 FROM units WHERE section_id = $1 AND slug = $2`,
		unit.SectionID, unit.Slug,
	).Scan(&unit.ID, &unit.SectionID, &unit.Title, &unit.Slug, &unit.Description,
		&unit.OrderIndex, &unit.IsActive, &unit.CreatedAt, &unit.UpdatedAt)
	if err == nil {
		return nil
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("select unit: %w", err)
	}

	err = s.db.QueryRow(
		`INSERT INTO units (section_id, title, slug, description, order_index, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`,
		unit.SectionID, unit.Title, unit.Slug, unit.Description, unit.OrderIndex, unit.IsActive,
	).Scan(&unit.ID, &unit.CreatedAt, &unit.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert unit: %w", err)
	}
	return nil
}

// LessonExists is the resumability check: a committed lesson's slug is the
// durable marker that its whole aggregate landed.
func (s *Store) LessonExists(unitID int64, slug string) (bool, error) {
	var id int64
	err := s.db.QueryRow(
		`SELECT id FROM lessons WHERE unit_id = $1 AND slug = $2`,
		unitID, slug,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check lesson: %w", err)
	}
	return true, nil
}

// ── Lesson Commit ───────────────────────────────────────

// SaveLesson writes the lesson row, its context and every question with its
// answers in one transaction. A reader of the store never sees a partial
// lesson: until Commit returns, the lesson does not exist.
func (s *Store) SaveLesson(ctx context.Context, runID uuid.UUID, agg *models.GeneratedLesson) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var lessonID int64
	err = tx.QueryRow(
		`INSERT INTO lessons (unit_id, title, slug, level, xp_reward, order_index, is_active, run_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		agg.Lesson.UnitID, agg.Lesson.Title, agg.Lesson.Slug, agg.Lesson.Level,
		agg.Lesson.XPReward, agg.Lesson.OrderIndex, agg.Lesson.IsActive, runID,
	).Scan(&lessonID)
	if err != nil {
		return fmt.Errorf("insert lesson: %w", err)
	}

	var contextID int64
	err = tx.QueryRow(
		`INSERT INTO meme_contexts (lesson_id, level, context_text_en, context_text_ml, is_active)
		 VALUES ($1, $2, $3, $4, TRUE)
		 RETURNING id`,
		lessonID, agg.Context.Level, agg.Context.TextEN(), agg.Context.TextML(),
	).Scan(&contextID)
	if err != nil {
		return fmt.Errorf("insert context: %w", err)
	}

	for _, q := range agg.Questions {
		var questionID int64
		err = tx.QueryRow(
			`INSERT INTO quiz_questions
			 (lesson_id, meme_context_id, question_type, difficulty_level, prompt_en, prompt_ml,
			  xp_value, order_index, is_active)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			 RETURNING id`,
			lessonID, contextID, q.Type, q.Level, q.PromptEN, q.PromptML,
			q.XPValue, q.OrderIndex, q.IsActive,
		).Scan(&questionID)
		if err != nil {
			return fmt.Errorf("insert question %d: %w", q.OrderIndex, err)
		}

		for _, a := range q.Answers {
			_, err = tx.Exec(
				`INSERT INTO quiz_answers (question_id, answer_text_en, answer_text_ml, is_correct, order_index)
				 VALUES ($1, $2, $3, $4, $5)`,
				questionID, a.TextEN, nullString(a.TextML), a.IsCorrect, a.OrderIndex,
			)
			if err != nil {
				return fmt.Errorf("insert answer: %w", err)
			}
		}
	}

	return tx.Commit()
}

// ── Run Bookkeeping ─────────────────────────────────────

func (s *Store) CreateRun(run *models.GenerationRun) error {
	_, err := s.db.Exec(
		`INSERT INTO generation_runs (id, mode, provider, started_at)
		 VALUES ($1, $2, $3, $4)`,
		run.ID, run.Mode, run.Provider, run.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("create run: %w", err)
	}
	return nil
}

func (s *Store) FinishRun(run *models.GenerationRun) error {
	_, err := s.db.Exec(
		`UPDATE generation_runs
		 SET lessons_committed = $1, lessons_skipped = $2, questions_written = $3, finished_at = $4
		 WHERE id = $5`,
		run.LessonsCommitted, run.LessonsSkipped, run.QuestionsWritten, run.FinishedAt, run.ID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

func (s *Store) ListRuns(limit int) ([]models.GenerationRun, error) {
	rows, err := s.db.Query(
		`SELECT id, mode, provider, lessons_committed, lessons_skipped, questions_written,
		        started_at, finished_at
		 FROM generation_runs ORDER BY started_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []models.GenerationRun
	for rows.Next() {
		var r models.GenerationRun
		if err := rows.Scan(&r.ID, &r.Mode, &r.Provider, &r.LessonsCommitted,
			&r.LessonsSkipped, &r.QuestionsWritten, &r.StartedAt, &r.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// ── Content Read Queries ────────────────────────────────

func (s *Store) ListSections() ([]models.Section, error) {
	rows, err := s.db.Query(
		`SELECT id, title, slug, description, order_index, is_active, created_at, updated_at
		 FROM sections WHERE is_active = TRUE ORDER BY order_index`,
	)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	defer rows.Close()

	var sections []models.Section
	for rows.Next() {
		var sec models.Section
		if err := rows.Scan(&sec.ID, &sec.Title, &sec.Slug, &sec.Description,
			&sec.OrderIndex, &sec.IsActive, &sec.CreatedAt, &sec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan section: %w", err)
		}
		sections = append(sections, sec)
	}
	return sections, rows.Err()
}

func (s *Store) ListUnits(sectionID int64) ([]models.Unit, error) {
	rows, err := s.db.Query(
		`SELECT id, section_id, title, slug, description, order_index, is_active, created_at, updated_at
		 FROM units WHERE section_id = $1 AND is_active = TRUE ORDER BY order_index`,
		sectionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	defer rows.Close()

	var units []models.Unit
	for rows.Next() {
		var u models.Unit
		if err := rows.Scan(&u.ID, &u.SectionID, &u.Title, &u.Slug, &u.Description,
			&u.OrderIndex, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan unit: %w", err)
		}
		units = append(units, u)
	}
	return units, rows.Err()
}

func (s *Store) ListLessons(unitID int64) ([]models.Lesson, error) {
	rows, err := s.db.Query(
		`SELECT id, unit_id, title, slug, COALESCE(summary, ''), level, xp_reward,
		        order_index, is_active, run_id, created_at, updated_at
		 FROM lessons WHERE unit_id = $1 AND is_active = TRUE ORDER BY order_index`,
		unitID,
	)
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	defer rows.Close()

	var lessons []models.Lesson
	for rows.Next() {
		var l models.Lesson
		var runID uuid.NullUUID
		if err := rows.Scan(&l.ID, &l.UnitID, &l.Title, &l.Slug, &l.Summary, &l.Level,
			&l.XPReward, &l.OrderIndex, &l.IsActive, &runID, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan lesson: %w", err)
		}
		if runID.Valid {
			l.RunID = &runID.UUID
		}
		lessons = append(lessons, l)
	}
	return lessons, rows.Err()
}

// GetLessonDetail loads the full committed aggregate back out: lesson row,
// context block and every question with its answers in order.
func (s *Store) GetLessonDetail(lessonID int64) (*models.LessonDetail, error) {
	var detail models.LessonDetail
	var runID uuid.NullUUID
	err := s.db.QueryRow(
		`SELECT id, unit_id, title, slug, COALESCE(summary, ''), level, xp_reward,
		        order_index, is_active, run_id, created_at, updated_at
		 FROM lessons WHERE id = $1`,
		lessonID,
	).Scan(&detail.Lesson.ID, &detail.Lesson.UnitID, &detail.Lesson.Title, &detail.Lesson.Slug,
		&detail.Lesson.Summary, &detail.Lesson.Level, &detail.Lesson.XPReward,
		&detail.Lesson.OrderIndex, &detail.Lesson.IsActive, &runID,
		&detail.Lesson.CreatedAt, &detail.Lesson.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("get lesson: %w", err)
	}
	if runID.Valid {
		detail.Lesson.RunID = &runID.UUID
	}

	err = s.db.QueryRow(
		`SELECT id, lesson_id, level, context_text_en, context_text_ml
		 FROM meme_contexts WHERE lesson_id = $1 AND is_active = TRUE`,
		lessonID,
	).Scan(&detail.Context.ID, &detail.Context.LessonID, &detail.Context.Level,
		&detail.Context.TextEN, &detail.Context.TextML)
	if err != nil {
		return nil, fmt.Errorf("get context: %w", err)
	}

	questions, err := s.getQuestionsForLesson(lessonID)
	if err != nil {
		return nil, err
	}
	detail.Questions = questions
	return &detail, nil
}

func (s *Store) getQuestionsForLesson(lessonID int64) ([]models.Question, error) {
	rows, err := s.db.Query(
		`SELECT id, lesson_id, meme_context_id, question_type, difficulty_level,
		        prompt_en, prompt_ml, xp_value, order_index, is_active, created_at
		 FROM quiz_questions WHERE lesson_id = $1 AND is_active = TRUE ORDER BY order_index`,
		lessonID,
	)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	var questions []models.Question
	for rows.Next() {
		var q models.Question
		var contextID sql.NullInt64
		if err := rows.Scan(&q.ID, &q.LessonID, &contextID, &q.Type, &q.Level,
			&q.PromptEN, &q.PromptML, &q.XPValue, &q.OrderIndex, &q.IsActive, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		q.ContextID = contextID.Int64
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range questions {
		answers, err := s.getAnswersForQuestion(questions[i].ID)
		if err != nil {
			return nil, err
		}
		questions[i].Answers = answers
	}
	return questions, nil
}

func (s *Store) getAnswersForQuestion(questionID int64) ([]models.Answer, error) {
	rows, err := s.db.Query(
		`SELECT id, question_id, answer_text_en, COALESCE(answer_text_ml, ''), is_correct, order_index
		 FROM quiz_answers WHERE question_id = $1 ORDER BY order_index`,
		questionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	defer rows.Close()

	var answers []models.Answer
	for rows.Next() {
		var a models.Answer
		if err := rows.Scan(&a.ID, &a.QuestionID, &a.TextEN, &a.TextML, &a.IsCorrect, &a.OrderIndex); err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

func nullString(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
