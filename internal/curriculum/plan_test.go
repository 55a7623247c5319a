package curriculum

import (
	"testing"

	"github.com/heythambi/backend/internal/models"
)

func TestBuildPlan_FullFanOut(t *testing.T) {
	plan := BuildPlan(models.RunModeFull)

	if len(plan) != 10 {
		t.Fatalf("expected 10 sections, got %d", len(plan))
	}

	lessons := 0
	for si, sec := range plan {
		if len(sec.Units) != 7 {
			t.Errorf("section %d: expected 7 units, got %d", si, len(sec.Units))
		}
		if sec.OrderIndex != si {
			t.Errorf("section %d: expected order index %d, got %d", si, si, sec.OrderIndex)
		}
		for ui, unit := range sec.Units {
			if len(unit.Lessons) != 5 {
				t.Errorf("section %d unit %d: expected 5 lessons, got %d", si, ui, len(unit.Lessons))
			}
			lessons += len(unit.Lessons)
		}
	}
	if lessons != 350 {
		t.Errorf("expected 350 lessons in the full fan-out, got %d", lessons)
	}
}

func TestBuildPlan_SmokeFanOut(t *testing.T) {
	plan := BuildPlan(models.RunModeSmoke)

	if len(plan) != 1 {
		t.Fatalf("expected 1 section in smoke mode, got %d", len(plan))
	}
	if len(plan[0].Units) != 1 {
		t.Fatalf("expected 1 unit in smoke mode, got %d", len(plan[0].Units))
	}
	if len(plan[0].Units[0].Lessons) != 1 {
		t.Fatalf("expected 1 lesson in smoke mode, got %d", len(plan[0].Units[0].Lessons))
	}
}

func TestBuildPlan_LevelsCycleAndTurnsCoverQuestionSets(t *testing.T) {
	plan := BuildPlan(models.RunModeFull)
	unit := plan[0].Units[0]

	wantLevels := []models.LearningLevel{
		models.LevelBeginner, models.LevelIntermediate, models.LevelAdvanced,
		models.LevelBeginner, models.LevelIntermediate,
	}
	for i, lesson := range unit.Lessons {
		if lesson.Level != wantLevels[i] {
			t.Errorf("lesson %d: expected level %s, got %s", i, wantLevels[i], lesson.Level)
		}
		// A 4-turn conversation has only four distinct three-line subsets,
		// not enough for the six matching and six multi-select slots a
		// lesson hosts under a ledger that rejects repeats. Five turns is
		// the minimum for every lesson, not just advanced ones.
		if lesson.Turns != 5 {
			t.Errorf("lesson %d: expected 5 turns, got %d", i, lesson.Turns)
		}
	}
}

func TestBuildPlan_SlugsAndPositions(t *testing.T) {
	plan := BuildPlan(models.RunModeFull)

	sectionSlugs := make(map[string]bool)
	for si, sec := range plan {
		if sectionSlugs[sec.Slug] {
			t.Errorf("duplicate section slug %q", sec.Slug)
		}
		sectionSlugs[sec.Slug] = true

		for ui, unit := range sec.Units {
			lessonSlugs := make(map[string]bool)
			for li, lesson := range unit.Lessons {
				if lessonSlugs[lesson.Slug] {
					t.Errorf("duplicate lesson slug %q in unit %s", lesson.Slug, unit.Slug)
				}
				lessonSlugs[lesson.Slug] = true

				pos := lesson.Position
				if pos.SectionIndex != si || pos.UnitIndex != ui || pos.LessonIndex != li {
					t.Errorf("lesson %s: position (%d,%d,%d) does not match loop counters (%d,%d,%d)",
						lesson.Slug, pos.SectionIndex, pos.UnitIndex, pos.LessonIndex, si, ui, li)
				}
				if pos.TopicLabel != unit.Topic {
					t.Errorf("lesson %s: topic %q does not match unit topic %q", lesson.Slug, pos.TopicLabel, unit.Topic)
				}
			}
		}
	}

	if got := plan[0].Units[0].Lessons[0].Slug; got != "greetings-lesson-1" {
		t.Errorf("expected slug greetings-lesson-1, got %q", got)
	}
}
