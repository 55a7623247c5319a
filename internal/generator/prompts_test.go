package generator

import (
	"strings"
	"testing"

	"github.com/heythambi/backend/internal/models"
)

func TestConversationSystemPrompt(t *testing.T) {
	prompt := ConversationSystemPrompt()

	required := []string{"Malayalam", "Manglish", "Alternate strictly", "NO Malayalam script", "English letters", "NO markdown"}
	for _, keyword := range required {
		if !strings.Contains(prompt, keyword) {
			t.Errorf("system prompt missing keyword %q", keyword)
		}
	}
}

func TestBuildConversationPrompt(t *testing.T) {
	pos := models.CurriculumPosition{SectionIndex: 2, UnitIndex: 0, LessonIndex: 0, TopicLabel: "ordering food"}
	prompt := BuildConversationPrompt(pos, models.LevelBeginner, 5, 0)

	required := []string{
		"5-turn",
		"Topic: ordering food",
		"EXACTLY 5 turns",
		"10 lines",
		string(models.LevelBeginner),
		"Namaskaram, ningalude peru enthanu?",
	}
	for _, keyword := range required {
		if !strings.Contains(prompt, keyword) {
			t.Errorf("user prompt missing %q", keyword)
		}
	}
}

func TestBuildConversationPrompt_LevelGuidanceInjected(t *testing.T) {
	pos := models.CurriculumPosition{TopicLabel: "weddings"}
	for level, guidance := range levelGuidance {
		prompt := BuildConversationPrompt(pos, level, 5, 0)
		if !strings.Contains(prompt, guidance) {
			t.Errorf("level %s: guidance not found in prompt", level)
		}
	}
}

func TestBuildConversationPrompt_ConsecutiveLessonsDiffer(t *testing.T) {
	base := models.CurriculumPosition{SectionIndex: 0, UnitIndex: 3, TopicLabel: "farewell"}

	seen := make(map[string]int)
	for i := 0; i < 5; i++ {
		pos := base
		pos.LessonIndex = i
		prompt := BuildConversationPrompt(pos, models.LevelBeginner, 5, 0)
		scenario := strings.SplitN(prompt, "\n", 2)[0]
		if prev, dup := seen[scenario]; dup {
			t.Errorf("lessons %d and %d share the scenario framing: %q", prev, i, scenario)
		}
		seen[scenario] = i
	}
}

func TestBuildConversationPrompt_RetriesChangeScenario(t *testing.T) {
	pos := models.CurriculumPosition{UnitIndex: 1, LessonIndex: 2, TopicLabel: "exams"}

	first := BuildConversationPrompt(pos, models.LevelIntermediate, 5, 0)
	second := BuildConversationPrompt(pos, models.LevelIntermediate, 5, 1)
	if first == second {
		t.Error("a regeneration attempt should not reuse the rejected prompt")
	}
}

func TestBuildConversationPrompt_SettingVariesByUnit(t *testing.T) {
	a := models.CurriculumPosition{UnitIndex: 0, TopicLabel: "greetings"}
	b := models.CurriculumPosition{UnitIndex: 2, TopicLabel: "greetings"}

	promptA := BuildConversationPrompt(a, models.LevelBeginner, 5, 0)
	promptB := BuildConversationPrompt(b, models.LevelBeginner, 5, 0)

	if !strings.Contains(promptA, conversationSettings[0]) {
		t.Errorf("unit 0 prompt missing its setting %q", conversationSettings[0])
	}
	if !strings.Contains(promptB, conversationSettings[2]) {
		t.Errorf("unit 2 prompt missing its setting %q", conversationSettings[2])
	}
}

func TestScenarioAndSettingTablesDistinct(t *testing.T) {
	seen := make(map[string]bool)
	for _, s := range conversationScenarios {
		if seen[s] {
			t.Errorf("scenario %q appears twice", s)
		}
		seen[s] = true
		if !strings.Contains(s, "%s") {
			t.Errorf("scenario %q has no topic slot", s)
		}
	}

	seen = make(map[string]bool)
	for _, s := range conversationSettings {
		if seen[s] {
			t.Errorf("setting %q appears twice", s)
		}
		seen[s] = true
	}
}
