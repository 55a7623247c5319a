package generator

import (
	"fmt"

	"github.com/heythambi/backend/internal/models"
)

// Scenario framings rotated across lessons. Consecutive lessons on the same
// unit topic land on different framings, and each regeneration attempt
// advances the index again so a rejected duplicate is never retried with the
// setup that produced it.
var conversationScenarios = []string{
	"two friends meeting at a %s place",
	"a customer and shopkeeper discussing %s",
	"two strangers starting a conversation about %s",
	"a teacher and student talking about %s",
	"two colleagues chatting about %s",
	"family members discussing %s",
	"someone asking for help with %s",
	"people making plans related to %s",
	"someone giving advice about %s",
	"two people sharing experiences about %s",
}

var conversationSettings = []string{
	"in the morning",
	"in the evening",
	"at a cafe",
	"on the street",
	"at home",
	"at work",
	"on the phone",
	"at a bus stop",
	"in a shop",
	"at school",
}

// Phrases the provider reaches for constantly. Banning them in the prompt is
// cheaper than burning regeneration attempts on duplicate contexts.
var overusedPhrases = []string{
	"Namaskaram, ningalude peru enthanu?",
	"Ente peru [name]",
}

var levelGuidance = map[models.LearningLevel]string{
	models.LevelBeginner:     "Use very short sentences with everyday words. One idea per line.",
	models.LevelBasic:        "Use short sentences with common vocabulary and simple connectors.",
	models.LevelIntermediate: "Use natural conversational sentences with some idiomatic phrasing.",
	models.LevelAdvanced:     "Use longer natural sentences, colloquial expressions, and references to daily life in Kerala.",
	models.LevelFluent:       "Use fully natural native-speed phrasing, including slang where it fits the speakers.",
}

func ConversationSystemPrompt() string {
	return `You are a Malayalam language tutor writing practice conversations for English-speaking learners. You write natural, everyday Malayalam as actually spoken in Kerala, romanized into English letters (Manglish).

FORMAT RULES:
- Output conversation lines only, nothing else
- Alternate strictly: one English line, then its romanized Malayalam line
- NO Malayalam script anywhere — only English letters
- NO speaker names, numbering, labels, or prefixes on any line
- NO markdown and no commentary before or after the conversation`
}

// BuildConversationPrompt assembles the user prompt for one conversation.
// The scenario index mixes the lesson's position with the attempt number, so
// back-to-back lessons on the same topic, and retries after a duplicate, both
// ask for a different framing. The setting varies by unit.
func BuildConversationPrompt(pos models.CurriculumPosition, level models.LearningLevel, turns, attempt int) string {
	scenario := fmt.Sprintf(conversationScenarios[(pos.LessonIndex+attempt)%len(conversationScenarios)], pos.TopicLabel)
	setting := conversationSettings[pos.UnitIndex%len(conversationSettings)]

	var banned string
	for _, p := range overusedPhrases {
		banned += fmt.Sprintf("   - %q\n", p)
	}

	return fmt.Sprintf(`Create a UNIQUE and ORIGINAL %d-turn conversation between %s %s.

Topic: %s
Level: %s. %s

CRITICAL REQUIREMENTS:
1. EXACTLY %d turns — that is %d lines total (%d English, %d Malayalam)
2. DO NOT use these overused phrases:
%s3. Avoid greetings-only small talk unless the topic itself is greetings
4. Every line must be distinct — no repeated sentences`,
		turns, scenario, setting,
		pos.TopicLabel,
		level, levelGuidance[level],
		turns, turns*2, turns, turns,
		banned)
}
