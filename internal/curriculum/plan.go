package curriculum

import (
	"fmt"
	"strings"

	"github.com/heythambi/backend/internal/models"
)

// The fixed fan-out: ten section topics, seven unit topics each, five lessons
// per unit. The catalogue is the curriculum's shape; the run mode is the only
// knob, and it shrinks the fan-out to 1x1x1 for smoke runs.

var sectionTopics = []string{
	"daily life", "travel", "food", "school and friends", "health",
	"internet and slang", "shopping", "work and job", "family", "festivals and culture",
}

var unitTopicsPerSection = [][]string{
	{"greetings", "introductions", "small talk", "farewell", "gratitude", "asking for help", "inviting"},
	{"bus and train", "directions", "booking tickets", "at the station", "checking in", "asking locals", "travel problems"},
	{"ordering food", "in a cafe", "at a restaurant", "complaints", "paying the bill", "recommendations", "special occasions"},
	{"classroom", "exams", "projects", "friendship", "teachers", "timetable", "after school plans"},
	{"feeling sick", "doctor visit", "pharmacy", "explaining symptoms", "getting advice", "emergencies", "weather talk"},
	{"memes", "texting", "Instagram", "WhatsApp", "slang and emojis", "online fights", "viral trends"},
	{"bargaining", "grocery", "mall shopping", "paying by UPI", "discounts", "returns", "shopping online"},
	{"meetings", "job interview", "work chat", "office parties", "emails", "deadlines", "boss-talk"},
	{"family gathering", "weddings", "siblings", "talking to parents", "household chores", "arguments", "support and comfort"},
	{"onam", "vishu", "going to temple", "local sports", "movie talk", "festive eating", "dressing for festivals"},
}

const lessonsPerUnit = 5

// conversationTurns is every lesson's conversation length. Five is the floor:
// a lesson hosts six matching and six multi-select questions that each take a
// three-line subset of the conversation, and the run ledger rejects repeated
// subsets. Five lines give ten distinct three-line subsets; four give only
// four, which cannot cover six slots.
const conversationTurns = 5

type PlannedSection struct {
	Topic       string
	Title       string
	Slug        string
	Description string
	OrderIndex  int
	Units       []PlannedUnit
}

type PlannedUnit struct {
	Topic      string
	Title      string
	Slug       string
	OrderIndex int
	Lessons    []PlannedLesson
}

// PlannedLesson fixes everything about a lesson that does not depend on the
// provider: its slot in the hierarchy, the conversation difficulty, and the
// turn count its question set needs.
type PlannedLesson struct {
	Position models.CurriculumPosition
	Title    string
	Slug     string
	Level    models.LearningLevel
	Turns    int
}

// BuildPlan expands the run mode into the concrete lesson list. Full mode is
// the whole catalogue; smoke mode is one lesson, enough to exercise every
// pipeline stage end to end.
func BuildPlan(mode models.RunMode) []PlannedSection {
	numSections := len(sectionTopics)
	numUnits := len(unitTopicsPerSection[0])
	numLessons := lessonsPerUnit
	if mode == models.RunModeSmoke {
		numSections, numUnits, numLessons = 1, 1, 1
	}

	sections := make([]PlannedSection, 0, numSections)
	for si := 0; si < numSections; si++ {
		topic := sectionTopics[si]
		sec := PlannedSection{
			Topic:       topic,
			Title:       fmt.Sprintf("Section %d", si+1),
			Slug:        slugify(topic),
			Description: titleCase(topic),
			OrderIndex:  si,
		}

		unitTopics := unitTopicsPerSection[si]
		for ui := 0; ui < numUnits && ui < len(unitTopics); ui++ {
			unit := PlannedUnit{
				Topic:      unitTopics[ui],
				Title:      fmt.Sprintf("Unit %d", ui+1),
				Slug:       slugify(unitTopics[ui]),
				OrderIndex: ui,
			}

			for li := 0; li < numLessons; li++ {
				level := models.QuestionTiers[li%len(models.QuestionTiers)]
				unit.Lessons = append(unit.Lessons, PlannedLesson{
					Position: models.CurriculumPosition{
						SectionIndex: si,
						UnitIndex:    ui,
						LessonIndex:  li,
						TopicLabel:   unitTopics[ui],
					},
					Title: fmt.Sprintf("Lesson %d", li+1),
					Slug:  fmt.Sprintf("%s-lesson-%d", unit.Slug, li+1),
					Level: level,
					Turns: conversationTurns,
				})
			}
			sec.Units = append(sec.Units, unit)
		}
		sections = append(sections, sec)
	}
	return sections
}

func slugify(topic string) string {
	return strings.ReplaceAll(strings.ToLower(topic), " ", "-")
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
