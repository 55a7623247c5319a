package generator

import (
	"fmt"
	"log"
	"math/rand"
	"sort"
	"strings"

	"github.com/heythambi/backend/internal/models"
)

const (
	defaultQuestionAttempts = 10
	slotsPerType            = 3
)

// Tier-dependent shape parameters.
var (
	orderingStepCount = map[models.LearningLevel]int{
		models.LevelBeginner:     2,
		models.LevelIntermediate: 3,
		models.LevelAdvanced:     4,
	}
	matchingPairCount = map[models.LearningLevel]int{
		models.LevelBeginner:     3,
		models.LevelIntermediate: 3,
		models.LevelAdvanced:     4,
	}
	multiSelectCorrectCount = map[models.LearningLevel]int{
		models.LevelBeginner:     2,
		models.LevelIntermediate: 3,
		models.LevelAdvanced:     3,
	}
)

// QuestionSetGenerator assembles a lesson's questions locally: the accepted
// conversation and the step catalogue supply all material, so building the
// set costs no provider calls.
type QuestionSetGenerator struct {
	rng    *rand.Rand
	ledger *Ledger

	// built counts completed Build calls. It salts the fallback templates
	// so lessons that share a unit topic fall back to different catalogue
	// steps instead of colliding in the ledger.
	built int

	// Attempts bounds how many rejected constructions one slot tolerates
	// before the deterministic fallback.
	Attempts int
}

func NewQuestionSetGenerator(rng *rand.Rand, ledger *Ledger) *QuestionSetGenerator {
	return &QuestionSetGenerator{
		rng:      rng,
		ledger:   ledger,
		Attempts: envInt(envQuestionAttempts, defaultQuestionAttempts),
	}
}

// Build produces the full 54-question set for one lesson: for each of the
// three tiers, three questions of each of the six types. An error means a
// slot could not be filled even by its fallback, and the lesson must not
// commit.
func (g *QuestionSetGenerator) Build(c *models.Context, topic string) ([]models.Question, error) {
	questions := make([]models.Question, 0, len(models.QuestionTiers)*len(models.AllQuestionTypes)*slotsPerType)

	serial := g.built
	g.built++

	orderIndex := 0
	for tierIdx, tier := range models.QuestionTiers {
		for _, qtype := range models.AllQuestionTypes {
			for slot := 0; slot < slotsPerType; slot++ {
				q, err := g.fillSlot(c, topic, serial, qtype, tier, tierIdx, slot)
				if err != nil {
					return nil, fmt.Errorf("%s %s slot %d: %w", tier, qtype, slot+1, err)
				}
				q.OrderIndex = orderIndex
				orderIndex++
				questions = append(questions, *q)
			}
		}
	}

	return questions, nil
}

func (g *QuestionSetGenerator) fillSlot(c *models.Context, topic string, serial int, qtype models.QuestionType, tier models.LearningLevel, tierIdx, slot int) (*models.Question, error) {
	var lastReason string
	for attempt := 0; attempt < g.Attempts; attempt++ {
		q := g.buildOne(c, topic, qtype, tier, tierIdx, slot, attempt)
		reason, ok := g.accept(q)
		if ok {
			return q, nil
		}
		lastReason = reason
	}

	q := fallbackQuestion(topic, serial, qtype, tier, tierIdx, slot)
	if reason, ok := g.accept(q); !ok {
		return nil, fmt.Errorf("fallback rejected (%s) after %d attempts (last: %s): %w",
			reason, g.Attempts, lastReason, ErrExhaustedRetries)
	}
	log.Printf("[questions] WARN: %s %s slot %d used the template fallback after %d attempts (last: %s)",
		tier, qtype, slot+1, g.Attempts, lastReason)
	return q, nil
}

// accept runs the structural checks and the run ledger in the order the
// ledger contract requires: check first, record only what passed.
func (g *QuestionSetGenerator) accept(q *models.Question) (string, bool) {
	if violations := ValidateQuestion(q); len(violations) > 0 {
		return violationsString(violations), false
	}
	answers := canonicalAnswers(q)
	if g.ledger.IsDuplicateQuestion(q.Type, answers) {
		return "duplicate of an accepted question", false
	}
	g.ledger.RecordQuestion(q.Type, answers)
	return "", true
}

// canonicalAnswers is a question's identity for the run ledger. Correct
// answer texts identify ordering sequences, matching sets, and multi-select
// groups on their own; for claim-style and fill-in types the corrects are a
// bare boolean or a single phrase, so the prompt joins the tuple to keep the
// key meaningful.
func canonicalAnswers(q *models.Question) []string {
	texts := q.CorrectTexts()
	switch q.Type {
	case models.TypeTrueFalse, models.TypeSingleSelect, models.TypeTextInput:
		texts = append(texts, q.PromptEN)
	}
	return texts
}

func (g *QuestionSetGenerator) buildOne(c *models.Context, topic string, qtype models.QuestionType, tier models.LearningLevel, tierIdx, slot, attempt int) *models.Question {
	switch qtype {
	case models.TypeSingleSelect:
		return g.buildSingleSelect(c, tier, slot)
	case models.TypeMultiSelect:
		return g.buildMultiSelect(c, tier)
	case models.TypeTrueFalse:
		return g.buildTrueFalse(c, tier, tierIdx*slotsPerType+slot, attempt)
	case models.TypeTextInput:
		return g.buildTextInput(c, tier)
	case models.TypeOrdering:
		return g.buildOrdering(topic, tier, slot, attempt)
	case models.TypeMatchingPairs:
		return g.buildMatching(c, tier)
	default:
		return &models.Question{Type: qtype, Level: tier}
	}
}

// ── Per-Type Builders ──────────────────────────────────────

// Prompt phrasings for single-select, rotated by slot. The run ledger keys a
// single-select on its correct text plus its prompt, so each phrasing opens a
// separate keyspace over the same conversation: three phrasings over five
// lines cover the nine slots with room for retries.
var singleSelectTemplates = []struct {
	en, ml string
}{
	{"What does this mean: '%s'?", "Ithu enthaanu artham: '%s'?"},
	{"Which option means '%s'?", "'%s' ennathinte artham ethu?"},
	{"Choose the Malayalam for: '%s'", "'%s' inte Malayalam thiranjedukuka"},
}

// buildSingleSelect asks for the meaning of one conversation line. The
// correct answer is always a line of the conversation itself; distractors
// come from the other lines first, with the stock pool only topping up what
// a short conversation cannot supply.
func (g *QuestionSetGenerator) buildSingleSelect(c *models.Context, level models.LearningLevel, slot int) *models.Question {
	pick := c.Pairs[g.rng.Intn(len(c.Pairs))]
	tmpl := singleSelectTemplates[slot%len(singleSelectTemplates)]

	options := []string{pick.ML}
	for _, idx := range g.rng.Perm(len(c.Pairs)) {
		if len(options) == 4 {
			break
		}
		if !containsNormalized(options, c.Pairs[idx].ML) {
			options = append(options, c.Pairs[idx].ML)
		}
	}
	for _, d := range stockDistractors {
		if len(options) == 4 {
			break
		}
		if !containsNormalized(options, d) {
			options = append(options, d)
		}
	}

	q := &models.Question{
		Type:     models.TypeSingleSelect,
		Level:    level,
		PromptEN: fmt.Sprintf(tmpl.en, pick.EN),
		PromptML: fmt.Sprintf(tmpl.ml, pick.EN),
		XPValue:  models.XPForLevel(level),
		IsActive: true,
	}
	g.rng.Shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })
	for i, opt := range options {
		q.Answers = append(q.Answers, models.Answer{
			TextEN:     opt,
			IsCorrect:  normalizeLine(opt) == normalizeLine(pick.ML),
			OrderIndex: i,
		})
	}
	return q
}

func (g *QuestionSetGenerator) buildMultiSelect(c *models.Context, level models.LearningLevel) *models.Question {
	correctCount := multiSelectCorrectCount[level]
	if correctCount > len(c.Pairs) {
		correctCount = len(c.Pairs)
	}

	var answers []models.Answer
	var used []string
	for _, idx := range g.rng.Perm(len(c.Pairs))[:correctCount] {
		p := c.Pairs[idx]
		answers = append(answers, models.Answer{TextEN: p.EN, TextML: p.ML, IsCorrect: true})
		used = append(used, p.EN)
	}

	wrongs := 0
	for _, idx := range g.rng.Perm(len(genericWrongAnswers)) {
		if wrongs == 2 {
			break
		}
		w := genericWrongAnswers[idx]
		if containsNormalized(used, w) {
			continue
		}
		answers = append(answers, models.Answer{TextEN: w, TextML: wrongAnswerTranslations[w], IsCorrect: false})
		used = append(used, w)
		wrongs++
	}

	g.rng.Shuffle(len(answers), func(i, j int) { answers[i], answers[j] = answers[j], answers[i] })
	for i := range answers {
		answers[i].OrderIndex = i
	}

	return &models.Question{
		Type:     models.TypeMultiSelect,
		Level:    level,
		PromptEN: "Which of these are responses in the conversation?",
		PromptML: "Ivayil ethokkeya samsaarathil ullathu?",
		XPValue:  models.XPForLevel(level),
		IsActive: true,
		Answers:  answers,
	}
}

// buildTrueFalse alternates the wanted truth value by slot ordinal so true
// and false stay balanced across the set. The first attempt claims a line's
// communicative function; retries switch to meaning claims, which have far
// more room before the ledger starts rejecting repeats.
func (g *QuestionSetGenerator) buildTrueFalse(c *models.Context, level models.LearningLevel, ordinal, attempt int) *models.Question {
	wantTrue := ordinal%2 == 0

	var promptEN, promptML string
	if attempt == 0 {
		for _, idx := range g.rng.Perm(len(c.Pairs)) {
			p := c.Pairs[idx]
			if isGreetingLine(p.EN) == wantTrue {
				promptEN = fmt.Sprintf("'%s' is a greeting.", p.EN)
				promptML = fmt.Sprintf("'%s' oru abhivaadanamanu.", p.EN)
				break
			}
		}
	}
	if promptEN == "" {
		p := c.Pairs[g.rng.Intn(len(c.Pairs))]
		ml := p.ML
		if !wantTrue {
			ml = g.wrongMeaning(c, p)
		}
		promptEN = fmt.Sprintf("'%s' means '%s'.", p.EN, ml)
		promptML = fmt.Sprintf("'%s' ennathinte artham '%s' aanu.", p.EN, ml)
	}

	return &models.Question{
		Type:     models.TypeTrueFalse,
		Level:    level,
		PromptEN: promptEN,
		PromptML: promptML,
		XPValue:  models.XPForLevel(level),
		IsActive: true,
		Answers: []models.Answer{
			{TextEN: "True", TextML: "Sheriyaanu", IsCorrect: wantTrue, OrderIndex: 0},
			{TextEN: "False", TextML: "Thettaanu", IsCorrect: !wantTrue, OrderIndex: 1},
		},
	}
}

func (g *QuestionSetGenerator) wrongMeaning(c *models.Context, right models.LinePair) string {
	for _, idx := range g.rng.Perm(len(c.Pairs)) {
		if other := c.Pairs[idx].ML; normalizeLine(other) != normalizeLine(right.ML) {
			return other
		}
	}
	for _, idx := range g.rng.Perm(len(stockDistractors)) {
		if d := stockDistractors[idx]; normalizeLine(d) != normalizeLine(right.ML) {
			return d
		}
	}
	return stockDistractors[0]
}

func (g *QuestionSetGenerator) buildTextInput(c *models.Context, level models.LearningLevel) *models.Question {
	p := c.Pairs[g.rng.Intn(len(c.Pairs))]
	q := &models.Question{
		Type:     models.TypeTextInput,
		Level:    level,
		XPValue:  models.XPForLevel(level),
		IsActive: true,
	}

	words := strings.Fields(p.EN)
	if len(words) >= 3 {
		i := 1 + g.rng.Intn(len(words)-2)
		answer := strings.Trim(words[i], ".,!?")
		blanked := make([]string, len(words))
		copy(blanked, words)
		blanked[i] = "_____"
		line := strings.Join(blanked, " ")
		q.PromptEN = fmt.Sprintf("Fill in the blank: %s", line)
		q.PromptML = fmt.Sprintf("Ozhivaayi ullathu nirakkuka: %s", line)
		q.Answers = []models.Answer{{TextEN: answer, IsCorrect: true, OrderIndex: 0}}
		return q
	}

	q.PromptEN = fmt.Sprintf("Translate this to Malayalam (English letters): %s", p.EN)
	q.PromptML = fmt.Sprintf("Ithu Malayalathil ezhuthuka (English akshrangalil): %s", p.EN)
	q.Answers = []models.Answer{{TextEN: p.ML, IsCorrect: true, OrderIndex: 0}}
	return q
}

// buildOrdering draws an ordered subset of a master sequence. The subset's
// rank is stored on each answer: order_index is the step's true position,
// not its display slot, so the correct order survives persistence no matter
// how a client shuffles the options.
func (g *QuestionSetGenerator) buildOrdering(topic string, level models.LearningLevel, slot, attempt int) *models.Question {
	k := orderingStepCount[level]
	masters := mastersForTopic(topic)
	master := masters[(slot+attempt)%len(masters)]

	positions := g.rng.Perm(len(master))[:k]
	sort.Ints(positions)

	q := &models.Question{
		Type:     models.TypeOrdering,
		Level:    level,
		PromptEN: fmt.Sprintf("Put these %d steps in the correct order:", k),
		PromptML: fmt.Sprintf("Ee %d padangale sheriyaya kramathil aakanam:", k),
		XPValue:  models.XPForLevel(level),
		IsActive: true,
	}
	for rank, pos := range positions {
		en, ml := renderStep(master[pos], topic)
		q.Answers = append(q.Answers, models.Answer{TextEN: en, TextML: ml, IsCorrect: true, OrderIndex: rank})
	}
	return q
}

// buildMatching pairs distinct conversation lines; order_index ties each
// English side to its Malayalam side, so the pairing survives persistence.
func (g *QuestionSetGenerator) buildMatching(c *models.Context, level models.LearningLevel) *models.Question {
	k := matchingPairCount[level]
	if k > len(c.Pairs) {
		k = len(c.Pairs)
	}

	idxs := g.rng.Perm(len(c.Pairs))[:k]
	sort.Ints(idxs)

	q := &models.Question{
		Type:     models.TypeMatchingPairs,
		Level:    level,
		XPValue:  models.XPForLevel(level),
		IsActive: true,
	}
	ens := make([]string, 0, k)
	for i, idx := range idxs {
		p := c.Pairs[idx]
		q.Answers = append(q.Answers, models.Answer{TextEN: p.EN, TextML: p.ML, IsCorrect: true, OrderIndex: i})
		ens = append(ens, p.EN)
	}
	q.PromptEN = fmt.Sprintf("Match each English phrase to Malayalam: %s", strings.Join(ens, " | "))
	q.PromptML = fmt.Sprintf("English vaakyanagale Malayalathil tharathamyam cheyyuka: %s", strings.Join(ens, " | "))
	return q
}

// ── Fallback ───────────────────────────────────────────────

// fallbackQuestion deterministically assembles a slot from topic-salted
// catalogue steps after the generative attempts run out. The set's serial
// offsets both the master choice and the step window, so consecutive lessons
// on the same unit topic fall back to distinct material instead of colliding
// in the ledger. It can still lose to the ledger; the slot then fails and
// the caller skips the lesson.
func fallbackQuestion(topic string, serial int, qtype models.QuestionType, level models.LearningLevel, tierIdx, slot int) *models.Question {
	// The serial's coefficients differ between the two indexes so a serial
	// step cannot cancel against a slot step and reproduce an earlier
	// lesson's material.
	master := defaultOrderingMasters[(2*serial+slot)%len(defaultOrderingMasters)]
	base := (serial + tierIdx*slotsPerType + slot) % len(master)
	step := func(i int) (string, string) {
		return renderStep(master[(base+i)%len(master)], topic)
	}

	q := &models.Question{
		Type:     qtype,
		Level:    level,
		XPValue:  models.XPForLevel(level),
		IsActive: true,
	}

	switch qtype {
	case models.TypeSingleSelect:
		en, ml := step(0)
		tmpl := singleSelectTemplates[slot%len(singleSelectTemplates)]
		q.PromptEN = fmt.Sprintf(tmpl.en, en)
		q.PromptML = fmt.Sprintf(tmpl.ml, en)
		options := []string{ml}
		for i := 1; i < len(master) && len(options) < 4; i++ {
			if _, m := step(i); !containsNormalized(options, m) {
				options = append(options, m)
			}
		}
		for _, d := range stockDistractors {
			if len(options) == 4 {
				break
			}
			if !containsNormalized(options, d) {
				options = append(options, d)
			}
		}
		for i, opt := range options {
			q.Answers = append(q.Answers, models.Answer{TextEN: opt, IsCorrect: i == 0, OrderIndex: i})
		}

	case models.TypeMultiSelect:
		q.PromptEN = fmt.Sprintf("Which of these are steps related to %s?", topic)
		q.PromptML = fmt.Sprintf("Ivayil ethokkeya %s umaayi bandhappetta padangal?", topic)
		for i := 0; i < multiSelectCorrectCount[level]; i++ {
			en, ml := step(i)
			q.Answers = append(q.Answers, models.Answer{TextEN: en, TextML: ml, IsCorrect: true})
		}
		for i := 0; i < 2; i++ {
			w := genericWrongAnswers[(base+i)%len(genericWrongAnswers)]
			q.Answers = append(q.Answers, models.Answer{TextEN: w, TextML: wrongAnswerTranslations[w], IsCorrect: false})
		}
		for i := range q.Answers {
			q.Answers[i].OrderIndex = i
		}

	case models.TypeTrueFalse:
		wantTrue := (tierIdx*slotsPerType+slot)%2 == 0
		en, ml := step(0)
		if !wantTrue {
			_, ml = step(1)
		}
		q.PromptEN = fmt.Sprintf("'%s' means '%s'.", en, ml)
		q.PromptML = fmt.Sprintf("'%s' ennathinte artham '%s' aanu.", en, ml)
		q.Answers = []models.Answer{
			{TextEN: "True", TextML: "Sheriyaanu", IsCorrect: wantTrue, OrderIndex: 0},
			{TextEN: "False", TextML: "Thettaanu", IsCorrect: !wantTrue, OrderIndex: 1},
		}

	case models.TypeTextInput:
		en, ml := step(0)
		q.PromptEN = fmt.Sprintf("Translate this to Malayalam (English letters): %s", en)
		q.PromptML = fmt.Sprintf("Ithu Malayalathil ezhuthuka (English akshrangalil): %s", en)
		q.Answers = []models.Answer{{TextEN: ml, IsCorrect: true, OrderIndex: 0}}

	case models.TypeOrdering:
		k := orderingStepCount[level]
		start := base % (len(master) - k + 1)
		q.PromptEN = fmt.Sprintf("Put these %d steps in the correct order:", k)
		q.PromptML = fmt.Sprintf("Ee %d padangale sheriyaya kramathil aakanam:", k)
		for i := 0; i < k; i++ {
			en, ml := renderStep(master[start+i], topic)
			q.Answers = append(q.Answers, models.Answer{TextEN: en, TextML: ml, IsCorrect: true, OrderIndex: i})
		}

	case models.TypeMatchingPairs:
		k := matchingPairCount[level]
		start := base % (len(master) - k + 1)
		ens := make([]string, 0, k)
		for i := 0; i < k; i++ {
			en, ml := renderStep(master[start+i], topic)
			q.Answers = append(q.Answers, models.Answer{TextEN: en, TextML: ml, IsCorrect: true, OrderIndex: i})
			ens = append(ens, en)
		}
		q.PromptEN = fmt.Sprintf("Match each English phrase to Malayalam: %s", strings.Join(ens, " | "))
		q.PromptML = fmt.Sprintf("English vaakyanagale Malayalathil tharathamyam cheyyuka: %s", strings.Join(ens, " | "))
	}

	return q
}

func containsNormalized(list []string, s string) bool {
	key := normalizeLine(s)
	for _, v := range list {
		if normalizeLine(v) == key {
			return true
		}
	}
	return false
}
