package generator

import (
	"sort"
	"strings"
	"sync"

	"github.com/heythambi/backend/internal/models"
)

// DefaultOverlapThreshold is the share of the smaller line set beyond which
// two contexts count as near-duplicates. A policy constant with no derived
// basis; override it via NewLedger.
const DefaultOverlapThreshold = 0.30

// Ledger is the run-scoped record of accepted content: every accepted
// context's line set and every accepted question's canonical key. It is
// created at run start, passed by reference into every generation call and
// discarded at run end — no package-level dedup state. It only grows within
// a run.
//
// The pipeline is single-threaded, so check-then-record is naturally
// serialized. Each method still locks internally; a concurrent
// reimplementation must additionally make check-then-record atomic per
// candidate, or two in-flight generations could both accept overlapping
// content.
type Ledger struct {
	mu        sync.Mutex
	threshold float64
	contexts  []map[string]struct{}
	questions map[string]struct{}
}

// NewLedger builds an empty ledger. threshold <= 0 selects the default.
func NewLedger(threshold float64) *Ledger {
	if threshold <= 0 {
		threshold = DefaultOverlapThreshold
	}
	return &Ledger{
		threshold: threshold,
		questions: make(map[string]struct{}),
	}
}

// IsDuplicateContext reports whether the candidate's lines overlap any
// previously recorded set by more than the threshold share of the smaller
// set. Lines compare case- and whitespace-normalized: exact-match dedup alone
// would miss trivially paraphrased conversations, while the overlap share
// still allows topical overlap across distinct scenarios.
func (l *Ledger) IsDuplicateContext(lines []string) bool {
	cand := lineSet(lines)
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, seen := range l.contexts {
		smaller := len(cand)
		if len(seen) < smaller {
			smaller = len(seen)
		}
		if smaller == 0 {
			continue
		}
		overlap := 0
		for line := range cand {
			if _, ok := seen[line]; ok {
				overlap++
			}
		}
		if float64(overlap) > l.threshold*float64(smaller) {
			return true
		}
	}
	return false
}

// RecordContext appends the line set. Call only after validation passes.
func (l *Ledger) RecordContext(lines []string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.contexts = append(l.contexts, lineSet(lines))
}

// IsDuplicateQuestion reports whether the exact canonical key was already
// accepted in this run.
func (l *Ledger) IsDuplicateQuestion(qtype models.QuestionType, correctTexts []string) bool {
	key := CanonicalQuestionKey(qtype, correctTexts)
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.questions[key]
	return ok
}

// RecordQuestion appends the canonical key. Call only after validation passes.
func (l *Ledger) RecordQuestion(qtype models.QuestionType, correctTexts []string) {
	key := CanonicalQuestionKey(qtype, correctTexts)
	l.mu.Lock()
	defer l.mu.Unlock()
	l.questions[key] = struct{}{}
}

// CanonicalQuestionKey builds the order-independent uniqueness key for a
// question: its type tag plus the sorted, normalized correct-answer texts.
func CanonicalQuestionKey(qtype models.QuestionType, correctTexts []string) string {
	norm := make([]string, len(correctTexts))
	for i, t := range correctTexts {
		norm[i] = normalizeLine(t)
	}
	sort.Strings(norm)
	return string(qtype) + "|" + strings.Join(norm, "|")
}

func lineSet(lines []string) map[string]struct{} {
	set := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		set[normalizeLine(line)] = struct{}{}
	}
	return set
}

// normalizeLine lowercases and collapses runs of whitespace.
func normalizeLine(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
