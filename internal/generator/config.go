package generator

import (
	"os"
	"strconv"
)

// Pipeline tunables. Defaults match production behavior; operators override
// through the environment without touching code.
const (
	envContextAttempts  = "CONTEXT_ATTEMPTS"
	envQuestionAttempts = "QUESTION_ATTEMPTS"
	envOverlapThreshold = "CONTEXT_OVERLAP_THRESHOLD"
)

func envInt(name string, fallback int) int {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func envFloat(name string, fallback float64) float64 {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return fallback
	}
	return f
}

// LedgerFromEnv builds a run ledger honoring CONTEXT_OVERLAP_THRESHOLD.
func LedgerFromEnv() *Ledger {
	return NewLedger(envFloat(envOverlapThreshold, DefaultOverlapThreshold))
}
