package generator

import "testing"

func TestEnvInt(t *testing.T) {
	cases := []struct {
		value string
		want  int
	}{
		{"", 5},
		{"abc", 5},
		{"0", 5},
		{"-3", 5},
		{"7", 7},
	}
	for _, tc := range cases {
		t.Setenv(envContextAttempts, tc.value)
		if got := envInt(envContextAttempts, 5); got != tc.want {
			t.Errorf("value %q: expected %d, got %d", tc.value, tc.want, got)
		}
	}
}

func TestEnvFloat(t *testing.T) {
	cases := []struct {
		value string
		want  float64
	}{
		{"", 0.30},
		{"not a number", 0.30},
		{"0", 0.30},
		{"0.55", 0.55},
	}
	for _, tc := range cases {
		t.Setenv(envOverlapThreshold, tc.value)
		if got := envFloat(envOverlapThreshold, 0.30); got != tc.want {
			t.Errorf("value %q: expected %v, got %v", tc.value, tc.want, got)
		}
	}
}

func TestGeneratorsHonorAttemptOverrides(t *testing.T) {
	t.Setenv(envContextAttempts, "2")
	t.Setenv(envQuestionAttempts, "4")

	cg := NewContextGenerator(&scriptedLLM{responses: []string{""}}, NewScheduler(), NewLedger(0))
	if cg.Attempts != 2 {
		t.Errorf("expected 2 context attempts, got %d", cg.Attempts)
	}
	qg := NewQuestionSetGenerator(nil, NewLedger(0))
	if qg.Attempts != 4 {
		t.Errorf("expected 4 question attempts, got %d", qg.Attempts)
	}
}
