package generator

import (
	"fmt"
	"strings"
	"testing"
)

func pipedConversation(turns int) string {
	var sb strings.Builder
	for i := 1; i <= turns; i++ {
		fmt.Fprintf(&sb, "English line number %d | Malayalam vari number %d\n", i, i)
	}
	return sb.String()
}

func alternatingConversation(turns int) string {
	var sb strings.Builder
	for i := 1; i <= turns; i++ {
		fmt.Fprintf(&sb, "English line number %d\n", i)
		fmt.Fprintf(&sb, "Malayalam vari number %d\n", i)
	}
	return sb.String()
}

func TestParseConversation_PipedFormat(t *testing.T) {
	pairs, violations := ParseConversation(pipedConversation(5))
	if len(violations) > 0 {
		t.Fatalf("expected no violations, got: %s", violationsString(violations))
	}

	if len(pairs) != 5 {
		t.Fatalf("expected 5 pairs, got %d", len(pairs))
	}
	if pairs[0].EN != "English line number 1" {
		t.Errorf("unexpected EN side: %q", pairs[0].EN)
	}
	if pairs[0].ML != "Malayalam vari number 1" {
		t.Errorf("unexpected ML side: %q", pairs[0].ML)
	}
}

func TestParseConversation_AlternatingFormat(t *testing.T) {
	pairs, violations := ParseConversation(alternatingConversation(4))
	if len(violations) > 0 {
		t.Fatalf("expected no violations, got: %s", violationsString(violations))
	}

	if len(pairs) != 4 {
		t.Fatalf("expected 4 pairs, got %d", len(pairs))
	}
	for i, p := range pairs {
		if !strings.HasPrefix(p.EN, "English") {
			t.Errorf("pair %d: EN side is %q", i+1, p.EN)
		}
		if !strings.HasPrefix(p.ML, "Malayalam") {
			t.Errorf("pair %d: ML side is %q", i+1, p.ML)
		}
	}
}

func TestParseConversation_MarkdownFences(t *testing.T) {
	input := "```\n" + pipedConversation(3) + "```"

	pairs, violations := ParseConversation(input)
	if len(violations) > 0 {
		t.Fatalf("expected no violations with fences, got: %s", violationsString(violations))
	}
	if len(pairs) != 3 {
		t.Errorf("expected 3 pairs, got %d", len(pairs))
	}
}

func TestParseConversation_LabelsAndNumbering(t *testing.T) {
	input := strings.Join([]string{
		"1. EN: Hello there, friend",
		"2. ML: Namaskaram, koottukara",
		"3) English: How was your day?",
		"4) Malayalam: Ninte divasam engane undayirunnu?",
	}, "\n")

	pairs, violations := ParseConversation(input)
	if len(violations) > 0 {
		t.Fatalf("expected no violations, got: %s", violationsString(violations))
	}
	if len(pairs) != 2 {
		t.Fatalf("expected 2 pairs, got %d", len(pairs))
	}
	if pairs[0].EN != "Hello there, friend" {
		t.Errorf("labels not stripped from EN side: %q", pairs[0].EN)
	}
	if pairs[1].ML != "Ninte divasam engane undayirunnu?" {
		t.Errorf("labels not stripped from ML side: %q", pairs[1].ML)
	}
}

func TestParseConversation_BulletMarkers(t *testing.T) {
	input := "- Hello my friend | Namaskaram ente koottukara\n* See you soon | Pinne kaanaam"

	pairs, violations := ParseConversation(input)
	if len(violations) > 0 {
		t.Fatalf("expected no violations, got: %s", violationsString(violations))
	}
	if len(pairs) != 2 {
		t.Fatalf("expected 2 pairs, got %d", len(pairs))
	}
	if pairs[0].EN != "Hello my friend" {
		t.Errorf("bullet not stripped: %q", pairs[0].EN)
	}
}

func TestParseConversation_OddLineCount(t *testing.T) {
	input := "First line\nSecond line\nThird line"

	_, violations := ParseConversation(input)
	if len(violations) == 0 {
		t.Fatal("expected a violation for an odd line count")
	}
	if violations[0].Kind != VioUnparsable {
		t.Errorf("expected %s, got %s", VioUnparsable, violations[0].Kind)
	}
	if !strings.Contains(violations[0].Detail, "odd line count") {
		t.Errorf("expected detail about odd line count, got: %q", violations[0].Detail)
	}
}

func TestParseConversation_EmptyOutput(t *testing.T) {
	for _, input := range []string{"", "   \n\n  ", "```\n```"} {
		_, violations := ParseConversation(input)
		if len(violations) == 0 {
			t.Errorf("input %q: expected a violation for empty output", input)
			continue
		}
		if violations[0].Kind != VioUnparsable {
			t.Errorf("input %q: expected %s, got %s", input, VioUnparsable, violations[0].Kind)
		}
	}
}

func TestParseConversation_InconsistentSeparators(t *testing.T) {
	input := "Hello there | Namaskaram\nA line with no separator"

	_, violations := ParseConversation(input)
	if len(violations) == 0 {
		t.Fatal("expected a violation when one line lacks the separator")
	}
	if !strings.Contains(violations[0].Detail, "separator") {
		t.Errorf("expected detail about the missing separator, got: %q", violations[0].Detail)
	}
}

func TestParseConversation_BlankLinesIgnored(t *testing.T) {
	input := "\n\nEnglish one | Manglish onnu\n\n\nEnglish two | Manglish randu\n\n"

	pairs, violations := ParseConversation(input)
	if len(violations) > 0 {
		t.Fatalf("expected no violations, got: %s", violationsString(violations))
	}
	if len(pairs) != 2 {
		t.Errorf("expected 2 pairs, got %d", len(pairs))
	}
}
