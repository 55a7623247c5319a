package generator

import (
	"fmt"
	"strings"

	"github.com/heythambi/backend/internal/models"
)

// ParseConversation is the single boundary between raw provider output and
// the pipeline. It tolerates the drift providers actually produce — code
// fences, EN:/ML: labels, list numbering, single-line "english | malayalam"
// pairs — and returns either the parsed line pairs or the violations that
// make the output unusable. Nothing downstream ever touches provider text.
//
// Shape checks (turn count, empty sides, repeated lines) belong to
// ValidateContext; this function only answers "can this be read as line
// pairs at all".
func ParseConversation(raw string) ([]models.LinePair, []Violation) {
	cleaned := stripCodeFences(raw)

	var lines []string
	piped := false
	for _, l := range strings.Split(cleaned, "\n") {
		l = cleanLine(l)
		if l == "" {
			continue
		}
		if strings.Contains(l, "|") {
			piped = true
		}
		lines = append(lines, l)
	}

	if len(lines) == 0 {
		return nil, []Violation{{Kind: VioUnparsable, Field: "output", Detail: "no conversation lines found"}}
	}

	if piped {
		return parsePiped(lines)
	}
	return parseAlternating(lines)
}

// parsePiped reads "english | malayalam" lines, one pair per line.
func parsePiped(lines []string) ([]models.LinePair, []Violation) {
	pairs := make([]models.LinePair, 0, len(lines))
	for i, l := range lines {
		en, ml, ok := strings.Cut(l, "|")
		if !ok {
			return nil, []Violation{{
				Kind:   VioUnparsable,
				Field:  "output",
				Detail: fmt.Sprintf("line %d lacks the | separator used elsewhere", i+1),
			}}
		}
		pairs = append(pairs, models.LinePair{EN: strings.TrimSpace(en), ML: strings.TrimSpace(ml)})
	}
	return pairs, nil
}

// parseAlternating reads the requested format: English line, then its
// romanized-Malayalam line.
func parseAlternating(lines []string) ([]models.LinePair, []Violation) {
	if len(lines)%2 != 0 {
		return nil, []Violation{{
			Kind:   VioUnparsable,
			Field:  "output",
			Detail: fmt.Sprintf("odd line count %d, cannot pair", len(lines)),
		}}
	}
	pairs := make([]models.LinePair, 0, len(lines)/2)
	for i := 0; i < len(lines); i += 2 {
		pairs = append(pairs, models.LinePair{EN: lines[i], ML: lines[i+1]})
	}
	return pairs, nil
}

var lineLabels = []string{"en:", "ml:", "english:", "malayalam:"}

// cleanLine trims whitespace and drops list markers and language labels the
// prompt forbids but providers sometimes add anyway.
func cleanLine(line string) string {
	line = strings.TrimSpace(line)
	line = strings.TrimPrefix(line, "- ")
	line = strings.TrimPrefix(line, "* ")

	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i > 0 && i < len(line) && (line[i] == '.' || line[i] == ')') {
		line = strings.TrimSpace(line[i+1:])
	}

	lower := strings.ToLower(line)
	for _, label := range lineLabels {
		if strings.HasPrefix(lower, label) {
			line = strings.TrimSpace(line[len(label):])
			break
		}
	}
	return line
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimSpace(s)
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSpace(s)
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}
	return s
}
