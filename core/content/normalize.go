package content

import (
	"encoding/json"
	"io"
	"strings"
)

// Outcome tells how a model answer was turned into Generated.
type Outcome int

const (
	// Parsed means the whole (unfenced) answer was a valid document.
	Parsed Outcome = iota
	// RecoveredFromSubstring means only the first balanced {...} span of the answer was valid.
	RecoveredFromSubstring
	// Fallback means nothing usable was found and Placeholder was substituted.
	Fallback
)

var outcomeNames = [...]string{"parsed", "recoveredFromSubstring", "fallback"}

func (o Outcome) String() string {
	if o < Parsed || o > Fallback {
		return "unknown"
	}
	return outcomeNames[o]
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Normalized is the result of Normalize.
type Normalized struct {
	Content Generated
	Outcome Outcome
}

var fenceReplacer = strings.NewReplacer("```json\n", "", "```json", "", "```\n", "", "```", "")

// Normalize turns a raw model answer into Generated. It never fails.
func Normalize(raw string) Normalized {
	text := strings.TrimSpace(fenceReplacer.Replace(raw))

	if g, ok := decode(text); ok {
		return Normalized{Content: g, Outcome: Parsed}
	}

	if span, ok := balancedSpan(text); ok {
		if g, ok := decode(span); ok {
			return Normalized{Content: g, Outcome: RecoveredFromSubstring}
		}
	}

	return Normalized{Content: Placeholder(), Outcome: Fallback}
}

// balancedSpan returns the object starting at the first '{' up to its matching '}'.
// Braces inside JSON strings are ignored.
func balancedSpan(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	var (
		depth    int
		inString bool
		escaped  bool
	)
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

// decode accepts a single JSON object whose fields have the expected kinds.
func decode(text string) (Generated, bool) {
	if !strings.HasPrefix(text, "{") {
		return Generated{}, false
	}

	var g Generated
	dec := json.NewDecoder(strings.NewReader(text))
	if err := dec.Decode(&g); err != nil {
		return Generated{}, false
	}
	// anything after the object makes the document invalid
	if err := dec.Decode(new(json.RawMessage)); err != io.EOF {
		return Generated{}, false
	}

	g.Sanitize()
	return g, true
}

// Placeholder is the fixed document used when a model answer cannot be parsed.
func Placeholder() Generated {
	return Generated{
		Assignments: []Assignment{
			{
				Title:         "Assignment Generated from Uploaded Content",
				Type:          TypeProblemSet,
				Difficulty:    DifficultyIntermediate,
				EstimatedTime: "30 minutes",
				Questions:     []Question{},
			},
		},
		Flashcards: []Flashcard{
			{
				Front: "Key Concept from Content",
				Back:  "Review the uploaded material for detailed information.",
			},
		},
		Summaries: []Summary{
			{
				Title:     "Content Overview",
				Content:   "The AI has processed your content. For best results, ensure the document contains clear, readable text.",
				KeyPoints: []string{"Content uploaded successfully", "AI processing completed", "Review generated materials"},
			},
		},
		MatchedTopics: []string{"Education", "Learning Material", "Study Content"},
	}
}
