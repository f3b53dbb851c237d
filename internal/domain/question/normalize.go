package question

import (
	"errors"
	"slices"

	"github.com/mcqhub/mcq/internal/textrepair"
)

// ErrUnsupportedSchema reports a quiz document whose top level is
// neither a list of records nor an object wrapping one.
var ErrUnsupportedSchema = errors.New("unsupported quiz JSON structure: expected a list of questions")

// sequenceKeys are the wrapper keys a quiz object may hide its record
// list under, checked in order.
var sequenceKeys = []string{"questions", "items", "data"}

// extrasKeys is the metadata allowed to ride along with a question.
var extrasKeys = []string{"id", "topic", "model", "category", "difficulty"}

// Records extracts the question sequence from a decoded quiz document.
func Records(doc any) ([]any, error) {
	switch v := doc.(type) {
	case []any:
		return v, nil
	case map[string]any:
		for _, key := range sequenceKeys {
			if list, ok := v[key].([]any); ok {
				return list, nil
			}
		}
	}
	return nil, ErrUnsupportedSchema
}

// Normalize converts a decoded quiz document into canonical questions.
func Normalize(doc any) ([]Question, error) {
	recs, err := Records(doc)
	if err != nil {
		return nil, err
	}
	out := make([]Question, len(recs))
	for i, rec := range recs {
		out[i] = NormalizeRecord(rec)
	}
	return out, nil
}

// NormalizeRecord converts one raw record. It never fails: a malformed
// record comes back as an empty question rather than sinking the whole
// file.
func NormalizeRecord(rec any) Question {
	m, ok := rec.(map[string]any)
	if !ok {
		return Question{Choices: []string{}}
	}
	var q Question
	switch Classify(m) {
	case VariantChoicesAnswerIndex:
		q = fromChoices(m)
	case VariantOptionsLetterAnswer:
		q = fromOptions(m)
	case VariantItemsLegacyLetter:
		q = fromItems(m)
	default:
		q = fromFallback(m)
	}
	q.Text = textField(m, "text", "stem", "question")
	q.Explanation = textField(m, "explanation", "explanations", "rationale")
	q.Extras = extrasOf(m)
	return q
}

func fromChoices(rec map[string]any) Question {
	list, _ := rec["choices"].([]any)
	answer := 0
	// Letter-valued answers are not resolved for this shape; records
	// carrying only a letter fall back to the first choice.
	if n, ok := intValue(rec["answer"]); ok {
		answer = n
	}
	return Question{Choices: repairedStrings(list), Answer: answer}
}

func fromOptions(rec map[string]any) Question {
	opts, _ := rec["options"].(map[string]any)
	letters := make([]string, 0, len(opts))
	choices := make([]string, 0, len(opts))
	for c := 'A'; c <= 'Z'; c++ {
		key := string(c)
		v, ok := opts[key]
		if !ok {
			continue
		}
		letters = append(letters, key)
		choices = append(choices, textrepair.Repair(CoerceString(v)))
	}

	raw := stringValue(rec["correct_answer"])
	if raw == "" {
		raw = stringValue(rec["answer_letter"])
	}

	answer := 0
	if i := letterIndex(letters, cleanLetter(raw)); i >= 0 {
		answer = i
	} else if n, ok := intValue(rec["answer"]); ok {
		answer = n
	}
	return Question{Choices: choices, Answer: answer}
}

func fromItems(rec map[string]any) Question {
	list, _ := rec["items"].([]any)
	letters := make([]string, 0, len(list))
	choices := make([]string, 0, len(list))
	for _, it := range list {
		pair, _ := it.([]any)
		var letter, text any
		if len(pair) > 0 {
			letter = pair[0]
		}
		if len(pair) > 1 {
			text = pair[1]
		}
		letters = append(letters, cleanLetter(letter))
		choices = append(choices, textrepair.Repair(CoerceString(text)))
	}

	answer := 0
	if i := letterIndex(letters, cleanLetter(rec["correct"])); i >= 0 {
		answer = i
	} else if n, ok := intValue(rec["correct"]); ok && n >= 0 && n < len(choices) {
		answer = n
	} else if n, ok := intValue(rec["answer"]); ok {
		answer = n
	}
	return Question{Choices: choices, Answer: answer}
}

func fromFallback(rec map[string]any) Question {
	list, _ := rec["choices"].([]any)
	return Question{Choices: repairedStrings(list), Answer: CoerceInt(rec["answer"])}
}

// textField returns the first alias holding a non-empty string, repaired.
func textField(rec map[string]any, aliases ...string) string {
	for _, key := range aliases {
		if s := stringValue(rec[key]); s != "" {
			return textrepair.Repair(s)
		}
	}
	return ""
}

func repairedStrings(list []any) []string {
	out := make([]string, len(list))
	for i, v := range list {
		out[i] = textrepair.Repair(CoerceString(v))
	}
	return out
}

func letterIndex(letters []string, letter string) int {
	if letter == "" {
		return -1
	}
	return slices.Index(letters, letter)
}

// extrasOf gathers allow-listed metadata from the record's top level and
// from a nested extras object. Top-level values win, and nested values
// fill the gaps, so normalizing an already canonical record changes
// nothing.
func extrasOf(rec map[string]any) map[string]any {
	out := make(map[string]any)
	for _, k := range extrasKeys {
		if v, ok := rec[k]; ok {
			out[k] = v
		}
	}
	if nested, ok := rec["extras"].(map[string]any); ok {
		for _, k := range extrasKeys {
			if _, taken := out[k]; taken {
				continue
			}
			if v, ok := nested[k]; ok {
				out[k] = v
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
