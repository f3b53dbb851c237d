// Package question converts the loosely shaped quiz JSON that
// accumulated over several generations of tooling into one canonical
// form the rest of the application can rely on.
package question

import (
	"math"
	"strconv"
	"strings"
)

// Question is the canonical form every historical quiz shape converts
// to. Answer indexes into Choices.
type Question struct {
	Text        string         `json:"text"`
	Choices     []string       `json:"choices"`
	Answer      int            `json:"answer"`
	Explanation string         `json:"explanation,omitempty"`
	Extras      map[string]any `json:"extras,omitempty"`
}

// AnswerText returns the choice the answer index points at, or "" when
// the index is out of range.
func (q Question) AnswerText() string {
	if q.Answer >= 0 && q.Answer < len(q.Choices) {
		return q.Choices[q.Answer]
	}
	return ""
}

// Topic returns the question's topic tag, or fallback when untagged.
func (q Question) Topic(fallback string) string {
	if t := strings.TrimSpace(CoerceString(q.Extras["topic"])); t != "" {
		return t
	}
	return fallback
}

// CoerceString renders a scalar JSON value as text. Composite values and
// nil come back empty.
func CoerceString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case bool:
		return strconv.FormatBool(x)
	}
	return ""
}

// CoerceInt converts loosely typed answer values to an index: integers
// pass through, floats truncate toward zero, numeric strings parse.
// Anything else becomes 0.
func CoerceInt(v any) int {
	if n, ok := intValue(v); ok {
		return n
	}
	switch x := v.(type) {
	case float64:
		return int(math.Trunc(x))
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(x)); err == nil {
			return n
		}
	}
	return 0
}

// intValue accepts only values that already are integers. Booleans count
// as 0 and 1, mirroring how the data was handled before.
func intValue(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case float64:
		if x == math.Trunc(x) && !math.IsInf(x, 0) {
			return int(x), true
		}
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}

// cleanLetter uppercases an answer letter and strips whitespace and
// trailing dots ("b." becomes "B"). Non-strings come back empty.
func cleanLetter(v any) string {
	s, _ := v.(string)
	return strings.TrimRight(strings.ToUpper(strings.TrimSpace(s)), ".")
}
