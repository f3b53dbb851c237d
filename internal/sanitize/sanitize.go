// Package sanitize rewrites money amounts that were wrapped in TeX-style
// dollar delimiters ("$115 million$") so quiz pages do not render them as
// math. Genuine math stays untouched.
package sanitize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
)

// Sanitize replaces each qualifying "$...$" span with "USD" followed by
// the span's content. A span qualifies only when it stays on one line,
// its opening dollar is not escaped with a backslash, and the content
// contains whitespace, contains an ASCII letter, and contains none of
// + - * / = ^ _ or backslash. Ambiguous spans like "$100$" or "$x$" are
// left alone.
func Sanitize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	i := 0
	for i < len(text) {
		c := text[i]
		if c != '$' || (i > 0 && text[i-1] == '\\') {
			b.WriteByte(c)
			i++
			continue
		}
		end := closingDollar(text, i+1)
		if end < 0 {
			b.WriteByte(c)
			i++
			continue
		}
		inner := text[i+1 : end]
		if !moneylike(inner) {
			// The closing dollar may still open the next span, so only
			// the opener is consumed.
			b.WriteByte(c)
			i++
			continue
		}
		b.WriteString("USD ")
		b.WriteString(inner)
		i = end + 1
	}
	return b.String()
}

func closingDollar(text string, from int) int {
	for j := from; j < len(text); j++ {
		switch text[j] {
		case '\n':
			return -1
		case '$':
			return j
		}
	}
	return -1
}

func moneylike(inner string) bool {
	hasSpace, hasLetter := false, false
	for i := 0; i < len(inner); i++ {
		switch c := inner[i]; {
		case c == ' ' || c == '\t' || c == '\r' || c == '\f' || c == '\v':
			hasSpace = true
		case c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z':
			hasLetter = true
		case c == '+' || c == '-' || c == '*' || c == '/' || c == '=' || c == '^' || c == '_' || c == '\\':
			return false
		}
	}
	return hasSpace && hasLetter
}

// WalkValue applies Sanitize to every string in a decoded JSON document.
func WalkValue(v any) any {
	switch x := v.(type) {
	case string:
		return Sanitize(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = WalkValue(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = WalkValue(e)
		}
		return out
	}
	return v
}

// Dir sanitizes every .json file under dir in place, reporting each
// write to out. It returns the number of files that changed, or would
// change when dryRun is set. Unreadable or unparsable files are skipped
// with a note rather than aborting the sweep.
func Dir(dir string, dryRun bool, out io.Writer) (int, error) {
	updated := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".json") {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(out, "skip %s -> %v\n", path, err)
			return nil
		}
		var doc any
		if err := json.Unmarshal(data, &doc); err != nil {
			fmt.Fprintf(out, "skip %s -> %v\n", path, err)
			return nil
		}
		clean := WalkValue(doc)
		if reflect.DeepEqual(doc, clean) {
			return nil
		}
		updated++
		if dryRun {
			fmt.Fprintf(out, "would update %s\n", path)
			return nil
		}
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(clean); err != nil {
			fmt.Fprintf(out, "skip %s -> %v\n", path, err)
			return nil
		}
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			fmt.Fprintf(out, "skip %s -> %v\n", path, err)
			return nil
		}
		fmt.Fprintf(out, "updated %s\n", path)
		return nil
	})
	return updated, err
}
