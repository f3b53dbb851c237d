// Package textrepair repairs text that was produced by reading UTF-8
// bytes as a single-byte Latin-1 stream. Curly quotes and dashes decoded
// that way show up as an "\u00e2" rune followed by C1 control characters, and
// lossy decodes leave U+FFFD replacement runes behind.
package textrepair

import (
	"strings"
	"unicode/utf8"
)

// Repair detects likely mis-decoded UTF-8 and attempts one re-decode
// pass: the string's runes are encoded back to Latin-1 bytes (runes above
// U+00FF are dropped) and those bytes decoded as UTF-8, skipping anything
// invalid. The result is kept only when it is non-empty and different
// from the input. Heuristic by design: legitimate text containing the
// marker characters can be altered, and mojibake without markers is left
// alone.
func Repair(s string) string {
	if !strings.ContainsRune(s, 'â') && !strings.ContainsRune(s, utf8.RuneError) {
		return s
	}
	fixed := decodeUTF8Lossy(encodeLatin1Lossy(s))
	if fixed != "" && fixed != s {
		return fixed
	}
	return s
}

func encodeLatin1Lossy(s string) []byte {
	b := make([]byte, 0, len(s))
	for _, r := range s {
		if r <= 0xFF {
			b = append(b, byte(r))
		}
	}
	return b
}

func decodeUTF8Lossy(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b))
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if r == utf8.RuneError && size == 1 {
			b = b[1:]
			continue
		}
		sb.WriteRune(r)
		b = b[size:]
	}
	return sb.String()
}
