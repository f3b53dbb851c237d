package textrepair_test

import (
	"testing"

	"github.com/mcqhub/mcq/internal/textrepair"
)

// Mojibake inputs are spelled out as escapes because the C1 control
// characters they contain are invisible.

func TestRepair_FixesLatin1Mojibake(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"right single quote", "It\u00e2\u0080\u0099s here", "It’s here"},
		{"en dash", "2019\u00e2\u0080\u00932021", "2019–2021"},
		{"curly double quotes", "\u00e2\u0080\u009cquoted\u00e2\u0080\u009d", "“quoted”"},
		{"ellipsis", "wait\u00e2\u0080\u00a6", "wait…"},
		{"replacement rune dropped", "caf\ufffd", "caf"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := textrepair.Repair(tc.in)
			if got != tc.want {
				t.Errorf("Repair(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestRepair_LeavesCleanTextAlone(t *testing.T) {
	tests := []string{
		"",
		"plain text",
		"It’s here",
		"Prüfung 2024",
		"price is $100",
	}
	for _, in := range tests {
		if got := textrepair.Repair(in); got != in {
			t.Errorf("Repair(%q) = %q, want input unchanged", in, got)
		}
	}
}

func TestRepair_LoneMarkerSurvives(t *testing.T) {
	// A bare marker re-decodes to nothing, so the original is kept.
	if got := textrepair.Repair("\u00e2"); got != "\u00e2" {
		t.Errorf("Repair(%q) = %q, want input unchanged", "\u00e2", got)
	}
}

func TestRepair_Idempotent(t *testing.T) {
	inputs := []string{
		"It\u00e2\u0080\u0099s here",
		"2019\u00e2\u0080\u00932021",
		"caf\ufffd",
		"plain text",
	}
	for _, in := range inputs {
		once := textrepair.Repair(in)
		if twice := textrepair.Repair(once); twice != once {
			t.Errorf("Repair(Repair(%q)) = %q, want %q", in, twice, once)
		}
	}
}
