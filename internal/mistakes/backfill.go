package mistakes

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/mcqhub/mcq/internal/catalog"
	"github.com/mcqhub/mcq/internal/domain/question"
	"github.com/mcqhub/mcq/internal/upstash"
)

// BackfillOptions controls one backfill run.
type BackfillOptions struct {
	Key   string
	Apply bool // write fixes back instead of only reporting them
	Limit int  // max entries to examine, 0 means all
}

// BackfillReport summarizes one backfill run.
type BackfillReport struct {
	Examined int
	Updated  int
	Total    int
	Applied  bool
}

// Backfill repairs remote mistake entries that were stored without
// question text or a topic tag. It indexes every question in the catalog
// by its choices-and-answer signature, then fills the missing fields on
// entries whose signature matches. Without Apply the run only reports
// how many entries would change.
func Backfill(ctx context.Context, client *upstash.Client, cat *catalog.Catalog, opts BackfillOptions) (BackfillReport, error) {
	report := BackfillReport{Applied: opts.Apply}
	lookup := buildLookup(cat)

	entries, err := client.LRange(ctx, opts.Key, 0, -1)
	if err != nil {
		return report, fmt.Errorf("read remote mistake list: %w", err)
	}
	report.Total = len(entries)

	for idx, raw := range entries {
		if opts.Limit > 0 && report.Examined >= opts.Limit {
			break
		}
		report.Examined++

		item, ok := decodeEntry(raw)
		if !ok {
			continue
		}
		match, ok := lookup[signature(stringChoices(item["choices"]), question.CoerceInt(item["answer"]))]
		if !ok {
			continue
		}

		changed := false
		if strings.TrimSpace(question.CoerceString(item["text"])) == "" && match.Text != "" {
			item["text"] = match.Text
			changed = true
		}
		extras, _ := item["extras"].(map[string]any)
		if strings.TrimSpace(question.CoerceString(extras["topic"])) == "" {
			if topic := question.CoerceString(match.Extras["topic"]); topic != "" {
				if extras == nil {
					extras = make(map[string]any)
				}
				extras["topic"] = topic
				item["extras"] = extras
				changed = true
			}
		}
		if !changed {
			continue
		}
		report.Updated++
		if !opts.Apply {
			continue
		}
		payload, err := encodeCompact(item)
		if err != nil {
			continue
		}
		// A failed write leaves the entry for the next run.
		_ = client.LSet(ctx, opts.Key, idx, payload)
	}
	return report, nil
}

// buildLookup indexes every catalog question by signature, tagging each
// with a topic from its extras or its folder. The first question seen
// for a signature wins.
func buildLookup(cat *catalog.Catalog) map[string]question.Question {
	lookup := make(map[string]question.Question)
	groups, err := cat.Groups()
	if err != nil {
		return lookup
	}
	for _, g := range groups {
		for _, e := range g.Entries {
			qs, err := cat.Load(e.RelPath)
			if err != nil {
				continue
			}
			for _, q := range qs {
				q.Extras = ensureTopic(q.Extras, g.Name)
				sig := signature(q.Choices, q.Answer)
				if _, taken := lookup[sig]; !taken {
					lookup[sig] = q
				}
			}
		}
	}
	return lookup
}

// ensureTopic returns extras with a topic tag, deriving one from the
// category field or the containing folder when absent.
func ensureTopic(extras map[string]any, folder string) map[string]any {
	out := make(map[string]any, len(extras)+1)
	for k, v := range extras {
		out[k] = v
	}
	if question.CoerceString(out["topic"]) != "" {
		return out
	}
	if cat := question.CoerceString(out["category"]); cat != "" {
		out["topic"] = cat
		return out
	}
	out["topic"] = folder
	return out
}

// signature keys a question by its trimmed choices and answer index so
// the same question can be matched across files and historical entries.
func signature(choices []string, answer int) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(answer))
	for _, c := range choices {
		b.WriteByte(0x1f)
		b.WriteString(strings.TrimSpace(c))
	}
	return b.String()
}

func stringChoices(v any) []string {
	list, _ := v.([]any)
	out := make([]string, len(list))
	for i, c := range list {
		out[i] = question.CoerceString(c)
	}
	return out
}

func decodeEntry(raw any) (map[string]any, bool) {
	if s, ok := raw.(string); ok {
		var decoded any
		if err := json.Unmarshal([]byte(s), &decoded); err != nil {
			return nil, false
		}
		raw = decoded
	}
	m, ok := raw.(map[string]any)
	return m, ok
}
