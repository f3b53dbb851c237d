// Package mistakes persists wrongly answered questions, preferring a
// remote Upstash list and falling back to a JSON file next to the quiz
// data.
package mistakes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/mcqhub/mcq/internal/domain/question"
	"github.com/mcqhub/mcq/internal/upstash"
)

// Backend names reported alongside counts so callers can tell which
// store answered.
const (
	BackendUpstash = "upstash"
	BackendLocal   = "local"
)

// Store appends and reads mistakes. Storage failures are absorbed: a
// broken remote falls back to the local file, and a broken local file
// behaves like an empty one. Quiz pages keep serving either way.
type Store struct {
	remote *upstash.Client
	key    string
	path   string
	logger *slog.Logger

	mu sync.Mutex // guards read-modify-write cycles on the local file
}

func NewStore(remote *upstash.Client, key, path string, logger *slog.Logger) *Store {
	return &Store{remote: remote, key: key, path: path, logger: logger}
}

// Append records one mistake. Failures are logged, never returned, so
// answering a question cannot error out over bookkeeping.
func (s *Store) Append(ctx context.Context, q question.Question) {
	if s.remote.Enabled() {
		payload, err := encodeCompact(q)
		if err == nil {
			if _, err = s.remote.LPush(ctx, s.key, payload); err == nil {
				return
			}
		}
		s.logger.Warn("remote mistake append failed, using local file", "error", err)
	}
	s.appendLocal(q)
}

// Count returns how many mistakes are stored and which backend answered.
func (s *Store) Count(ctx context.Context) (int, string) {
	if s.remote.Enabled() {
		n, err := s.remote.LLen(ctx, s.key)
		if err == nil {
			return int(n), BackendUpstash
		}
		s.logger.Warn("remote mistake count failed, using local file", "error", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.readLocalLocked()), BackendLocal
}

// List returns every stored mistake, newest first when the remote store
// answers, file order otherwise.
func (s *Store) List(ctx context.Context) []question.Question {
	if s.remote.Enabled() {
		entries, err := s.remote.LRange(ctx, s.key, 0, -1)
		if err == nil {
			return decodeEntries(entries)
		}
		s.logger.Warn("remote mistake list failed, using local file", "error", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.readLocalLocked()
	out := make([]question.Question, 0, len(items))
	for _, it := range items {
		out = append(out, question.NormalizeRecord(it))
	}
	return out
}

// Dump returns up to limit stored mistakes plus the total count, in one
// remote round trip when the remote store is active.
func (s *Store) Dump(ctx context.Context, limit int) ([]question.Question, int, string) {
	if limit < 1 {
		limit = 1
	}
	if s.remote.Enabled() {
		items, total, err := s.dumpRemote(ctx, limit)
		if err == nil {
			return items, total, BackendUpstash
		}
		s.logger.Warn("remote mistake dump failed, using local file", "error", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	raw := s.readLocalLocked()
	total := len(raw)
	if len(raw) > limit {
		raw = raw[:limit]
	}
	items := make([]question.Question, 0, len(raw))
	for _, it := range raw {
		items = append(items, question.NormalizeRecord(it))
	}
	return items, total, BackendLocal
}

func (s *Store) dumpRemote(ctx context.Context, limit int) ([]question.Question, int, error) {
	res, err := s.remote.Pipeline(ctx, []upstash.Command{
		{Command: "LLEN", Args: []string{s.key}},
		{Command: "LRANGE", Args: []string{s.key, "0", strconv.Itoa(limit - 1)}},
	})
	if err != nil {
		return nil, 0, err
	}
	if len(res) != 2 {
		return nil, 0, fmt.Errorf("%w: pipeline returned %d results", upstash.ErrUnavailable, len(res))
	}
	total, ok := res[0].(float64)
	if !ok {
		return nil, 0, fmt.Errorf("%w: count result is %T", upstash.ErrUnavailable, res[0])
	}
	entries, ok := res[1].([]any)
	if !ok {
		return nil, 0, fmt.Errorf("%w: range result is %T", upstash.ErrUnavailable, res[1])
	}
	return decodeEntries(entries), int(total), nil
}

func (s *Store) appendLocal(q question.Question) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := append(s.readLocalLocked(), q)
	if err := s.writeLocalLocked(items); err != nil {
		s.logger.Warn("local mistake append failed", "path", s.path, "error", err)
	}
}

// readLocalLocked loads the fallback file as a raw list. A missing,
// empty or corrupt file reads as empty.
func (s *Store) readLocalLocked() []any {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("local mistake file unreadable", "path", s.path, "error", err)
		}
		return nil
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	var items []any
	if err := json.Unmarshal(data, &items); err != nil {
		s.logger.Warn("local mistake file corrupt, treating as empty", "path", s.path, "error", err)
		return nil
	}
	return items
}

func (s *Store) writeLocalLocked(items []any) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		return err
	}
	return os.WriteFile(s.path, buf.Bytes(), 0o644)
}

// decodeEntries converts raw list entries into questions. Entries may be
// JSON-encoded strings or already structured values; strings that fail
// to decode are dropped.
func decodeEntries(entries []any) []question.Question {
	out := make([]question.Question, 0, len(entries))
	for _, e := range entries {
		if raw, ok := e.(string); ok {
			var decoded any
			if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
				continue
			}
			e = decoded
		}
		out = append(out, question.NormalizeRecord(e))
	}
	return out
}

func encodeCompact(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
