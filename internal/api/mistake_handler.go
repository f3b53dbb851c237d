// internal/api/mistake_handler.go
package api

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/mcqhub/mcq/internal/domain/question"
	"github.com/mcqhub/mcq/internal/printable"
)

type topicsView struct {
	Groups []topicGroup
	Total  int
}

type topicGroup struct {
	Name      string
	Questions []question.Question
}

// mistakesReview serves the stored mistakes as a replayable quiz. Wrong
// answers here are not recorded again.
func (h *Handler) mistakesReview(w http.ResponseWriter, r *http.Request) {
	qs := h.mistakes.List(r.Context())
	h.serveQuiz(w, r, "Mistake Review", "stored mistakes", qs, false)
}

func (h *Handler) mistakesByTopic(w http.ResponseWriter, r *http.Request) {
	qs := h.mistakes.List(r.Context())
	byTopic := make(map[string][]question.Question)
	for _, q := range qs {
		topic := q.Topic("General")
		byTopic[topic] = append(byTopic[topic], q)
	}
	names := make([]string, 0, len(byTopic))
	for name := range byTopic {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})
	groups := make([]topicGroup, 0, len(names))
	for _, name := range names {
		groups = append(groups, topicGroup{Name: name, Questions: byTopic[name]})
	}
	h.render(w, "topics.html", topicsView{Groups: groups, Total: len(qs)})
}

func (h *Handler) mistakesPDF(w http.ResponseWriter, r *http.Request) {
	qs := h.mistakes.List(r.Context())
	data, err := printable.Sheet(qs)
	if err != nil {
		h.logger.Error("pdf export failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="mistakes.pdf"`)
	w.Write(data)
}

func (h *Handler) mistakesCSV(w http.ResponseWriter, r *http.Request) {
	qs := h.mistakes.List(r.Context())
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="mistakes.csv"`)
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"topic", "question", "answer", "explanation"})
	for _, q := range qs {
		_ = cw.Write([]string{q.Topic("General"), q.Text, q.AnswerText(), q.Explanation})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		h.logger.Warn("csv export write failed", "error", err)
	}
}

// ── JSON API ────────────────────────────────────────────────────────────

// apiMistake accepts one question object in any of the supported quiz
// schemas and stores it in canonical form.
func (h *Handler) apiMistake(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "invalid json"})
		return
	}
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "invalid json"})
		return
	}
	if _, ok := doc.(map[string]any); !ok {
		respondJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "invalid payload"})
		return
	}
	h.mistakes.Append(r.Context(), question.NormalizeRecord(doc))
	respondJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h *Handler) apiMistakesCount(w http.ResponseWriter, r *http.Request) {
	count, backend := h.mistakes.Count(r.Context())
	respondJSON(w, http.StatusOK, map[string]any{"count": count, "store": backend})
}

func (h *Handler) apiMistakesDump(w http.ResponseWriter, r *http.Request) {
	limit := atoiDefault(r.URL.Query().Get("limit"), 20)
	if limit < 1 {
		limit = 1
	}
	if limit > 200 {
		limit = 200
	}
	items, total, backend := h.mistakes.Dump(r.Context(), limit)
	respondJSON(w, http.StatusOK, map[string]any{"store": backend, "count": total, "items": items})
}
