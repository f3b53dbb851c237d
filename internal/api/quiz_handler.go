// internal/api/quiz_handler.go
package api

import (
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mcqhub/mcq/internal/catalog"
	"github.com/mcqhub/mcq/internal/domain/question"
	"github.com/mcqhub/mcq/internal/domain/scoring"
)

// ── View models ─────────────────────────────────────────────────────────

type homeView struct {
	Groups       []catalog.Group
	MistakeCount int
	MistakeStore string
}

type quizView struct {
	Title     string
	Source    string
	Questions []questionView
	Total     int
	Submitted bool
	Score     int
	Current   int
	Longest   int
}

type questionView struct {
	Index       int
	Number      int
	Text        string
	Choices     []choiceView
	Answered    bool
	WasCorrect  bool
	Explanation string
	Topic       string
}

type choiceView struct {
	Index    int
	Label    string
	Text     string
	Selected bool
	Correct  bool
}

// ── Handlers ────────────────────────────────────────────────────────────

func (h *Handler) home(w http.ResponseWriter, r *http.Request) {
	groups, err := h.catalog.Groups()
	if err != nil {
		h.logger.Error("catalog walk failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	count, backend := h.mistakes.Count(r.Context())
	h.render(w, "home.html", homeView{Groups: groups, MistakeCount: count, MistakeStore: backend})
}

func (h *Handler) play(w http.ResponseWriter, r *http.Request) {
	rel := chi.URLParam(r, "*")
	if decoded, err := url.PathUnescape(rel); err == nil {
		rel = decoded
	}
	qs, err := h.catalog.Load(rel)
	if err != nil {
		h.logger.Warn("quiz load rejected", "path", rel, "error", err)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.serveQuiz(w, r, entryTitle(rel), rel, qs, true)
}

func (h *Handler) master(w http.ResponseWriter, r *http.Request) {
	h.serveQuiz(w, r, "Master", "all topics", h.catalog.AllQuestions(), true)
}

// serveQuiz renders a quiz form and, on POST, grades it. Questions keep
// their file order so submitted answers line up with the page that was
// shown. When record is set, answered-and-wrong questions go to the
// mistake store; unanswered ones only cost points.
func (h *Handler) serveQuiz(w http.ResponseWriter, r *http.Request, title, source string, qs []question.Question, record bool) {
	submitted := r.Method == http.MethodPost
	if submitted {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
	}

	view := quizView{Title: title, Source: source, Total: len(qs), Submitted: submitted}
	correct := make([]bool, len(qs))
	for i, q := range qs {
		sel := -1
		if submitted {
			if v, err := strconv.Atoi(r.PostFormValue("q" + strconv.Itoa(i))); err == nil {
				sel = v
			}
		}
		correct[i] = sel >= 0 && sel == q.Answer
		if record && submitted && sel >= 0 && sel != q.Answer {
			h.mistakes.Append(r.Context(), q)
		}
		view.Questions = append(view.Questions, buildQuestionView(i, q, sel, submitted))
	}
	if submitted {
		view.Score, view.Current, view.Longest = scoring.Score(correct)
	}
	h.render(w, "quiz.html", view)
}

func buildQuestionView(i int, q question.Question, sel int, submitted bool) questionView {
	qv := questionView{
		Index:    i,
		Number:   i + 1,
		Text:     q.Text,
		Answered: submitted,
		Topic:    q.Topic(""),
	}
	if submitted {
		qv.WasCorrect = sel >= 0 && sel == q.Answer
		qv.Explanation = q.Explanation
	}
	for ci, text := range q.Choices {
		qv.Choices = append(qv.Choices, choiceView{
			Index:    ci,
			Label:    choiceLabel(ci),
			Text:     text,
			Selected: submitted && ci == sel,
			Correct:  submitted && ci == q.Answer,
		})
	}
	return qv
}

func choiceLabel(i int) string {
	if i < 26 {
		return string(rune('A' + i))
	}
	return strconv.Itoa(i + 1)
}

// entryTitle derives a page title from a quiz file path.
func entryTitle(rel string) string {
	base := path.Base(rel)
	return strings.TrimSuffix(base, path.Ext(base))
}
