// internal/api/trainer_handler.go
package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/mcqhub/mcq/internal/domain/trainer"
	"github.com/mcqhub/mcq/internal/store"
)

const trainerCookie = "trainer_session"

type trainerView struct {
	Text     string
	Choices  []choiceView
	Feedback string
	Streak   int
	Correct  int
	Answered int
}

func (h *Handler) trainerShow(w http.ResponseWriter, r *http.Request) {
	qs := h.catalog.DefaultQuestions()
	if len(qs) == 0 {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	sess, err := h.trainerSession(w, r, len(qs))
	if err != nil {
		h.logger.Error("trainer session unavailable", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	q := qs[sess.Current()]
	view := trainerView{
		Text:     q.Text,
		Feedback: sess.Feedback,
		Streak:   sess.Streak,
		Correct:  sess.Correct,
		Answered: sess.Answered,
	}
	for i, text := range q.Choices {
		view.Choices = append(view.Choices, choiceView{Index: i, Label: choiceLabel(i), Text: text})
	}
	// Feedback is shown once, then cleared.
	if sess.Feedback != "" {
		sess.Feedback = ""
		if err := h.sessions.SaveSession(sess); err != nil {
			h.logger.Warn("trainer feedback reset not saved", "error", err)
		}
	}
	h.render(w, "trainer.html", view)
}

func (h *Handler) trainerAnswer(w http.ResponseWriter, r *http.Request) {
	qs := h.catalog.DefaultQuestions()
	if len(qs) == 0 {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	sess, err := h.trainerSession(w, r, len(qs))
	if err != nil {
		h.logger.Error("trainer session unavailable", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	q := qs[sess.Current()]
	if choice, convErr := strconv.Atoi(r.PostFormValue("choice")); convErr != nil {
		sess.Feedback = trainer.FeedbackPick
	} else if wrong := sess.Answer(q, choice); wrong {
		h.mistakes.Append(r.Context(), q)
	}
	if err := h.sessions.SaveSession(sess); err != nil {
		h.logger.Warn("trainer session not saved", "error", err)
	}
	http.Redirect(w, r, "/legacy", http.StatusSeeOther)
}

func (h *Handler) trainerReset(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(trainerCookie); err == nil {
		if err := h.sessions.DeleteSession(c.Value); err != nil && !errors.Is(err, store.ErrNotFound) {
			h.logger.Warn("trainer session delete failed", "error", err)
		}
	}
	http.Redirect(w, r, "/legacy", http.StatusSeeOther)
}

// trainerSession loads the session named by the cookie, or starts a new
// one when there is none or the question set changed size underneath it.
func (h *Handler) trainerSession(w http.ResponseWriter, r *http.Request, total int) (*trainer.Session, error) {
	if c, err := r.Cookie(trainerCookie); err == nil {
		sess, err := h.sessions.GetSession(c.Value)
		if err == nil && sess.Matches(total) {
			return sess, nil
		}
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
	}
	sess := trainer.NewSession(uuid.NewString(), total)
	if err := h.sessions.SaveSession(sess); err != nil {
		return nil, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     trainerCookie,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess, nil
}
