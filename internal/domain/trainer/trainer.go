// Package trainer holds the state machine behind the one-question-at-a-
// time drill mode.
package trainer

import (
	"math/rand"

	"github.com/mcqhub/mcq/internal/domain/question"
)

// Feedback strings shown after each submission.
const (
	FeedbackCorrect = "Correct."
	FeedbackPick    = "Pick an option."
	feedbackWrong   = "Wrong. Answer: "
)

// Session tracks one learner's pass through the default question set.
// Order is a shuffled permutation of question indexes; Idx points at the
// current position within it.
type Session struct {
	ID       string
	Order    []int
	Idx      int
	Streak   int
	Correct  int
	Answered int
	Feedback string
}

// NewSession starts a session over a question set of the given size with
// a freshly shuffled order.
func NewSession(id string, total int) *Session {
	return &Session{ID: id, Order: rand.Perm(total)}
}

// Current returns the question-set index at the session's position.
func (s *Session) Current() int {
	return s.Order[s.Idx]
}

// Answer applies a choice to the given question, updates the streak and
// counters, sets the feedback line and advances. It reports whether the
// answer was wrong, which is the caller's cue to record a mistake.
func (s *Session) Answer(q question.Question, choice int) bool {
	s.Answered++
	if choice == q.Answer {
		s.Streak++
		s.Correct++
		s.Feedback = FeedbackCorrect
		s.advance()
		return false
	}
	s.Streak = 0
	s.Feedback = feedbackWrong + q.AnswerText()
	s.advance()
	return true
}

// advance moves to the next position, reshuffling for another pass once
// the order is exhausted.
func (s *Session) advance() {
	s.Idx++
	if s.Idx < len(s.Order) {
		return
	}
	rand.Shuffle(len(s.Order), func(i, j int) {
		s.Order[i], s.Order[j] = s.Order[j], s.Order[i]
	})
	s.Idx = 0
}

// Matches reports whether the session's order still fits a question set
// of the given size.
func (s *Session) Matches(total int) bool {
	return len(s.Order) == total
}
