package app

import (
	"context"
	"strconv"
	"time"

	"compare-quiz-service/internal/catalog"
	"compare-quiz-service/internal/domain"
)

// AttemptStore abstracts how answers and per-quiz progress are stored
// (in-memory, Redis, Postgres). RecordAnswer must apply the answer upsert and
// the progress write as one atomic unit: a reader never observes one without
// the other.
type AttemptStore interface {
	// Progress returns the cursor for (user, quiz); found=false means the
	// user has not started the quiz.
	Progress(ctx context.Context, userID, quizID string) (domain.Progress, bool, error)
	// RecordAnswer upserts the answer row for (user, question) and stores the
	// advanced progress cursor atomically.
	RecordAnswer(ctx context.Context, answer domain.UserAnswer, next domain.Progress) error
	// AnswersFor returns a consistent snapshot of every user's current answer
	// to one question.
	AnswersFor(ctx context.Context, questionID string) ([]domain.UserAnswer, error)
}

// QuizService wires the catalog, the progress gate, the answer store, and the
// comparison engine into the questionnaire use cases.
type QuizService struct {
	catalog  *catalog.Catalog
	attempts AttemptStore
	now      func() time.Time
}

func NewQuizService(cat *catalog.Catalog, attempts AttemptStore) *QuizService {
	return NewQuizServiceWithClock(cat, attempts, time.Now)
}

// NewQuizServiceWithClock allows deterministic timestamps in tests.
func NewQuizServiceWithClock(cat *catalog.Catalog, attempts AttemptStore, now func() time.Time) *QuizService {
	return &QuizService{catalog: cat, attempts: attempts, now: now}
}

// Overview lists every quiz with the caller's position in it.
func (s *QuizService) Overview(ctx context.Context, userID string) ([]domain.QuizOverview, error) {
	quizzes := s.catalog.Quizzes()
	out := make([]domain.QuizOverview, 0, len(quizzes))
	for _, quiz := range quizzes {
		progress, _, err := s.attempts.Progress(ctx, userID, quiz.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.QuizOverview{
			QuizID:        quiz.ID,
			Title:         quiz.Title,
			Style:         quiz.Style,
			QuestionCount: len(quiz.Questions),
			Answered:      progress.Index,
			Complete:      progress.Complete,
		})
	}
	return out, nil
}

// CurrentQuestion returns the question the user must answer next, or a
// completion marker once none remain. A user who has never answered starts at
// the first question.
func (s *QuizService) CurrentQuestion(ctx context.Context, userID, quizID string) (domain.QuestionState, error) {
	quiz, err := s.catalog.Quiz(quizID)
	if err != nil {
		return domain.QuestionState{}, err
	}
	progress, _, err := s.attempts.Progress(ctx, userID, quizID)
	if err != nil {
		return domain.QuestionState{}, err
	}
	return questionState(quiz, progress), nil
}

// Submit records the user's answer to their current question and advances the
// cursor. Answers for any other question are rejected with ErrOutOfSequence
// and leave stored state untouched. A resubmission of the current question
// overwrites the existing row rather than duplicating it.
func (s *QuizService) Submit(ctx context.Context, userID, questionID, raw string) (domain.QuestionState, error) {
	quiz, question, index, err := s.catalog.QuestionByID(questionID)
	if err != nil {
		return domain.QuestionState{}, err
	}

	progress, _, err := s.attempts.Progress(ctx, userID, quiz.ID)
	if err != nil {
		return domain.QuestionState{}, err
	}
	if progress.Complete || progress.Index != index {
		return domain.QuestionState{}, domain.ErrOutOfSequence
	}

	answer := domain.UserAnswer{
		UserID:     userID,
		QuizID:     quiz.ID,
		QuestionID: question.ID,
		UpdatedAt:  s.now(),
	}
	switch quiz.Style {
	case domain.StyleCategorical:
		if !hasChoice(question, raw) {
			return domain.QuestionState{}, domain.ErrInvalidChoice
		}
		answer.ChoiceID = raw
	case domain.StyleScalar:
		value, err := strconv.Atoi(raw)
		if err != nil {
			return domain.QuestionState{}, domain.ErrNotNumeric
		}
		if value < question.Min || value > question.Max {
			return domain.QuestionState{}, domain.ErrOutOfRange
		}
		answer.Value = value
	}

	// The advance is derived from the question's own position, not an
	// increment of the stored index, so a same-question retry cannot land
	// past where a single submit would.
	next := domain.Progress{
		UserID:   userID,
		QuizID:   quiz.ID,
		Index:    index + 1,
		Complete: index+1 >= len(quiz.Questions),
	}
	if err := s.attempts.RecordAnswer(ctx, answer, next); err != nil {
		return domain.QuestionState{}, err
	}
	return questionState(quiz, next), nil
}

func questionState(quiz domain.Quiz, progress domain.Progress) domain.QuestionState {
	state := domain.QuestionState{
		QuizID: quiz.ID,
		Index:  progress.Index,
		Total:  len(quiz.Questions),
	}
	if progress.Complete || progress.Index >= len(quiz.Questions) {
		state.Complete = true
		state.Index = len(quiz.Questions)
		return state
	}
	q := quiz.Questions[progress.Index]
	state.Question = &q
	return state
}

func hasChoice(question domain.Question, choiceID string) bool {
	for _, choice := range question.Choices {
		if choice.ID == choiceID {
			return true
		}
	}
	return false
}
