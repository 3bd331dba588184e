package memory

import (
	"context"
	"sync"

	"compare-quiz-service/internal/domain"
)

type attemptKey struct {
	userID string
	quizID string
}

// AttemptStore keeps answers and progress in process memory. A single lock
// covers both maps, so the upsert-plus-advance pair in RecordAnswer is atomic
// with respect to every reader.
type AttemptStore struct {
	mu       sync.RWMutex
	answers  map[string]map[string]domain.UserAnswer // questionID -> userID -> answer
	progress map[attemptKey]domain.Progress
}

func NewAttemptStore() *AttemptStore {
	return &AttemptStore{
		answers:  make(map[string]map[string]domain.UserAnswer),
		progress: make(map[attemptKey]domain.Progress),
	}
}

func (s *AttemptStore) Progress(_ context.Context, userID, quizID string) (domain.Progress, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	progress, ok := s.progress[attemptKey{userID: userID, quizID: quizID}]
	if !ok {
		return domain.Progress{UserID: userID, QuizID: quizID}, false, nil
	}
	return progress, true, nil
}

func (s *AttemptStore) RecordAnswer(_ context.Context, answer domain.UserAnswer, next domain.Progress) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byUser, ok := s.answers[answer.QuestionID]
	if !ok {
		byUser = make(map[string]domain.UserAnswer)
		s.answers[answer.QuestionID] = byUser
	}
	byUser[answer.UserID] = answer
	s.progress[attemptKey{userID: next.UserID, quizID: next.QuizID}] = next
	return nil
}

func (s *AttemptStore) AnswersFor(_ context.Context, questionID string) ([]domain.UserAnswer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byUser := s.answers[questionID]
	out := make([]domain.UserAnswer, 0, len(byUser))
	for _, answer := range byUser {
		out = append(out, answer)
	}
	return out, nil
}
