package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"compare-quiz-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

// AttemptStore stores answers and progress in Redis.
// Answers are stored as:  HSET answers:{questionID} {userID} {json row}
// Progress is stored as:  SET  progress:{userID}:{quizID} {json cursor}
// RecordAnswer issues both writes inside one MULTI/EXEC transaction, and
// AnswersFor reads the whole hash in one HGETALL, so readers see whole rows.
type AttemptStore struct {
	client *redis.Client
}

func NewAttemptStore(client *redis.Client) *AttemptStore {
	return &AttemptStore{client: client}
}

func (s *AttemptStore) Progress(ctx context.Context, userID, quizID string) (domain.Progress, bool, error) {
	raw, err := s.client.Get(ctx, progressKey(userID, quizID)).Result()
	if err == redis.Nil {
		return domain.Progress{UserID: userID, QuizID: quizID}, false, nil
	}
	if err != nil {
		return domain.Progress{}, false, fmt.Errorf("get progress: %w", err)
	}
	var progress domain.Progress
	if err := json.Unmarshal([]byte(raw), &progress); err != nil {
		return domain.Progress{}, false, fmt.Errorf("decode progress: %w", err)
	}
	return progress, true, nil
}

func (s *AttemptStore) RecordAnswer(ctx context.Context, answer domain.UserAnswer, next domain.Progress) error {
	answerJSON, err := json.Marshal(answer)
	if err != nil {
		return fmt.Errorf("encode answer: %w", err)
	}
	progressJSON, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode progress: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, answersKey(answer.QuestionID), answer.UserID, answerJSON)
	pipe.Set(ctx, progressKey(next.UserID, next.QuizID), progressJSON, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record answer: %w", err)
	}
	return nil
}

func (s *AttemptStore) AnswersFor(ctx context.Context, questionID string) ([]domain.UserAnswer, error) {
	rows, err := s.client.HGetAll(ctx, answersKey(questionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("load answers: %w", err)
	}
	out := make([]domain.UserAnswer, 0, len(rows))
	for _, raw := range rows {
		var answer domain.UserAnswer
		if err := json.Unmarshal([]byte(raw), &answer); err != nil {
			return nil, fmt.Errorf("decode answer: %w", err)
		}
		out = append(out, answer)
	}
	return out, nil
}

func answersKey(questionID string) string {
	return "answers:" + questionID
}

func progressKey(userID, quizID string) string {
	return "progress:" + userID + ":" + quizID
}
