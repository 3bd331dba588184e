package postgres

import (
	"context"
	"errors"
	"fmt"

	"compare-quiz-service/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// AttemptStore persists answers and progress in Postgres. The answer upsert
// and the progress advance share one transaction, which is the atomic unit
// the submit pipeline relies on.
type AttemptStore struct {
	pool *pgxpool.Pool
}

func NewAttemptStore(pool *pgxpool.Pool) *AttemptStore {
	return &AttemptStore{pool: pool}
}

func (s *AttemptStore) Progress(ctx context.Context, userID, quizID string) (domain.Progress, bool, error) {
	progress := domain.Progress{UserID: userID, QuizID: quizID}
	err := s.pool.QueryRow(ctx,
		`SELECT question_index, complete FROM quiz_progress WHERE user_id=$1 AND quiz_id=$2`,
		userID, quizID,
	).Scan(&progress.Index, &progress.Complete)
	if errors.Is(err, pgx.ErrNoRows) {
		return progress, false, nil
	}
	if err != nil {
		return domain.Progress{}, false, fmt.Errorf("load progress: %w", err)
	}
	return progress, true, nil
}

func (s *AttemptStore) RecordAnswer(ctx context.Context, answer domain.UserAnswer, next domain.Progress) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO user_answers (user_id, quiz_id, question_id, choice_id, value, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (user_id, question_id)
		 DO UPDATE SET choice_id=EXCLUDED.choice_id, value=EXCLUDED.value, updated_at=EXCLUDED.updated_at`,
		answer.UserID, answer.QuizID, answer.QuestionID, answer.ChoiceID, answer.Value, answer.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert answer: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO quiz_progress (user_id, quiz_id, question_index, complete)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id, quiz_id)
		 DO UPDATE SET question_index=EXCLUDED.question_index, complete=EXCLUDED.complete`,
		next.UserID, next.QuizID, next.Index, next.Complete,
	)
	if err != nil {
		return fmt.Errorf("advance progress: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *AttemptStore) AnswersFor(ctx context.Context, questionID string) ([]domain.UserAnswer, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT user_id, quiz_id, question_id, choice_id, value, updated_at
		 FROM user_answers WHERE question_id=$1`,
		questionID,
	)
	if err != nil {
		return nil, fmt.Errorf("load answers: %w", err)
	}
	defer rows.Close()

	var out []domain.UserAnswer
	for rows.Next() {
		var answer domain.UserAnswer
		if err := rows.Scan(&answer.UserID, &answer.QuizID, &answer.QuestionID, &answer.ChoiceID, &answer.Value, &answer.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		out = append(out, answer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read answers: %w", err)
	}
	return out, nil
}
