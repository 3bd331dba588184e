package app

import (
	"context"
	"fmt"

	"compare-quiz-service/internal/domain"
	"golang.org/x/sync/errgroup"
)

// Compare reports, question by question, how the user's answers sit within
// the full population of recorded answers. It is callable only once the user
// has completed the quiz. Each call recomputes from the current answer
// population; two calls moments apart may legitimately differ as other users
// keep submitting.
func (s *QuizService) Compare(ctx context.Context, userID, quizID string) (domain.ComparisonReport, error) {
	quiz, err := s.catalog.Quiz(quizID)
	if err != nil {
		return domain.ComparisonReport{}, err
	}
	progress, found, err := s.attempts.Progress(ctx, userID, quizID)
	if err != nil {
		return domain.ComparisonReport{}, err
	}
	if !found || !progress.Complete {
		return domain.ComparisonReport{}, domain.ErrNotComplete
	}

	report := domain.ComparisonReport{
		QuizID:      quiz.ID,
		Questions:   make([]domain.QuestionComparison, len(quiz.Questions)),
		GeneratedAt: s.now(),
	}

	g, ctx := errgroup.WithContext(ctx)
	for i, question := range quiz.Questions {
		i, question := i, question
		g.Go(func() error {
			answers, err := s.attempts.AnswersFor(ctx, question.ID)
			if err != nil {
				return err
			}
			entry, err := compareQuestion(quiz.Style, question, answers, userID)
			if err != nil {
				return err
			}
			report.Questions[i] = entry
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.ComparisonReport{}, err
	}
	return report, nil
}

func compareQuestion(style domain.QuizStyle, question domain.Question, answers []domain.UserAnswer, userID string) (domain.QuestionComparison, error) {
	own, ok := findAnswer(answers, userID)
	if !ok {
		// Completion implies an answer for every question; a miss means the
		// store and the progress cursor disagree.
		return domain.QuestionComparison{}, fmt.Errorf("no recorded answer for user %q on question %q", userID, question.ID)
	}

	entry := domain.QuestionComparison{
		QuestionID:  question.ID,
		Prompt:      question.Prompt,
		Style:       style,
		Respondents: len(answers),
	}
	switch style {
	case domain.StyleCategorical:
		entry.Categorical = compareCategorical(question, answers, own)
	case domain.StyleScalar:
		entry.Scalar = compareScalar(answers, own)
	}
	return entry, nil
}

// compareCategorical computes count/total shares over the question's declared
// choices. Choices nobody picked appear with a zero share; users who never
// reached the question are simply absent from answers, not counted.
func compareCategorical(question domain.Question, answers []domain.UserAnswer, own domain.UserAnswer) *domain.CategoricalComparison {
	counts := make(map[string]int, len(question.Choices))
	for _, answer := range answers {
		counts[answer.ChoiceID]++
	}

	total := len(answers)
	result := &domain.CategoricalComparison{
		Distribution: make([]domain.ChoiceShare, 0, len(question.Choices)),
		UserChoiceID: own.ChoiceID,
	}
	for _, choice := range question.Choices {
		share := domain.ChoiceShare{
			ChoiceID: choice.ID,
			Label:    choice.Label,
			Count:    counts[choice.ID],
		}
		if total > 0 {
			share.Share = float64(share.Count) / float64(total)
		}
		result.Distribution = append(result.Distribution, share)
		if choice.ID == own.ChoiceID {
			result.UserShare = share.Share
		}
	}
	return result
}

// compareScalar computes the user's mid-rank percentile against the other
// respondents: the fraction strictly below the user's value plus half the
// fraction tied with it. A lone respondent has no basis for comparison and is
// placed at 0.5 by definition.
func compareScalar(answers []domain.UserAnswer, own domain.UserAnswer) *domain.ScalarComparison {
	sum := 0
	below, tied := 0, 0
	for _, answer := range answers {
		sum += answer.Value
		if answer.UserID == own.UserID {
			continue
		}
		switch {
		case answer.Value < own.Value:
			below++
		case answer.Value == own.Value:
			tied++
		}
	}

	others := len(answers) - 1
	percentile := 0.5
	if others > 0 {
		percentile = (float64(below) + 0.5*float64(tied)) / float64(others)
	}
	return &domain.ScalarComparison{
		Percentile: percentile,
		Mean:       float64(sum) / float64(len(answers)),
		UserValue:  own.Value,
	}
}

func findAnswer(answers []domain.UserAnswer, userID string) (domain.UserAnswer, bool) {
	for _, answer := range answers {
		if answer.UserID == userID {
			return answer, true
		}
	}
	return domain.UserAnswer{}, false
}
