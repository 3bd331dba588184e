package catalog

import (
	"context"
	"fmt"
	"sort"

	"compare-quiz-service/internal/domain"
)

// Loader supplies quiz definitions at process start (from a file, a database,
// or a built-in sample set).
type Loader interface {
	LoadQuizzes(ctx context.Context) ([]domain.Quiz, error)
}

// questionRef locates a question inside its quiz by position.
type questionRef struct {
	quizID string
	index  int
}

// Catalog is the immutable set of quizzes the service offers. It is validated
// once at construction; a malformed definition is a construction error, never
// a per-request one.
type Catalog struct {
	quizzes   map[string]domain.Quiz
	order     []string
	questions map[string]questionRef
}

// Load builds a validated catalog from a loader.
func Load(ctx context.Context, loader Loader) (*Catalog, error) {
	quizzes, err := loader.LoadQuizzes(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return New(quizzes)
}

// New validates the given quizzes and returns a catalog over them. Questions
// are sorted by their display order; within a quiz orders must be unique and
// contiguous, categorical questions must carry at least two distinct choices,
// and scalar questions must declare min < max.
func New(quizzes []domain.Quiz) (*Catalog, error) {
	c := &Catalog{
		quizzes:   make(map[string]domain.Quiz, len(quizzes)),
		questions: make(map[string]questionRef),
	}
	for _, quiz := range quizzes {
		if err := validateQuiz(quiz); err != nil {
			return nil, fmt.Errorf("catalog: quiz %q: %w", quiz.ID, err)
		}
		if _, ok := c.quizzes[quiz.ID]; ok {
			return nil, fmt.Errorf("catalog: duplicate quiz id %q", quiz.ID)
		}
		sort.Slice(quiz.Questions, func(i, j int) bool {
			return quiz.Questions[i].Order < quiz.Questions[j].Order
		})
		for i, q := range quiz.Questions {
			if _, ok := c.questions[q.ID]; ok {
				return nil, fmt.Errorf("catalog: duplicate question id %q", q.ID)
			}
			c.questions[q.ID] = questionRef{quizID: quiz.ID, index: i}
		}
		c.quizzes[quiz.ID] = quiz
		c.order = append(c.order, quiz.ID)
	}
	return c, nil
}

// Quiz returns the quiz with the given ID, questions in display order.
func (c *Catalog) Quiz(id string) (domain.Quiz, error) {
	quiz, ok := c.quizzes[id]
	if !ok {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	return quiz, nil
}

// Quizzes returns all quizzes in catalog order.
func (c *Catalog) Quizzes() []domain.Quiz {
	out := make([]domain.Quiz, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.quizzes[id])
	}
	return out
}

// QuestionByID resolves a question to its quiz and zero-based position.
func (c *Catalog) QuestionByID(id string) (domain.Quiz, domain.Question, int, error) {
	ref, ok := c.questions[id]
	if !ok {
		return domain.Quiz{}, domain.Question{}, 0, domain.ErrQuestionNotFound
	}
	quiz := c.quizzes[ref.quizID]
	return quiz, quiz.Questions[ref.index], ref.index, nil
}

func validateQuiz(quiz domain.Quiz) error {
	if quiz.ID == "" {
		return fmt.Errorf("missing id")
	}
	if quiz.Style != domain.StyleCategorical && quiz.Style != domain.StyleScalar {
		return fmt.Errorf("unknown style %q", quiz.Style)
	}
	if len(quiz.Questions) == 0 {
		return fmt.Errorf("no questions")
	}

	orders := make(map[int]string, len(quiz.Questions))
	lo, hi := quiz.Questions[0].Order, quiz.Questions[0].Order
	for _, q := range quiz.Questions {
		if q.ID == "" {
			return fmt.Errorf("question with empty id")
		}
		if prev, ok := orders[q.Order]; ok {
			return fmt.Errorf("questions %q and %q share order %d", prev, q.ID, q.Order)
		}
		orders[q.Order] = q.ID
		if q.Order < lo {
			lo = q.Order
		}
		if q.Order > hi {
			hi = q.Order
		}
		if err := validateQuestion(quiz.Style, q); err != nil {
			return fmt.Errorf("question %q: %w", q.ID, err)
		}
	}
	if hi-lo+1 != len(quiz.Questions) {
		return fmt.Errorf("question orders are not contiguous")
	}
	return nil
}

func validateQuestion(style domain.QuizStyle, q domain.Question) error {
	switch style {
	case domain.StyleCategorical:
		if len(q.Choices) < 2 {
			return fmt.Errorf("categorical question needs at least 2 choices, has %d", len(q.Choices))
		}
		seen := make(map[string]struct{}, len(q.Choices))
		for _, choice := range q.Choices {
			if choice.ID == "" {
				return fmt.Errorf("choice with empty id")
			}
			if _, ok := seen[choice.ID]; ok {
				return fmt.Errorf("duplicate choice id %q", choice.ID)
			}
			seen[choice.ID] = struct{}{}
		}
	case domain.StyleScalar:
		if len(q.Choices) > 0 {
			return fmt.Errorf("scalar question must not carry choices")
		}
		if q.Min >= q.Max {
			return fmt.Errorf("scalar range [%d,%d] is empty", q.Min, q.Max)
		}
	}
	return nil
}
