package domain

import "time"

// QuizStyle selects the answer shape of a quiz and the statistic used to
// compare a user's answers against everyone else's.
type QuizStyle string

const (
	// StyleCategorical quizzes ask the user to pick one of a fixed set of choices.
	StyleCategorical QuizStyle = "categorical"
	// StyleScalar quizzes ask for an integer within a per-question range.
	StyleScalar QuizStyle = "scalar"
)

// Choice is one selectable answer for a categorical question.
type Choice struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
}

// Question belongs to exactly one quiz. Categorical questions carry choices;
// scalar questions carry an inclusive [Min,Max] range instead.
type Question struct {
	ID      string   `json:"id" yaml:"id"`
	Order   int      `json:"order" yaml:"order"`
	Prompt  string   `json:"prompt" yaml:"prompt"`
	Choices []Choice `json:"choices,omitempty" yaml:"choices,omitempty"`
	Min     int      `json:"min,omitempty" yaml:"min,omitempty"`
	Max     int      `json:"max,omitempty" yaml:"max,omitempty"`
}

// Quiz is an immutable questionnaire definition. Questions are kept in
// display order once the catalog has validated them.
type Quiz struct {
	ID        string     `json:"id" yaml:"id"`
	Title     string     `json:"title" yaml:"title"`
	Style     QuizStyle  `json:"style" yaml:"style"`
	Questions []Question `json:"questions" yaml:"questions"`
}

// UserAnswer is the single current answer of one user to one question.
// Exactly one of ChoiceID or Value is meaningful, depending on the quiz style.
type UserAnswer struct {
	UserID     string    `json:"userId"`
	QuizID     string    `json:"quizId"`
	QuestionID string    `json:"questionId"`
	ChoiceID   string    `json:"choiceId,omitempty"`
	Value      int       `json:"value,omitempty"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Progress is the per-(user, quiz) cursor: the index of the next unanswered
// question, or Complete once the user has passed the last one.
type Progress struct {
	UserID   string `json:"userId"`
	QuizID   string `json:"quizId"`
	Index    int    `json:"index"`
	Complete bool   `json:"complete"`
}

// QuestionState points a user at their current question within a quiz.
// When Complete is true the quiz is finished and Question is nil.
type QuestionState struct {
	QuizID   string    `json:"quizId"`
	Index    int       `json:"index"`
	Total    int       `json:"total"`
	Complete bool      `json:"complete"`
	Question *Question `json:"question,omitempty"`
}

// QuizOverview summarizes one quiz and the caller's position in it.
type QuizOverview struct {
	QuizID        string    `json:"quizId"`
	Title         string    `json:"title"`
	Style         QuizStyle `json:"style"`
	QuestionCount int       `json:"questionCount"`
	Answered      int       `json:"answered"`
	Complete      bool      `json:"complete"`
}

// ChoiceShare is the population frequency of one choice of a categorical question.
type ChoiceShare struct {
	ChoiceID string  `json:"choiceId"`
	Label    string  `json:"label"`
	Count    int     `json:"count"`
	Share    float64 `json:"share"`
}

// CategoricalComparison reports the full choice distribution for a question
// plus the requesting user's own pick and its share.
type CategoricalComparison struct {
	Distribution []ChoiceShare `json:"distribution"`
	UserChoiceID string        `json:"userChoiceId"`
	UserShare    float64       `json:"userShare"`
}

// ScalarComparison reports the requesting user's mid-rank percentile in [0,1]
// among all recorded values, the population mean, and the user's raw value.
type ScalarComparison struct {
	Percentile float64 `json:"percentile"`
	Mean       float64 `json:"mean"`
	UserValue  int     `json:"userValue"`
}

// QuestionComparison is the per-question entry of a comparison report.
// Exactly one of Categorical or Scalar is set, matching Style.
type QuestionComparison struct {
	QuestionID  string                 `json:"questionId"`
	Prompt      string                 `json:"prompt"`
	Style       QuizStyle              `json:"style"`
	Respondents int                    `json:"respondents"`
	Categorical *CategoricalComparison `json:"categorical,omitempty"`
	Scalar      *ScalarComparison      `json:"scalar,omitempty"`
}

// ComparisonReport answers "how do you compare?" for one user and one
// finished quiz, computed fresh from the current answer population.
type ComparisonReport struct {
	QuizID      string               `json:"quizId"`
	Questions   []QuestionComparison `json:"questions"`
	GeneratedAt time.Time            `json:"generatedAt"`
}
