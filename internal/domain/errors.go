package domain

import "errors"

var (
	// ErrQuizNotFound indicates the quiz ID is not in the catalog.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrQuestionNotFound indicates a submitted question ID is invalid.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrInvalidChoice is returned when a categorical answer names a choice
	// that does not belong to the question.
	ErrInvalidChoice = errors.New("choice does not belong to question")
	// ErrNotNumeric is returned when a scalar answer does not parse to an integer.
	ErrNotNumeric = errors.New("answer is not a number")
	// ErrOutOfRange is returned when a scalar answer falls outside the question range.
	ErrOutOfRange = errors.New("answer outside the question range")
	// ErrOutOfSequence is returned when an answer targets a question other
	// than the user's current one. Nothing is stored in that case.
	ErrOutOfSequence = errors.New("question is not the current question")
	// ErrNotComplete is returned when results are requested before the user
	// has answered every question of the quiz.
	ErrNotComplete = errors.New("quiz is not complete")
)

// IsValidation reports whether err is a user-correctable answer rejection,
// as opposed to a sequencing or infrastructure failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidChoice) ||
		errors.Is(err, ErrNotNumeric) ||
		errors.Is(err, ErrOutOfRange)
}
