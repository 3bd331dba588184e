package catalog

import (
	"context"
	"fmt"
	"os"

	"compare-quiz-service/internal/domain"
	"gopkg.in/yaml.v3"
)

// FileLoader reads quiz definitions from a YAML document of the form:
//
//	quizzes:
//	  - id: flag
//	    title: Flag Quiz
//	    style: categorical
//	    questions: [...]
type FileLoader struct {
	path string
}

func NewFileLoader(path string) *FileLoader {
	return &FileLoader{path: path}
}

func (l *FileLoader) LoadQuizzes(_ context.Context) ([]domain.Quiz, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	var doc struct {
		Quizzes []domain.Quiz `yaml:"quizzes"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog file: %w", err)
	}
	return doc.Quizzes, nil
}

// StaticLoader serves a fixed quiz slice (tests, built-in samples).
type StaticLoader struct {
	quizzes []domain.Quiz
}

func NewStaticLoader(quizzes []domain.Quiz) *StaticLoader {
	return &StaticLoader{quizzes: quizzes}
}

func (l *StaticLoader) LoadQuizzes(_ context.Context) ([]domain.Quiz, error) {
	return l.quizzes, nil
}
