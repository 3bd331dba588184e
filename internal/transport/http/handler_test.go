package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"compare-quiz-service/internal/app"
	"compare-quiz-service/internal/catalog"
	"compare-quiz-service/internal/domain"
	"compare-quiz-service/internal/infra/memory"
	"go.uber.org/zap"
)

func TestQuizFlowOverHTTP(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	// First question.
	var state domain.QuestionState
	res := doJSON(t, server, "GET", "/quizzes/pair/question", "alice", nil, &state)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	if state.Question == nil || state.Question.ID != "pair-q1" {
		t.Fatalf("expected first question, got %+v", state)
	}

	// Results are gated until the quiz is finished.
	res = doJSON(t, server, "GET", "/quizzes/pair/results", "alice", nil, nil)
	if res.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 before completion, got %d", res.StatusCode)
	}

	// Answer both questions.
	res = doJSON(t, server, "POST", "/quizzes/pair/answers", "alice",
		map[string]string{"questionId": "pair-q1", "value": "a"}, &state)
	if res.StatusCode != http.StatusOK || state.Question == nil || state.Question.ID != "pair-q2" {
		t.Fatalf("expected advance to q2, got %d %+v", res.StatusCode, state)
	}

	// A stale resubmission of q1 is answered with the actual current question.
	res = doJSON(t, server, "POST", "/quizzes/pair/answers", "alice",
		map[string]string{"questionId": "pair-q1", "value": "b"}, &state)
	if res.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 for stale question, got %d", res.StatusCode)
	}
	if state.Question == nil || state.Question.ID != "pair-q2" {
		t.Fatalf("expected redirect target q2, got %+v", state)
	}

	res = doJSON(t, server, "POST", "/quizzes/pair/answers", "alice",
		map[string]string{"questionId": "pair-q2", "value": "y"}, &state)
	if res.StatusCode != http.StatusOK || !state.Complete {
		t.Fatalf("expected completion, got %d %+v", res.StatusCode, state)
	}

	// Results now resolve with one entry per question.
	var report domain.ComparisonReport
	res = doJSON(t, server, "GET", "/quizzes/pair/results", "alice", nil, &report)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 results, got %d", res.StatusCode)
	}
	if len(report.Questions) != 2 {
		t.Fatalf("expected 2-entry report, got %+v", report)
	}
	if report.Questions[0].Categorical == nil || report.Questions[0].Categorical.UserChoiceID != "a" {
		t.Fatalf("expected alice's pick in the report, got %+v", report.Questions[0])
	}
}

func TestSubmitValidationStatuses(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	res := doJSON(t, server, "POST", "/quizzes/pair/answers", "bob",
		map[string]string{"questionId": "pair-q1", "value": "nope"}, nil)
	if res.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for invalid choice, got %d", res.StatusCode)
	}

	res = doJSON(t, server, "POST", "/quizzes/pair/answers", "bob",
		map[string]string{"value": "a"}, nil)
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing questionId, got %d", res.StatusCode)
	}

	res = doJSON(t, server, "POST", "/quizzes/pair/answers", "bob",
		map[string]string{"questionId": "ghost", "value": "a"}, nil)
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown question, got %d", res.StatusCode)
	}
}

func TestIdentityHeaderRequired(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	req, err := http.NewRequest("GET", server.URL+"/quizzes", nil)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without identity header, got %d", res.StatusCode)
	}
}

func TestOverviewListsQuizzes(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	var overview []domain.QuizOverview
	res := doJSON(t, server, "GET", "/quizzes", "carol", nil, &overview)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	if len(overview) != 1 || overview[0].QuizID != "pair" || overview[0].Complete {
		t.Fatalf("unexpected overview %+v", overview)
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cat, err := catalog.New([]domain.Quiz{
		{
			ID:    "pair",
			Title: "Pick a Pair",
			Style: domain.StyleCategorical,
			Questions: []domain.Question{
				{
					ID: "pair-q1", Order: 1, Prompt: "A or B?",
					Choices: []domain.Choice{{ID: "a", Label: "A"}, {ID: "b", Label: "B"}},
				},
				{
					ID: "pair-q2", Order: 2, Prompt: "X, Y or Z?",
					Choices: []domain.Choice{{ID: "x", Label: "X"}, {ID: "y", Label: "Y"}, {ID: "z", Label: "Z"}},
				},
			},
		},
	})
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}

	service := app.NewQuizService(cat, memory.NewAttemptStore())
	handler := NewHandler(service, zap.NewNop())

	mux := http.NewServeMux()
	handler.Register(mux)
	return httptest.NewServer(mux)
}

func doJSON(t *testing.T, server *httptest.Server, method, path, userID string, body any, out any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, server.URL+path, &buf)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	req.Header.Set("X-User-ID", userID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do %s %s: %v", method, path, err)
	}
	defer res.Body.Close()
	if out != nil && res.StatusCode < 500 {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return res
}
