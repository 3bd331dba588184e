package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"compare-quiz-service/internal/app"
	"compare-quiz-service/internal/domain"
	"go.uber.org/zap"
)

// userHeader carries the opaque, already-authenticated user identifier set by
// the upstream auth layer. The service never sees credentials.
const userHeader = "X-User-ID"

// Handler exposes the questionnaire use cases as a JSON API. Rendering and
// session handling live upstream; this layer only maps domain results and
// errors onto HTTP.
type Handler struct {
	service *app.QuizService
	logger  *zap.Logger
}

func NewHandler(service *app.QuizService, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts all routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /quizzes", h.handleOverview)
	mux.HandleFunc("GET /quizzes/{quiz}/question", h.handleCurrentQuestion)
	mux.HandleFunc("POST /quizzes/{quiz}/answers", h.handleSubmit)
	mux.HandleFunc("GET /quizzes/{quiz}/results", h.handleResults)
}

type errorPayload struct {
	Error string `json:"error"`
}

type submitRequest struct {
	QuestionID string `json:"questionId"`
	Value      string `json:"value"`
}

func (h *Handler) handleOverview(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	overview, err := h.service.Overview(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, overview)
}

func (h *Handler) handleCurrentQuestion(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	state, err := h.service.CurrentQuestion(r.Context(), userID, r.PathValue("quiz"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, state)
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorPayload{Error: "invalid request body"})
		return
	}
	if req.QuestionID == "" {
		h.writeJSON(w, http.StatusBadRequest, errorPayload{Error: "questionId is required"})
		return
	}

	state, err := h.service.Submit(r.Context(), userID, req.QuestionID, req.Value)
	if errors.Is(err, domain.ErrOutOfSequence) {
		// Point the client back at the question the user actually has to
		// answer; a stale form is never silently accepted.
		current, cerr := h.service.CurrentQuestion(r.Context(), userID, r.PathValue("quiz"))
		if cerr != nil {
			h.writeError(w, r, cerr)
			return
		}
		h.writeJSON(w, http.StatusConflict, current)
		return
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, state)
}

func (h *Handler) handleResults(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	report, err := h.service.Compare(r.Context(), userID, r.PathValue("quiz"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, report)
}

func (h *Handler) userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := r.Header.Get(userHeader)
	if userID == "" {
		h.writeJSON(w, http.StatusUnauthorized, errorPayload{Error: "missing " + userHeader + " header"})
		return "", false
	}
	return userID, true
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrQuizNotFound), errors.Is(err, domain.ErrQuestionNotFound):
		h.writeJSON(w, http.StatusNotFound, errorPayload{Error: err.Error()})
	case domain.IsValidation(err):
		h.writeJSON(w, http.StatusUnprocessableEntity, errorPayload{Error: err.Error()})
	case errors.Is(err, domain.ErrNotComplete):
		h.writeJSON(w, http.StatusConflict, errorPayload{Error: "finish the quiz first"})
	default:
		h.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		h.writeJSON(w, http.StatusInternalServerError, errorPayload{Error: "internal error"})
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("write response", zap.Error(err))
	}
}
