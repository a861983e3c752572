package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

type QuestionHandler struct {
	service  ports.QuestionService
	renderer *Renderer
	logger   *zap.Logger
}

func NewQuestionHandler(service ports.QuestionService, renderer *Renderer, logger *zap.Logger) *QuestionHandler {
	return &QuestionHandler{
		service:  service,
		renderer: renderer,
		logger:   logger,
	}
}

func (h *QuestionHandler) Index(w http.ResponseWriter, r *http.Request) {
	questions, err := h.service.Index(r.Context())
	if err != nil {
		h.serverError(w, err)
		return
	}

	h.renderer.HTML(w, r, http.StatusOK, "index", page{
		Title:              "Polls",
		LatestQuestionList: questions,
	})
}

func (h *QuestionHandler) Detail(w http.ResponseWriter, r *http.Request) {
	question, err := h.service.Detail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleLookupError(w, r, err)
		return
	}

	h.renderer.HTML(w, r, http.StatusOK, "detail", page{
		Title:    question.Text,
		Question: question,
	})
}

func (h *QuestionHandler) Results(w http.ResponseWriter, r *http.Request) {
	question, results, err := h.service.Results(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleLookupError(w, r, err)
		return
	}

	h.renderer.HTML(w, r, http.StatusOK, "results", page{
		Title:    question.Text,
		Question: question,
		Results:  results,
	})
}

// handleLookupError renders 404 for unknown, malformed or unpublished questions.
func (h *QuestionHandler) handleLookupError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, domain.ErrQuestionNotFound) || errors.Is(err, domain.ErrInvalidQuestionID) {
		h.renderer.NotFound(w, r)
		return
	}
	h.serverError(w, err)
}

func (h *QuestionHandler) serverError(w http.ResponseWriter, err error) {
	h.logger.Error("question handler failed", zap.Error(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
