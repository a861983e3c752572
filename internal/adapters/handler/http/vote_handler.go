package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

const noChoiceMessage = "You didn't select a choice."

type VoteHandler struct {
	questions ports.QuestionService
	votes     ports.VoteService
	renderer  *Renderer
	logger    *zap.Logger
}

func NewVoteHandler(questions ports.QuestionService, votes ports.VoteService, renderer *Renderer, logger *zap.Logger) *VoteHandler {
	return &VoteHandler{
		questions: questions,
		votes:     votes,
		renderer:  renderer,
		logger:    logger,
	}
}

// Vote re-renders the detail page when no valid choice was submitted and
// redirects to the results page otherwise.
func (h *VoteHandler) Vote(w http.ResponseWriter, r *http.Request) {
	question, err := h.questions.Detail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, domain.ErrQuestionNotFound) || errors.Is(err, domain.ErrInvalidQuestionID) {
			h.renderer.NotFound(w, r)
			return
		}
		h.serverError(w, err)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	choiceID, err := uuid.Parse(r.PostFormValue("choice"))
	if err != nil {
		h.noChoice(w, r, question)
		return
	}

	if err := h.votes.Vote(r.Context(), question.ID, choiceID); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidChoice), errors.Is(err, domain.ErrChoiceNotFound):
			h.noChoice(w, r, question)
		case errors.Is(err, domain.ErrQuestionNotFound):
			h.renderer.NotFound(w, r)
		default:
			h.serverError(w, err)
		}
		return
	}

	http.Redirect(w, r, MustReverse(RouteResults, question.ID.String()), http.StatusSeeOther)
}

func (h *VoteHandler) noChoice(w http.ResponseWriter, r *http.Request, question *domain.Question) {
	h.renderer.HTML(w, r, http.StatusOK, "detail", page{
		Title:        question.Text,
		Question:     question,
		ErrorMessage: noChoiceMessage,
	})
}

func (h *VoteHandler) serverError(w http.ResponseWriter, err error) {
	h.logger.Error("vote handler failed", zap.Error(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
