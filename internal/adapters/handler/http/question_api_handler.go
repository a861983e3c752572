package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

type QuestionAPIHandler struct {
	service ports.QuestionService
	logger  *zap.Logger
	now     func() time.Time
}

// NewQuestionAPIHandler reports was_published_recently against now; a nil
// now means time.Now. Pass the question service's clock so both agree.
func NewQuestionAPIHandler(service ports.QuestionService, logger *zap.Logger, now func() time.Time) *QuestionAPIHandler {
	if now == nil {
		now = time.Now
	}
	return &QuestionAPIHandler{
		service: service,
		logger:  logger,
		now:     now,
	}
}

type createQuestionRequest struct {
	Text        string     `json:"question_text"`
	PublishedAt *time.Time `json:"pub_date,omitempty"`
	Choices     []string   `json:"choices"`
}

type questionResponse struct {
	*domain.Question
	WasPublishedRecently bool                  `json:"was_published_recently"`
	Results              []domain.ChoiceResult `json:"results,omitempty"`
}

func (h *QuestionAPIHandler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := h.service.Index(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}

	now := h.now()
	resp := make([]questionResponse, 0, len(questions))
	for _, q := range questions {
		resp = append(resp, questionResponse{Question: q, WasPublishedRecently: q.WasPublishedRecently(now)})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *QuestionAPIHandler) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	var req createQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	question, err := h.service.Create(r.Context(), ports.CreateQuestionInput{
		Text:        req.Text,
		PublishedAt: req.PublishedAt,
		Choices:     req.Choices,
	})
	if err != nil {
		h.fail(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, questionResponse{
		Question:             question,
		WasPublishedRecently: question.WasPublishedRecently(h.now()),
	})
}

func (h *QuestionAPIHandler) GetQuestion(w http.ResponseWriter, r *http.Request) {
	question, results, err := h.service.Results(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err)
		return
	}

	writeJSON(w, http.StatusOK, questionResponse{
		Question:             question,
		WasPublishedRecently: question.WasPublishedRecently(h.now()),
		Results:              results,
	})
}

func (h *QuestionAPIHandler) fail(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("question api failed", zap.Error(err))
		writeError(w, status, domain.ErrInternal.Error())
		return
	}
	writeError(w, status, err.Error())
}
