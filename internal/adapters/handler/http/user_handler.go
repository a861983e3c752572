package http

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/vncsmyrnk/polls/internal/core/ports"
)

type UserHandler struct {
	service ports.UserService
	logger  *zap.Logger
}

func NewUserHandler(service ports.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		logger:  logger,
	}
}

func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized: missing user context")
		return
	}

	user, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to fetch user", zap.Stringer("user_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to fetch user")
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	writeJSON(w, http.StatusOK, user)
}
