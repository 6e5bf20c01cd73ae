package handlers

import (
	"net/http"

	"github.com/prodexy/opsboard-api/internal/repository"
	"github.com/rs/zerolog"
)

type UserHandler struct {
	repo   repository.UserRepository
	logger zerolog.Logger
}

func NewUserHandler(repo repository.UserRepository, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		repo:   repo,
		logger: logger.With().Str("handler", "user").Logger(),
	}
}

// List returns active users, used by the request assignment picker.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.repo.ListUsers(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list users")
		http.Error(w, "Failed to list users", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}
