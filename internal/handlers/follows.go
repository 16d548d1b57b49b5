package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/svaldez/socialnet-api/internal/service"
)

// FollowHandler handles social graph requests
type FollowHandler struct {
	accounts *service.AccountService
	logger   *zap.Logger
}

// NewFollowHandler creates a new follow handler
func NewFollowHandler(accounts *service.AccountService, logger *zap.Logger) *FollowHandler {
	return &FollowHandler{accounts: accounts, logger: logger}
}

// RegisterRoutes registers follow graph routes on the /users subrouter.
func (h *FollowHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/{id}/follow/{target}", h.Follow).Methods("POST")
	r.HandleFunc("/{id}/follow/{target}", h.Unfollow).Methods("DELETE")
	r.HandleFunc("/{id}/followers", h.Followers).Methods("GET")
	r.HandleFunc("/{id}/following", h.Following).Methods("GET")
}

// Follow creates the edge id → target.
func (h *FollowHandler) Follow(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	edge, err := h.accounts.Follow(r.Context(), vars["id"], vars["target"])
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, edge)
}

// Unfollow removes the edge id → target.
func (h *FollowHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	if err := h.accounts.Unfollow(r.Context(), vars["id"], vars["target"]); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "unfollowed"})
}

// Followers lists everyone following the user.
func (h *FollowHandler) Followers(w http.ResponseWriter, r *http.Request) {
	users, err := h.accounts.Followers(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, users)
}

// Following lists everyone the user follows.
func (h *FollowHandler) Following(w http.ResponseWriter, r *http.Request) {
	users, err := h.accounts.Following(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, users)
}
