package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/svaldez/socialnet-api/internal/models"
	"github.com/svaldez/socialnet-api/internal/service"
	"github.com/svaldez/socialnet-api/internal/validation"
)

// UserHandler handles user account requests
type UserHandler struct {
	accounts *service.AccountService
	logger   *zap.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(accounts *service.AccountService, logger *zap.Logger) *UserHandler {
	return &UserHandler{accounts: accounts, logger: logger}
}

// RegisterRoutes registers user routes on the given router. The router
// should already carry the /users prefix. Fixed paths are registered
// before the {id} wildcards.
func (h *UserHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListUsers).Methods("GET")
	r.HandleFunc("", h.CreateUser).Methods("POST")
	r.HandleFunc("/search", h.SearchUsers).Methods("GET")
	r.HandleFunc("/prefix", h.SearchByPrefix).Methods("GET")
	r.HandleFunc("/email-exists", h.EmailExists).Methods("GET")
	r.HandleFunc("/email-by-username", h.EmailByUsername).Methods("GET")
	r.HandleFunc("/batch", h.BatchGet).Methods("POST")
	r.HandleFunc("/{id}", h.GetUser).Methods("GET")
	r.HandleFunc("/{id}", h.CompleteRegistration).Methods("PATCH")
	r.HandleFunc("/{id}/profile", h.UpdateProfile).Methods("PATCH")
}

// CreateUserRequest represents a registration request
type CreateUserRequest struct {
	Username string  `json:"username" validate:"required,username"`
	Name     *string `json:"name,omitempty"`
	Email    string  `json:"email" validate:"required,email"`
}

// CreateUser registers a new account.
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "invalid JSON body", "")
		return
	}

	req.Username = validation.SanitizeText(req.Username)
	if err := validation.Validate.Struct(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "invalid registration payload", "")
		return
	}

	user, err := h.accounts.CreateUser(r.Context(), models.NewUserInput{
		Username: req.Username,
		Name:     req.Name,
		Email:    req.Email,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, user.View())
}

// ListUsers returns all users.
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.accounts.ListUsers(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, users)
}

// GetUser returns the merged user+profile view.
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	detail, err := h.accounts.GetUser(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, detail)
}

// SearchUsers returns users whose username or name contains ?q.
func (h *UserHandler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.accounts.SearchUsers(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, users)
}

// SearchByPrefix returns users whose username starts with ?q.
func (h *UserHandler) SearchByPrefix(w http.ResponseWriter, r *http.Request) {
	users, err := h.accounts.SearchUsersByPrefix(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, users)
}

// EmailExists reports whether ?email is registered.
func (h *UserHandler) EmailExists(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "email is required", "email")
		return
	}

	check, err := h.accounts.EmailExists(r.Context(), email)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, check)
}

// EmailByUsername returns the email registered for ?username.
func (h *UserHandler) EmailByUsername(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if username == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "username is required", "username")
		return
	}

	email, err := h.accounts.EmailByUsername(r.Context(), username)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"email": email})
}

// CompleteRegistration re-keys the user to the externally issued id and
// attaches the initial profile.
func (h *UserHandler) CompleteRegistration(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var input models.IdentityInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "invalid JSON body", "")
		return
	}
	input.ExternalID = strings.TrimSpace(input.ExternalID)

	detail, err := h.accounts.CompleteRegistration(r.Context(), id, input)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, detail)
}

// UpdateProfile applies a sparse profile edit.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var input models.ProfileUpdateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "invalid JSON body", "")
		return
	}

	detail, err := h.accounts.UpdateProfile(r.Context(), id, input)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, detail)
}

// BatchGetRequest selects users by usernames or by public ids. Missing
// identifiers are silently omitted from the result.
type BatchGetRequest struct {
	Usernames []string `json:"usernames,omitempty"`
	IDs       []string `json:"ids,omitempty"`
}

// BatchGet bulk-fetches users, interests included.
func (h *UserHandler) BatchGet(w http.ResponseWriter, r *http.Request) {
	var req BatchGetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "invalid JSON body", "")
		return
	}

	var (
		users []models.MatchView
		err   error
	)
	switch {
	case len(req.Usernames) > 0:
		users, err = h.accounts.UsersByUsernames(r.Context(), req.Usernames)
	case len(req.IDs) > 0:
		users, err = h.accounts.UsersByIDs(r.Context(), req.IDs)
	default:
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "usernames or ids required", "")
		return
	}
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, users)
}
