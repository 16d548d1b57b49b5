package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/svaldez/socialnet-api/internal/service"
)

// DiscoveryHandler handles proximity and interest matching requests
type DiscoveryHandler struct {
	accounts *service.AccountService
	logger   *zap.Logger
}

// NewDiscoveryHandler creates a new discovery handler
func NewDiscoveryHandler(accounts *service.AccountService, logger *zap.Logger) *DiscoveryHandler {
	return &DiscoveryHandler{accounts: accounts, logger: logger}
}

// RegisterRoutes registers discovery routes on the /users subrouter.
func (h *DiscoveryHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/{id}/near", h.NearUsers).Methods("GET")
	r.HandleFunc("/{id}/common-interests", h.CommonInterests).Methods("GET")
}

// NearUsers returns users within ?radius_km great-circle kilometers of
// the subject (default 10).
func (h *DiscoveryHandler) NearUsers(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	radiusKM := 0.0
	if raw := r.URL.Query().Get("radius_km"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "radius_km must be a positive number", "radius_km")
			return
		}
		radiusKM = parsed
	}

	users, err := h.accounts.NearUsers(r.Context(), id, radiusKM)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, users)
}

// CommonInterests returns users sharing at least one interest tag with
// the subject.
func (h *DiscoveryHandler) CommonInterests(w http.ResponseWriter, r *http.Request) {
	users, err := h.accounts.CommonInterests(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, users)
}
