package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/mediacleanerr/internal/models"
)

// PolicyStore reads and persists the deletion policy
type PolicyStore interface {
	Policy() models.Policy
	SavePolicy(policy models.Policy) error
}

// SettingsHandler handles policy settings
type SettingsHandler struct {
	store  PolicyStore
	logger *logrus.Logger
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(store PolicyStore, logger *logrus.Logger) *SettingsHandler {
	return &SettingsHandler{
		store:  store,
		logger: logger,
	}
}

// ServeHTTP returns the policy on GET and updates it on PUT
func (h *SettingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, h.logger, http.StatusOK, h.store.Policy())
	case http.MethodPut:
		// fields left out of the body keep their current value
		policy := h.store.Policy()
		if err := json.NewDecoder(r.Body).Decode(&policy); err != nil {
			writeError(w, h.logger, http.StatusBadRequest, "invalid payload")
			return
		}
		if err := h.store.SavePolicy(policy); err != nil {
			h.logger.WithError(err).Warn("Rejected policy update")
			writeError(w, h.logger, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, h.logger, http.StatusOK, h.store.Policy())
	default:
		w.Header().Set("Allow", "GET, PUT")
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
