package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/mediacleanerr/internal/controllers"
	"github.com/amaumene/mediacleanerr/internal/models"
)

// Deleter carries out deletions and lists past ones
type Deleter interface {
	Delete(ctx context.Context, req controllers.DeleteRequest) (*models.Deletion, error)
	History(origin models.Origin) ([]*models.Deletion, error)
}

// DeleteHandler handles deletion requests
type DeleteHandler struct {
	deleter Deleter
	logger  *logrus.Logger
}

// NewDeleteHandler creates a new delete handler
func NewDeleteHandler(deleter Deleter, logger *logrus.Logger) *DeleteHandler {
	return &DeleteHandler{
		deleter: deleter,
		logger:  logger,
	}
}

// Delete handles POST /api/delete
func (h *DeleteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req controllers.DeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WithError(err).Debug("Failed to decode delete request")
		writeError(w, h.logger, http.StatusBadRequest, "invalid payload")
		return
	}

	deletion, err := h.deleter.Delete(r.Context(), req)
	switch {
	case errors.Is(err, controllers.ErrInvalidRequest):
		writeError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, controllers.ErrProtected):
		writeError(w, h.logger, http.StatusConflict, err.Error())
		return
	case err != nil:
		writeError(w, h.logger, http.StatusBadGateway, err.Error())
		return
	}

	status := http.StatusOK
	if len(deletion.Errors) > 0 {
		status = http.StatusBadGateway
	}
	writeJSON(w, h.logger, status, deletion)
}

// Deletions handles GET /api/deletions with an optional origin filter
func (h *DeleteHandler) Deletions(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	deletions, err := h.deleter.History(models.Origin(r.URL.Query().Get("origin")))
	if err != nil {
		h.logger.WithError(err).Error("Failed to get deletions")
		writeError(w, h.logger, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, deletions)
}
