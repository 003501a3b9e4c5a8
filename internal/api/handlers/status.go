package handlers

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"
)

// StatusChecker reports service reachability keyed by service name
type StatusChecker interface {
	Check(ctx context.Context) map[string]bool
}

// StatusHandler handles service status requests
type StatusHandler struct {
	status StatusChecker
	logger *logrus.Logger
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(status StatusChecker, logger *logrus.Logger) *StatusHandler {
	return &StatusHandler{
		status: status,
		logger: logger,
	}
}

// ServeHTTP handles the status endpoint
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, h.logger, http.StatusOK, h.status.Check(r.Context()))
}
