package handlers

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/mediacleanerr/internal/matcher"
	"github.com/amaumene/mediacleanerr/internal/models"
)

// Scanner runs one aggregation
type Scanner interface {
	Scan(ctx context.Context) *matcher.Result
}

// ScanStats summarises the rows returned by a scan
type ScanStats struct {
	Total    int `json:"total"`
	Eligible int `json:"eligible"`
}

// ScanResponse is the payload of GET /api/scan
type ScanResponse struct {
	Config    models.Policy     `json:"config"`
	DiskUsage *models.DiskUsage `json:"disk_usage"`
	Services  map[string]bool   `json:"services"`
	Stats     ScanStats         `json:"stats"`
	Media     []models.MediaRow `json:"media"`
}

// ScanHandler serves aggregation results
type ScanHandler struct {
	scanner Scanner
	status  StatusChecker
	logger  *logrus.Logger
}

// NewScanHandler creates a new scan handler
func NewScanHandler(scanner Scanner, status StatusChecker, logger *logrus.Logger) *ScanHandler {
	return &ScanHandler{
		scanner: scanner,
		status:  status,
		logger:  logger,
	}
}

// Scan returns rows with files on disk, together with the policy, disk usage and service status
func (h *ScanHandler) Scan(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	result := h.scanner.Scan(r.Context())
	media := result.FileLoaded()

	eligible := 0
	for _, row := range media {
		if row.Deletable {
			eligible++
		}
	}

	writeJSON(w, h.logger, http.StatusOK, ScanResponse{
		Config:    result.Policy,
		DiskUsage: result.DiskUsage,
		Services:  h.status.Check(r.Context()),
		Stats:     ScanStats{Total: len(media), Eligible: eligible},
		Media:     media,
	})
}

// Disk returns the disk usage of the library volume, or null when unknown
func (h *ScanHandler) Disk(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, h.logger, http.StatusOK, h.scanner.Scan(r.Context()).DiskUsage)
}

// Media returns every row, including items without files
func (h *ScanHandler) Media(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, h.logger, http.StatusOK, h.scanner.Scan(r.Context()).Rows)
}
