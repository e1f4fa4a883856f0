package http

import (
	"net/http"

	"github.com/MKhiriev/go-tool-keeper/internal/utils"
	"github.com/MKhiriev/go-tool-keeper/models"
)

func (h *Handler) getServerVersion(w http.ResponseWriter, r *http.Request) {
	_, _ = utils.WriteJSON(w, h.services.AppInfoService.Version(r.Context()), http.StatusOK)
}

// health answers 503 while the database is unreachable.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	report := h.services.AppInfoService.Health(r.Context())

	status := http.StatusOK
	if report.Status != models.HealthOK {
		status = http.StatusServiceUnavailable
	}
	_, _ = utils.WriteJSON(w, report, status)
}

func (h *Handler) serveRealtime(w http.ResponseWriter, r *http.Request) {
	if h.realtime == nil {
		http.NotFound(w, r)
		return
	}
	h.realtime.ServeHTTP(w, r)
}
