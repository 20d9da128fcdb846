package handlers

import (
	"net/http"

	"github.com/diewo77/go-supplies/internal/httpx"
	"github.com/diewo77/go-supplies/internal/services"
	"github.com/sirupsen/logrus"
)

type DashboardHandler struct {
	dashboard *services.DashboardService
	log       logrus.FieldLogger
}

func NewDashboardHandler(dashboard *services.DashboardService, log logrus.FieldLogger) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, log: log}
}

// View returns the dashboard rows for ?category= (ALL, REFRIGERATED, DRY).
func (h *DashboardHandler) View(w http.ResponseWriter, r *http.Request) {
	category, err := services.ParseCategoryFilter(r.URL.Query().Get("category"))
	if err != nil {
		writeError(w, r, h.log, "DashboardHandler.View", err)
		return
	}
	rows, err := h.dashboard.Compute(r.Context(), category)
	if err != nil {
		writeError(w, r, h.log, "DashboardHandler.View", err)
		return
	}
	httpx.JSON(w, http.StatusOK, rows)
}
