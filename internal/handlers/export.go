package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/diewo77/go-supplies/internal/httpx"
	"github.com/diewo77/go-supplies/internal/i18n"
	"github.com/diewo77/go-supplies/internal/services"
	"github.com/diewo77/go-supplies/internal/spreadsheet"
	"github.com/sirupsen/logrus"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportHandler struct {
	export *services.ExportService
	dir    string
	log    logrus.FieldLogger
}

func NewExportHandler(export *services.ExportService, dir string, log logrus.FieldLogger) *ExportHandler {
	return &ExportHandler{export: export, dir: dir, log: log}
}

// WriteAll saves every view under the export directory and lists the files.
func (h *ExportHandler) WriteAll(w http.ResponseWriter, r *http.Request) {
	ext := ".xlsx"
	if strings.EqualFold(r.URL.Query().Get("format"), "csv") {
		ext = ".csv"
	}
	if err := os.MkdirAll(h.dir, 0o755); err != nil {
		writeError(w, r, h.log, "ExportHandler.WriteAll", err)
		return
	}
	paths, err := h.export.WriteAll(r.Context(), h.dir, ext)
	if err != nil {
		writeError(w, r, h.log, "ExportHandler.WriteAll", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"files": paths})
}

func (h *ExportHandler) Contracts(w http.ResponseWriter, r *http.Request) {
	sheet, err := h.export.Contracts(r.Context())
	if err != nil {
		writeError(w, r, h.log, "ExportHandler.Contracts", err)
		return
	}
	h.send(w, r, "contracts", sheet)
}

func (h *ExportHandler) Orders(w http.ResponseWriter, r *http.Request) {
	sheet, err := h.export.Orders(r.Context())
	if err != nil {
		writeError(w, r, h.log, "ExportHandler.Orders", err)
		return
	}
	h.send(w, r, "purchase_orders", sheet)
}

func (h *ExportHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	category, err := services.ParseCategoryFilter(r.URL.Query().Get("category"))
	if err != nil {
		writeError(w, r, h.log, "ExportHandler.Dashboard", err)
		return
	}
	sheet, err := h.export.Dashboard(r.Context(), category)
	if err != nil {
		writeError(w, r, h.log, "ExportHandler.Dashboard", err)
		return
	}
	name := "dashboard_all"
	if category != "" {
		name = "dashboard_" + strings.ToLower(string(category))
	}
	h.send(w, r, name, sheet)
}

// send writes sheet as an attachment in the ?format= (xlsx default, csv).
func (h *ExportHandler) send(w http.ResponseWriter, r *http.Request, name string, sheet spreadsheet.Sheet) {
	format := spreadsheet.FormatXLSX
	contentType := xlsxContentType
	switch strings.ToLower(r.URL.Query().Get("format")) {
	case "", "xlsx":
	case "csv":
		format = spreadsheet.FormatCSV
		contentType = "text/csv; charset=utf-8"
	default:
		lang := i18n.LangFromContext(r.Context())
		httpx.JSONError(w, http.StatusBadRequest, "invalid_choice", i18n.T(lang, "invalid_choice"), "format")
		return
	}

	var buf bytes.Buffer
	if err := spreadsheet.Write(&buf, format, sheet); err != nil {
		writeError(w, r, h.log, "ExportHandler.send", err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.%s"`, name, format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
