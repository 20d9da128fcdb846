package handlers

import (
	"net/http"
	"strconv"

	"github.com/diewo77/go-supplies/internal/httpx"
	"github.com/diewo77/go-supplies/internal/services"
	"github.com/sirupsen/logrus"
)

type StockHandler struct {
	stock *services.StockImportService
	log   logrus.FieldLogger
}

func NewStockHandler(stock *services.StockImportService, log logrus.FieldLogger) *StockHandler {
	return &StockHandler{stock: stock, log: log}
}

// Import applies an uploaded stock snapshot (multipart field "file").
func (h *StockHandler) Import(w http.ResponseWriter, r *http.Request) {
	f, name, err := formFile(r)
	if err != nil {
		writeError(w, r, h.log, "StockHandler.Import", err)
		return
	}
	defer f.Close()

	imp, err := h.stock.Import(r.Context(), name, f)
	if err != nil {
		writeError(w, r, h.log, "StockHandler.Import", err)
		return
	}
	httpx.JSON(w, http.StatusOK, imp)
}

func (h *StockHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 20
	}
	imports, err := h.stock.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, r, h.log, "StockHandler.Recent", err)
		return
	}
	httpx.JSON(w, http.StatusOK, imports)
}
