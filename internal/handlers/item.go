package handlers

import (
	"net/http"

	"github.com/diewo77/go-supplies/internal/httpx"
	"github.com/diewo77/go-supplies/internal/services"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type ItemHandler struct {
	catalog *services.CatalogService
	log     logrus.FieldLogger
}

func NewItemHandler(catalog *services.CatalogService, log logrus.FieldLogger) *ItemHandler {
	return &ItemHandler{catalog: catalog, log: log}
}

func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	category, err := services.ParseCategoryFilter(r.URL.Query().Get("category"))
	if err != nil {
		writeError(w, r, h.log, "ItemHandler.List", err)
		return
	}
	items, err := h.catalog.List(r.Context(), category)
	if err != nil {
		writeError(w, r, h.log, "ItemHandler.List", err)
		return
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *ItemHandler) View(w http.ResponseWriter, r *http.Request) {
	item, err := h.catalog.Get(r.Context(), r.PathValue("name"))
	if err != nil {
		writeError(w, r, h.log, "ItemHandler.View", err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.ItemInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		badJSON(w, r, err)
		return
	}
	item, err := h.catalog.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, h.log, "ItemHandler.Create", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, item)
}

// Import replaces the catalog with the uploaded spreadsheet.
func (h *ItemHandler) Import(w http.ResponseWriter, r *http.Request) {
	f, name, err := formFile(r)
	if err != nil {
		writeError(w, r, h.log, "ItemHandler.Import", err)
		return
	}
	defer f.Close()

	n, err := h.catalog.ImportItems(r.Context(), name, f)
	if err != nil {
		writeError(w, r, h.log, "ItemHandler.Import", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"source": name, "items": n})
}

func (h *ItemHandler) UpdateCMM(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CMM decimal.Decimal `json:"cmm"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		badJSON(w, r, err)
		return
	}
	item, err := h.catalog.UpdateCMM(r.Context(), r.PathValue("name"), body.CMM)
	if err != nil {
		writeError(w, r, h.log, "ItemHandler.UpdateCMM", err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}
