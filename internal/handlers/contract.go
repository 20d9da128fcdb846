package handlers

import (
	"net/http"

	"github.com/diewo77/go-supplies/internal/httpx"
	"github.com/diewo77/go-supplies/internal/models"
	"github.com/diewo77/go-supplies/internal/repository"
	"github.com/diewo77/go-supplies/internal/services"
	"github.com/diewo77/go-supplies/internal/validation"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type ContractHandler struct {
	contracts *services.ContractService
	orders    *services.PurchaseOrderService
	comments  *services.CommentService
	log       logrus.FieldLogger
}

func NewContractHandler(contracts *services.ContractService, orders *services.PurchaseOrderService, comments *services.CommentService, log logrus.FieldLogger) *ContractHandler {
	return &ContractHandler{contracts: contracts, orders: orders, comments: comments, log: log}
}

type contractRequest struct {
	services.ContractInput
	ExpiresOn Date `json:"expires_on"`
}

func (req contractRequest) input() services.ContractInput {
	in := req.ContractInput
	in.ExpiresOn = req.ExpiresOn.Time()
	return in
}

// List filters by ?q= (process number, company or item), ?category=,
// ?status= and ?item=.
func (h *ContractHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	q := repository.ContractQuery{Search: query.Get("q"), Item: query.Get("item")}

	v := make(validation.Violations)
	if s := query.Get("category"); s != "" {
		c, err := services.ParseCategoryFilter(s)
		if err != nil {
			v["category"] = "invalid_choice"
		}
		q.Category = c
	}
	if s := query.Get("status"); s != "" {
		st, err := models.ParseSignatureStatus(s)
		if err != nil {
			v["status"] = "invalid_choice"
		}
		q.Status = st
	}
	if !v.Empty() {
		writeError(w, r, h.log, "ContractHandler.List", &services.ValidationError{Violations: v})
		return
	}

	contracts, err := h.contracts.List(r.Context(), q)
	if err != nil {
		writeError(w, r, h.log, "ContractHandler.List", err)
		return
	}
	httpx.JSON(w, http.StatusOK, contracts)
}

func (h *ContractHandler) View(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	c, err := h.contracts.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, h.log, "ContractHandler.View", err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

func (h *ContractHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req contractRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		badJSON(w, r, err)
		return
	}
	c, err := h.contracts.Create(r.Context(), req.input())
	if err != nil {
		writeError(w, r, h.log, "ContractHandler.Create", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, c)
}

func (h *ContractHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req contractRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		badJSON(w, r, err)
		return
	}
	c, err := h.contracts.Update(r.Context(), id, req.input())
	if err != nil {
		writeError(w, r, h.log, "ContractHandler.Update", err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

func (h *ContractHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.contracts.Delete(r.Context(), id); err != nil {
		writeError(w, r, h.log, "ContractHandler.Delete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetManualStock takes {"manual_stock": "12.5"}; null clears the override.
func (h *ContractHandler) SetManualStock(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body struct {
		ManualStock *decimal.Decimal `json:"manual_stock"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		badJSON(w, r, err)
		return
	}
	c, err := h.contracts.SetManualStock(r.Context(), id, body.ManualStock)
	if err != nil {
		writeError(w, r, h.log, "ContractHandler.SetManualStock", err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

// Orders lists the purchase orders drawn on the contract's item.
func (h *ContractHandler) Orders(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	orders, err := h.orders.ListByContract(r.Context(), id)
	if err != nil {
		writeError(w, r, h.log, "ContractHandler.Orders", err)
		return
	}
	httpx.JSON(w, http.StatusOK, orders)
}

func (h *ContractHandler) Comments(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	comments, err := h.comments.List(r.Context(), id)
	if err != nil {
		writeError(w, r, h.log, "ContractHandler.Comments", err)
		return
	}
	httpx.JSON(w, http.StatusOK, comments)
}

func (h *ContractHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body commentRequest
	if err := httpx.DecodeJSON(r, &body); err != nil {
		badJSON(w, r, err)
		return
	}
	c, err := h.comments.Append(r.Context(), id, body.Text)
	if err != nil {
		writeError(w, r, h.log, "ContractHandler.AddComment", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, c)
}
