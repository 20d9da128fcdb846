package handlers

import (
	"net/http"
	"strings"

	"github.com/diewo77/go-supplies/internal/httpx"
	"github.com/diewo77/go-supplies/internal/models"
	"github.com/diewo77/go-supplies/internal/repository"
	"github.com/diewo77/go-supplies/internal/services"
	"github.com/diewo77/go-supplies/internal/validation"
	"github.com/sirupsen/logrus"
)

type OrderHandler struct {
	orders     *services.PurchaseOrderService
	collection *services.CollectionService
	log        logrus.FieldLogger
}

func NewOrderHandler(orders *services.PurchaseOrderService, collection *services.CollectionService, log logrus.FieldLogger) *OrderHandler {
	return &OrderHandler{orders: orders, collection: collection, log: log}
}

type orderRequest struct {
	services.OrderInput
	AcceptedOn Date `json:"accepted_on"`
}

func (req orderRequest) input() services.OrderInput {
	in := req.OrderInput
	in.AcceptedOn = req.AcceptedOn.Time()
	return in
}

// List filters by ?q= (number, vendor or item), ?item= and ?status=.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	q := repository.OrderQuery{Search: query.Get("q"), Item: query.Get("item")}
	if s := query.Get("status"); s != "" {
		q.Status = models.OrderStatus(strings.ToUpper(strings.TrimSpace(s)))
		if !q.Status.Valid() {
			writeError(w, r, h.log, "OrderHandler.List", &services.ValidationError{Violations: validation.Violations{"status": "invalid_choice"}})
			return
		}
	}
	orders, err := h.orders.List(r.Context(), q)
	if err != nil {
		writeError(w, r, h.log, "OrderHandler.List", err)
		return
	}
	httpx.JSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) View(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	o, err := h.orders.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, h.log, "OrderHandler.View", err)
		return
	}
	httpx.JSON(w, http.StatusOK, o)
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		badJSON(w, r, err)
		return
	}
	res, err := h.orders.Create(r.Context(), req.input())
	if err != nil {
		writeError(w, r, h.log, "OrderHandler.Create", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, res)
}

func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req orderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		badJSON(w, r, err)
		return
	}
	res, err := h.orders.Update(r.Context(), id, req.input())
	if err != nil {
		writeError(w, r, h.log, "OrderHandler.Update", err)
		return
	}
	httpx.JSON(w, http.StatusOK, res)
}

// Delete removes the order and reports the quantity refunded to its contract.
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	res, err := h.orders.Delete(r.Context(), id)
	if err != nil {
		writeError(w, r, h.log, "OrderHandler.Delete", err)
		return
	}
	httpx.JSON(w, http.StatusOK, res)
}

// Receive registers a receipt: {"quantity": 200, "collection_status": "WAREHOUSING"}.
func (h *OrderHandler) Receive(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in services.ReceiptInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		badJSON(w, r, err)
		return
	}
	res, err := h.collection.RegisterReceipt(r.Context(), id, in)
	if err != nil {
		writeError(w, r, h.log, "OrderHandler.Receive", err)
		return
	}
	httpx.JSON(w, http.StatusOK, res)
}
