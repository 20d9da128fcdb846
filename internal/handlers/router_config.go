package handlers

import (
	"io"
	"net/http"

	"github.com/diewo77/go-supplies/internal/services"
	"github.com/sirupsen/logrus"
)

// RouterConfig holds the configured handlers of the API.
type RouterConfig struct {
	ItemHandler      *ItemHandler
	ContractHandler  *ContractHandler
	OrderHandler     *OrderHandler
	CommentHandler   *CommentHandler
	DashboardHandler *DashboardHandler
	StockHandler     *StockHandler
	ExportHandler    *ExportHandler
}

// NewRouterConfig creates every handler over svc. Server-side exports are
// written under exportDir.
func NewRouterConfig(svc *services.Services, exportDir string, log logrus.FieldLogger) *RouterConfig {
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}
	return &RouterConfig{
		ItemHandler:      NewItemHandler(svc.Catalog, log),
		ContractHandler:  NewContractHandler(svc.Contracts, svc.Orders, svc.Comments, log),
		OrderHandler:     NewOrderHandler(svc.Orders, svc.Collection, log),
		CommentHandler:   NewCommentHandler(svc.Comments, log),
		DashboardHandler: NewDashboardHandler(svc.Dashboard, log),
		StockHandler:     NewStockHandler(svc.Stock, log),
		ExportHandler:    NewExportHandler(svc.Export, exportDir, log),
	}
}

// Register adds every API route to mux.
func (c *RouterConfig) Register(mux *http.ServeMux) {
	ih := c.ItemHandler
	mux.HandleFunc("GET /items", ih.List)
	mux.HandleFunc("POST /items", ih.Create)
	mux.HandleFunc("POST /items/import", ih.Import)
	mux.HandleFunc("GET /items/{name}", ih.View)
	mux.HandleFunc("POST /items/{name}/cmm", ih.UpdateCMM)

	ch := c.ContractHandler
	mux.HandleFunc("GET /contracts", ch.List)
	mux.HandleFunc("POST /contracts", ch.Create)
	mux.HandleFunc("GET /contracts/{id}", ch.View)
	mux.HandleFunc("POST /contracts/{id}", ch.Update)
	mux.HandleFunc("POST /contracts/{id}/delete", ch.Delete)
	mux.HandleFunc("POST /contracts/{id}/stock", ch.SetManualStock)
	mux.HandleFunc("GET /contracts/{id}/orders", ch.Orders)
	mux.HandleFunc("GET /contracts/{id}/comments", ch.Comments)
	mux.HandleFunc("POST /contracts/{id}/comments", ch.AddComment)

	cm := c.CommentHandler
	mux.HandleFunc("POST /comments/{id}", cm.Edit)
	mux.HandleFunc("POST /comments/{id}/delete", cm.Delete)

	oh := c.OrderHandler
	mux.HandleFunc("GET /orders", oh.List)
	mux.HandleFunc("POST /orders", oh.Create)
	mux.HandleFunc("GET /orders/{id}", oh.View)
	mux.HandleFunc("POST /orders/{id}", oh.Update)
	mux.HandleFunc("POST /orders/{id}/delete", oh.Delete)
	mux.HandleFunc("POST /orders/{id}/receipts", oh.Receive)

	mux.HandleFunc("GET /dashboard", c.DashboardHandler.View)

	sh := c.StockHandler
	mux.HandleFunc("POST /stock/import", sh.Import)
	mux.HandleFunc("GET /stock/imports", sh.Recent)

	eh := c.ExportHandler
	mux.HandleFunc("GET /exports/contracts", eh.Contracts)
	mux.HandleFunc("GET /exports/orders", eh.Orders)
	mux.HandleFunc("GET /exports/dashboard", eh.Dashboard)
	mux.HandleFunc("POST /exports", eh.WriteAll)
}
