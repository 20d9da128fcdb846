package services

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/diewo77/go-supplies/internal/models"
	"github.com/diewo77/go-supplies/internal/repository"
	"github.com/diewo77/go-supplies/internal/spreadsheet"
)

// DashboardColumns is the column order of dashboard exports. The computed
// figures lead, followed by the contract identification and stock sources.
var DashboardColumns = []string{
	"Received Total", "Remaining", "Pending Total", "Consumed %", "Displayed Stock",
	"Autonomy Days", "Expiring Soon",
	"Contract ID", "Item", "Category", "Region", "Initial Balance", "Current Balance",
	"Expires On", "Available Stock", "Manual Stock", "CMM",
}

// DashboardSheet lays out rows in DashboardColumns order.
func DashboardSheet(category models.Category, rows []DashboardRow) spreadsheet.Sheet {
	name := "Dashboard ALL"
	if category != "" {
		name = "Dashboard " + string(category)
	}
	s := spreadsheet.Sheet{Name: name, Header: DashboardColumns}
	for _, r := range rows {
		s.Rows = append(s.Rows, []any{
			r.ReceivedTotal, r.Remaining, r.PendingTotal, math.Round(r.ConsumedPct*100) / 100, r.DisplayedStock,
			r.AutonomyDays, r.ExpiringSoon,
			r.ContractID, r.Item, string(r.Category), r.Region, r.InitialBalance, r.CurrentBalance,
			r.ExpiresOn, r.AvailableStock, r.ManualStock, r.CMM,
		})
	}
	return s
}

type ExportService struct {
	store     repository.Store
	dashboard *DashboardService
}

func NewExportService(store repository.Store, dashboard *DashboardService) *ExportService {
	return &ExportService{store: store, dashboard: dashboard}
}

func (s *ExportService) Contracts(ctx context.Context) (spreadsheet.Sheet, error) {
	contracts, err := s.store.Contracts().List(ctx, repository.ContractQuery{})
	if err != nil {
		return spreadsheet.Sheet{}, err
	}
	return spreadsheet.ContractsSheet(contracts), nil
}

func (s *ExportService) Orders(ctx context.Context) (spreadsheet.Sheet, error) {
	orders, err := s.store.Orders().List(ctx, repository.OrderQuery{})
	if err != nil {
		return spreadsheet.Sheet{}, err
	}
	return spreadsheet.OrdersSheet(orders), nil
}

func (s *ExportService) Dashboard(ctx context.Context, category models.Category) (spreadsheet.Sheet, error) {
	rows, err := s.dashboard.Compute(ctx, category)
	if err != nil {
		return spreadsheet.Sheet{}, err
	}
	return DashboardSheet(category, rows), nil
}

// WriteAll writes every view to dir as ext files (".xlsx" or ".csv") and
// returns the paths written.
func (s *ExportService) WriteAll(ctx context.Context, dir, ext string) ([]string, error) {
	type view struct {
		name  string
		build func() (spreadsheet.Sheet, error)
	}
	views := []view{
		{"contracts", func() (spreadsheet.Sheet, error) { return s.Contracts(ctx) }},
		{"purchase_orders", func() (spreadsheet.Sheet, error) { return s.Orders(ctx) }},
		{"dashboard_all", func() (spreadsheet.Sheet, error) { return s.Dashboard(ctx, "") }},
	}
	for _, c := range models.Categories {
		views = append(views, view{
			"dashboard_" + strings.ToLower(string(c)),
			func() (spreadsheet.Sheet, error) { return s.Dashboard(ctx, c) },
		})
	}

	var paths []string
	for _, v := range views {
		sheet, err := v.build()
		if err != nil {
			return paths, fmt.Errorf("export %s: %w", v.name, err)
		}
		path := filepath.Join(dir, v.name+ext)
		if err := spreadsheet.WriteFile(path, sheet); err != nil {
			return paths, fmt.Errorf("export %s: %w", v.name, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
