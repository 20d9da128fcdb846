package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/diewo77/go-supplies/internal/i18n"
	"github.com/diewo77/go-supplies/internal/models"
	"github.com/diewo77/go-supplies/internal/repository"
	"github.com/shopspring/decimal"
)

// ConsumptionLevel buckets the consumed percentage of a contract.
type ConsumptionLevel string

const (
	ConsumptionLow    ConsumptionLevel = "LOW"
	ConsumptionMedium ConsumptionLevel = "MEDIUM"
	ConsumptionHigh   ConsumptionLevel = "HIGH"
)

// LevelOf returns LOW up to 30%, MEDIUM up to 69% and HIGH above.
func LevelOf(pct float64) ConsumptionLevel {
	switch {
	case pct <= 30:
		return ConsumptionLow
	case pct <= 69:
		return ConsumptionMedium
	}
	return ConsumptionHigh
}

// DashboardRow is the derived view of one SIGNED contract.
//
// Remaining is computed from RECEIVED orders only and can differ from
// CurrentBalance, which receipts debit as they are registered.
type DashboardRow struct {
	ContractID     uint                `json:"contract_id"`
	Item           string              `json:"item"`
	Category       models.Category     `json:"category"`
	Region         string              `json:"region,omitempty"`
	InitialBalance int64               `json:"initial_balance"`
	ReceivedTotal  int64               `json:"received_total"`
	Remaining      int64               `json:"remaining"`
	CurrentBalance int64               `json:"current_balance"`
	PendingTotal   int64               `json:"pending_total"`
	ConsumedPct    float64             `json:"consumed_pct"`
	Level          ConsumptionLevel    `json:"level"`
	ExpiresOn      time.Time           `json:"expires_on"`
	ExpiringSoon   bool                `json:"expiring_soon"`
	AvailableStock decimal.Decimal     `json:"available_stock"`
	ManualStock    decimal.NullDecimal `json:"manual_stock"`
	DisplayedStock decimal.Decimal     `json:"displayed_stock"`
	CMM            decimal.Decimal     `json:"cmm"`
	// AutonomyDays is nil when the item has no consumption to project.
	AutonomyDays  *int64 `json:"autonomy_days"`
	AutonomyLabel string `json:"autonomy_label"`
	Summary       string `json:"summary"`
}

type DashboardService struct {
	store    repository.Store
	warnDays int
	now      func() time.Time
}

func NewDashboardService(store repository.Store, warnDays int) *DashboardService {
	if warnDays <= 0 {
		warnDays = 90
	}
	return &DashboardService{store: store, warnDays: warnDays, now: time.Now}
}

// ParseCategoryFilter maps "", "ALL" and the category names to a filter;
// the empty category means every category.
func ParseCategoryFilter(s string) (models.Category, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "ALL") {
		return "", nil
	}
	c, err := models.ParseCategory(s)
	if err != nil {
		return "", invalid("category", "invalid_choice")
	}
	return c, nil
}

// Compute builds one row per SIGNED contract in category, sorted by item
// name. An empty category includes all.
func (s *DashboardService) Compute(ctx context.Context, category models.Category) ([]DashboardRow, error) {
	contracts, err := s.store.Contracts().List(ctx, repository.ContractQuery{
		Status:   models.SignatureSigned,
		Category: category,
	})
	if err != nil {
		return nil, err
	}
	totals, err := s.store.Orders().Totals(ctx)
	if err != nil {
		return nil, err
	}
	items, err := s.store.Items().ByName(ctx)
	if err != nil {
		return nil, err
	}

	day := today(s.now)
	rows := make([]DashboardRow, 0, len(contracts))
	for i := range contracts {
		c := &contracts[i]
		rows = append(rows, BuildRow(c, totals[c.Item], items[c.Item], day, s.warnDays))
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Item != rows[j].Item {
			return rows[i].Item < rows[j].Item
		}
		return rows[i].ContractID < rows[j].ContractID
	})
	return rows, nil
}

// BuildRow derives the dashboard metrics of one contract.
func BuildRow(c *models.Contract, t repository.ItemTotals, item models.Item, today time.Time, warnDays int) DashboardRow {
	row := DashboardRow{
		ContractID:     c.ID,
		Item:           c.Item,
		Category:       c.Category,
		Region:         item.Region,
		InitialBalance: c.InitialBalance,
		ReceivedTotal:  t.Received,
		Remaining:      c.InitialBalance - t.Received,
		CurrentBalance: c.CurrentBalance,
		PendingTotal:   t.Pending,
		ExpiresOn:      c.ExpiresOn,
		ExpiringSoon:   c.ExpiresWithin(today, warnDays),
		AvailableStock: c.AvailableStock,
		ManualStock:    c.ManualStock,
		DisplayedStock: c.DisplayedStock(),
		CMM:            item.CMM,
	}
	if c.InitialBalance != 0 {
		row.ConsumedPct = float64(c.InitialBalance-row.Remaining) / float64(c.InitialBalance) * 100
	}
	row.Level = LevelOf(row.ConsumedPct)
	row.AutonomyDays = AutonomyDays(row.DisplayedStock, item.CMM)
	row.AutonomyLabel = AutonomyLabel(row.AutonomyDays)
	row.Summary = i18n.Printer(i18n.DefaultLang).Sprintf("Restam %d KG de %d KG", row.Remaining, row.InitialBalance)
	return row
}

// AutonomyDays is floor(stock / cmm * 30), or nil when cmm is not positive.
func AutonomyDays(stock, cmm decimal.Decimal) *int64 {
	if !cmm.IsPositive() {
		return nil
	}
	days := stock.Mul(decimal.NewFromInt(30)).Div(cmm).Floor().IntPart()
	return &days
}

// AutonomyLabel renders days as months of 30 days and remaining days.
func AutonomyLabel(days *int64) string {
	if days == nil {
		return i18n.T(i18n.DefaultLang, "autonomy_undefined")
	}
	p := i18n.Printer(i18n.DefaultLang)
	months, rest := *days/30, *days%30
	unit := "mês"
	if months > 1 {
		unit = "meses"
	}
	switch {
	case months > 0 && rest > 0:
		return p.Sprintf("%d %s e %d dias", months, unit, rest)
	case months > 0:
		return p.Sprintf("%d %s", months, unit)
	}
	return p.Sprintf("%d dias", rest)
}
