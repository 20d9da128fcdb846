package services

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/diewo77/go-supplies/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardSheet(t *testing.T) {
	assert.Equal(t, []string{
		"Received Total", "Remaining", "Pending Total", "Consumed %", "Displayed Stock",
		"Autonomy Days", "Expiring Soon",
	}, DashboardColumns[:7], "computed figures lead in their documented order")

	days := int64(75)
	sheet := DashboardSheet(models.CategoryDry, []DashboardRow{{
		ContractID: 1, Item: "Rice", ReceivedTotal: 200, Remaining: 800, PendingTotal: 100,
		ConsumedPct: 33.3333, AutonomyDays: &days, ExpiringSoon: true,
	}})
	assert.Equal(t, "Dashboard DRY", sheet.Name)
	assert.Equal(t, DashboardColumns, sheet.Header)
	require.Len(t, sheet.Rows, 1)
	row := sheet.Rows[0]
	require.Len(t, row, len(DashboardColumns))
	assert.Equal(t, int64(200), row[0])
	assert.Equal(t, int64(800), row[1])
	assert.Equal(t, int64(100), row[2])
	assert.Equal(t, 33.33, row[3])
	assert.Equal(t, &days, row[5])
	assert.Equal(t, true, row[6])
	assert.Equal(t, uint(1), row[7])
	assert.Equal(t, "Rice", row[8])
}

func TestExportWriteAll(t *testing.T) {
	f := newFixture(t, DefaultOptions())
	f.item(t, "Beef", models.CategoryRefrigerated, 300)
	f.contract(t, "Beef", 1000, models.SignatureSigned)
	f.order(t, "OC-1", "Beef", 400)

	dir := t.TempDir()
	paths, err := f.svc.Export.WriteAll(f.ctx, dir, ".csv")
	require.NoError(t, err)
	require.Len(t, paths, 5)

	data, err := os.ReadFile(filepath.Join(dir, "dashboard_refrigerated.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Join(DashboardColumns, ","), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "0,1000,400,0,0,"), lines[1])
	assert.Contains(t, lines[1], ",1,Beef,REFRIGERATED,RJ,1000,1000,")

	data, err = os.ReadFile(filepath.Join(dir, "dashboard_dry.csv"))
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(string(data)), "\n"), 1)

	xlsx, err := f.svc.Export.WriteAll(f.ctx, dir, ".xlsx")
	require.NoError(t, err)
	for _, p := range xlsx {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.NotZero(t, info.Size())
	}
}
