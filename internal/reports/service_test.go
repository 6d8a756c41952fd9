package reports

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"starevents/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func setupService(t *testing.T) (*Service, *bun.DB) {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, "file::memory:?cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { sqldb.Close() })

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())

	ctx := context.Background()
	for _, model := range []interface{}{
		(*models.User)(nil),
		(*models.Venue)(nil),
		(*models.Event)(nil),
		(*models.Booking)(nil),
	} {
		require.NoError(t, bunDB.ResetModel(ctx, model))
	}

	return NewService(bunDB), bunDB
}

func seedReportData(t *testing.T, db *bun.DB) {
	t.Helper()
	ctx := context.Background()

	venue := &models.Venue{ID: "ven-1", Name: "Nelum Pokuna", City: "Colombo"}
	_, err := db.NewInsert().Model(venue).Exec(ctx)
	require.NoError(t, err)

	events := []*models.Event{
		{
			ID: "evt-1", OrganizerID: "org-1", VenueID: "ven-1",
			Title: "Symphony Under the Stars", Category: "Concert",
			StartDate: time.Now().Add(30 * 24 * time.Hour), TicketPrice: 2500,
			Status: models.EventPublished, IsActive: true,
		},
		{
			ID: "evt-2", OrganizerID: "org-2", VenueID: "ven-1",
			Title: "Maname", Category: "Theatre",
			StartDate: time.Now().Add(45 * 24 * time.Hour), TicketPrice: 1000,
			Status: models.EventPublished, IsActive: true,
		},
	}
	for _, e := range events {
		_, err := db.NewInsert().Model(e).Exec(ctx)
		require.NoError(t, err)
	}

	bookings := []*models.Booking{
		{
			ID: "bkg-1", CustomerID: "cust-1", EventID: "evt-1",
			TicketQuantity: 4, UnitPrice: 2500, TotalAmount: 9000,
			Status: models.BookingConfirmed, BookingDate: time.Now(),
		},
		{
			ID: "bkg-2", CustomerID: "cust-2", EventID: "evt-2",
			TicketQuantity: 2, UnitPrice: 1000, TotalAmount: 2000,
			Status: models.BookingCompleted, BookingDate: time.Now().Add(-24 * time.Hour),
		},
		// Cancelled bookings never count toward revenue.
		{
			ID: "bkg-3", CustomerID: "cust-1", EventID: "evt-1",
			TicketQuantity: 10, UnitPrice: 2500, TotalAmount: 25000,
			Status: models.BookingCancelled, BookingDate: time.Now(),
		},
	}
	for _, b := range bookings {
		_, err := db.NewInsert().Model(b).Exec(ctx)
		require.NoError(t, err)
	}
}

func TestSummary(t *testing.T) {
	svc, db := setupService(t)
	seedReportData(t, db)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 11000.0, summary.TotalRevenue)
	assert.Equal(t, 6, summary.TotalTicketsSold)

	categories := make(map[string]int)
	for _, c := range summary.EventsByCategory {
		categories[c.Category] = c.Count
	}
	assert.Equal(t, 1, categories["Concert"])
	assert.Equal(t, 1, categories["Theatre"])

	require.NotEmpty(t, summary.TopEvents)
	assert.Equal(t, "evt-1", summary.TopEvents[0].EventID)
	assert.Equal(t, 9000.0, summary.TopEvents[0].Revenue)
	assert.Equal(t, 4, summary.TopEvents[0].TicketsSold)

	require.NotEmpty(t, summary.RevenueByMonth)
	var monthlyTotal float64
	for _, m := range summary.RevenueByMonth {
		monthlyTotal += m.Revenue
	}
	assert.Equal(t, 11000.0, monthlyTotal)
}

func TestSummaryEmptyDatabase(t *testing.T) {
	svc, _ := setupService(t)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)

	assert.Zero(t, summary.TotalRevenue)
	assert.Zero(t, summary.TotalTicketsSold)
	assert.Empty(t, summary.RevenueByMonth)
}

func TestOrganizerSummary(t *testing.T) {
	svc, db := setupService(t)
	seedReportData(t, db)

	summary, err := svc.OrganizerSummary(context.Background(), "org-1")
	require.NoError(t, err)
	assert.Equal(t, 9000.0, summary.TotalRevenue)
	assert.Equal(t, 4, summary.TotalTicketsSold)

	other, err := svc.OrganizerSummary(context.Background(), "org-2")
	require.NoError(t, err)
	assert.Equal(t, 2000.0, other.TotalRevenue)
}

func TestExportCSV(t *testing.T) {
	svc, db := setupService(t)
	seedReportData(t, db)
	ctx := context.Background()

	data, filename, err := svc.ExportCSV(ctx, "events")
	require.NoError(t, err)
	assert.Equal(t, "events_report.csv", filename)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3, "header plus two events")
	assert.Contains(t, lines[0], "Title")
	assert.Contains(t, string(data), "Symphony Under the Stars")
	assert.Contains(t, string(data), "Nelum Pokuna")

	data, filename, err = svc.ExportCSV(ctx, "bookings")
	require.NoError(t, err)
	assert.Equal(t, "bookings_report.csv", filename)
	assert.Contains(t, string(data), "9000.00")

	_, _, err = svc.ExportCSV(ctx, "invoices")
	assert.Error(t, err)
}
