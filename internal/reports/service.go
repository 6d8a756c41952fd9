package reports

import (
	"context"
	"time"

	"starevents/internal/models"

	"github.com/uptrace/bun"
)

// Service aggregates revenue and booking figures for the admin report
// endpoints. Only Confirmed and Completed bookings count toward revenue.
type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db: db}
}

type MonthlyRevenue struct {
	Year        int     `bun:"year" json:"year"`
	Month       int     `bun:"month" json:"month"`
	Revenue     float64 `bun:"revenue" json:"revenue"`
	TicketsSold int     `bun:"tickets_sold" json:"tickets_sold"`
}

type TopEventStats struct {
	EventID     string  `bun:"event_id" json:"event_id"`
	EventTitle  string  `bun:"event_title" json:"event_title"`
	TicketsSold int     `bun:"tickets_sold" json:"tickets_sold"`
	Revenue     float64 `bun:"revenue" json:"revenue"`
}

type CategoryStats struct {
	Category string `bun:"category" json:"category"`
	Count    int    `bun:"count" json:"count"`
}

type Summary struct {
	TotalRevenue     float64          `json:"total_revenue"`
	TotalTicketsSold int              `json:"total_tickets_sold"`
	EventsByCategory []CategoryStats  `json:"events_by_category"`
	RevenueByMonth   []MonthlyRevenue `json:"revenue_by_month"`
	TopEvents        []TopEventStats  `json:"top_events"`
}

const revenueStatuses = "('Confirmed', 'Completed')"

func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	summary := &Summary{}

	err := s.db.NewRaw(`
		SELECT COALESCE(SUM(total_amount), 0.0), COALESCE(SUM(ticket_quantity), 0)
		FROM bookings
		WHERE status IN ` + revenueStatuses).
		Scan(ctx, &summary.TotalRevenue, &summary.TotalTicketsSold)
	if err != nil {
		return nil, err
	}

	err = s.db.NewSelect().
		Model((*models.Event)(nil)).
		ColumnExpr("COALESCE(category, 'Uncategorized') AS category").
		ColumnExpr("COUNT(*) AS count").
		GroupExpr("COALESCE(category, 'Uncategorized')").
		Scan(ctx, &summary.EventsByCategory)
	if err != nil {
		return nil, err
	}

	monthly, err := s.revenueByMonth(ctx)
	if err != nil {
		return nil, err
	}
	summary.RevenueByMonth = monthly

	err = s.db.NewRaw(`
		SELECT
			e.id AS event_id,
			e.title AS event_title,
			COALESCE(SUM(b.ticket_quantity), 0) AS tickets_sold,
			COALESCE(SUM(b.total_amount), 0.0) AS revenue
		FROM events e
		LEFT JOIN bookings b ON b.event_id = e.id AND b.status IN ` + revenueStatuses + `
		GROUP BY e.id, e.title
		ORDER BY revenue DESC
		LIMIT 10
	`).Scan(ctx, &summary.TopEvents)
	if err != nil {
		return nil, err
	}

	return summary, nil
}

// revenueByMonth buckets the last 12 months of revenue. Grouping happens
// in Go so the query stays portable between Postgres and the SQLite used
// in tests.
func (s *Service) revenueByMonth(ctx context.Context) ([]MonthlyRevenue, error) {
	since := time.Now().UTC().AddDate(-1, 0, 0)

	var rows []struct {
		BookingDate    time.Time `bun:"booking_date"`
		TotalAmount    float64   `bun:"total_amount"`
		TicketQuantity int       `bun:"ticket_quantity"`
	}
	err := s.db.NewSelect().
		Model((*models.Booking)(nil)).
		Column("booking_date", "total_amount", "ticket_quantity").
		Where("booking_date >= ?", since).
		Where("status IN (?)", bun.In([]string{string(models.BookingConfirmed), string(models.BookingCompleted)})).
		Order("booking_date ASC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, err
	}

	type yearMonth struct {
		year  int
		month int
	}
	buckets := make(map[yearMonth]*MonthlyRevenue)
	var order []yearMonth
	for _, row := range rows {
		key := yearMonth{row.BookingDate.Year(), int(row.BookingDate.Month())}
		bucket, ok := buckets[key]
		if !ok {
			bucket = &MonthlyRevenue{Year: key.year, Month: key.month}
			buckets[key] = bucket
			order = append(order, key)
		}
		bucket.Revenue += row.TotalAmount
		bucket.TicketsSold += row.TicketQuantity
	}

	monthly := make([]MonthlyRevenue, 0, len(order))
	for _, key := range order {
		monthly = append(monthly, *buckets[key])
	}
	return monthly, nil
}

// OrganizerSummary restricts the revenue figures to one organizer's events.
func (s *Service) OrganizerSummary(ctx context.Context, organizerID string) (*Summary, error) {
	summary := &Summary{}
	err := s.db.NewRaw(`
		SELECT COALESCE(SUM(b.total_amount), 0.0), COALESCE(SUM(b.ticket_quantity), 0)
		FROM bookings b
		JOIN events e ON e.id = b.event_id
		WHERE e.organizer_id = ? AND b.status IN `+revenueStatuses,
		organizerID).
		Scan(ctx, &summary.TotalRevenue, &summary.TotalTicketsSold)
	if err != nil {
		return nil, err
	}
	return summary, nil
}
