package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"starevents/internal/models"

	"github.com/uptrace/bun"
)

// Policy is the immutable, per-request view of the system_settings row.
// The checkout path takes a Policy value instead of querying settings ad hoc.
type Policy struct {
	Currency                 string
	MaxTicketsPerBooking     int
	BookingCancellationHours int
	QRTicketsEnabled         bool
	LoyaltyEnabled           bool
	PointsPer100             int
}

// DefaultPolicy matches the seeded settings row and is used when the row
// is missing.
func DefaultPolicy() Policy {
	return Policy{
		Currency:                 "LKR",
		MaxTicketsPerBooking:     10,
		BookingCancellationHours: 24,
		QRTicketsEnabled:         true,
		LoyaltyEnabled:           true,
		PointsPer100:             1,
	}
}

type Store struct {
	Bun *bun.DB
}

// Load reads the singleton settings row and freezes it into a Policy.
func (s *Store) Load(ctx context.Context) (Policy, error) {
	var row models.SystemSetting
	err := s.Bun.NewSelect().
		Model(&row).
		Order("id ASC").
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return DefaultPolicy(), nil
	}
	if err != nil {
		return Policy{}, fmt.Errorf("load system settings: %w", err)
	}
	return Policy{
		Currency:                 row.Currency,
		MaxTicketsPerBooking:     row.MaxTicketsPerBooking,
		BookingCancellationHours: row.BookingCancellationHours,
		QRTicketsEnabled:         row.EnableQRCodeTickets,
		LoyaltyEnabled:           row.EnableLoyaltyProgram,
		PointsPer100:             row.PointsPer100,
	}, nil
}

// Get returns the raw settings row for the admin settings endpoint.
func (s *Store) Get(ctx context.Context) (*models.SystemSetting, error) {
	var row models.SystemSetting
	err := s.Bun.NewSelect().
		Model(&row).
		Order("id ASC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("get system settings: %w", err)
	}
	return &row, nil
}

// Update replaces the mutable fields of the settings row.
func (s *Store) Update(ctx context.Context, row *models.SystemSetting) error {
	if row.ID == 0 {
		row.ID = 1
	}
	row.UpdatedAt = time.Now().UTC()
	_, err := s.Bun.NewUpdate().
		Model(row).
		Column("system_name", "contact_email", "currency",
			"max_tickets_per_booking", "booking_cancellation_hours", "enable_qr_code_tickets",
			"enable_loyalty_program", "points_per_100", "email_on_booking_confirmation",
			"updated_at").
		Where("id = ?", row.ID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update system settings: %w", err)
	}
	return nil
}
