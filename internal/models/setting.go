package models

import (
	"time"

	"github.com/uptrace/bun"
)

// SystemSetting is the single global configuration row. It is loaded once
// per request into a settings.Policy value; nothing reads it ad hoc.
type SystemSetting struct {
	bun.BaseModel `bun:"table:system_settings"`

	ID           int    `bun:"id,pk" json:"id"`
	SystemName   string `bun:"system_name,notnull" json:"system_name"`
	ContactEmail string `bun:"contact_email,nullzero" json:"contact_email,omitempty"`
	Currency     string `bun:"currency,notnull" json:"currency"`

	MaxTicketsPerBooking     int  `bun:"max_tickets_per_booking,notnull" json:"max_tickets_per_booking"`
	BookingCancellationHours int  `bun:"booking_cancellation_hours,notnull" json:"booking_cancellation_hours"`
	EnableQRCodeTickets      bool `bun:"enable_qr_code_tickets,notnull" json:"enable_qr_code_tickets"`

	EnableLoyaltyProgram bool `bun:"enable_loyalty_program,notnull" json:"enable_loyalty_program"`
	PointsPer100         int  `bun:"points_per_100,notnull" json:"points_per_100"`

	EmailOnBookingConfirmation bool `bun:"email_on_booking_confirmation,notnull" json:"email_on_booking_confirmation"`

	UpdatedAt time.Time `bun:"updated_at,nullzero" json:"updated_at,omitempty"`
}
