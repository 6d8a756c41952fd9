package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Booking struct {
	bun.BaseModel `bun:"table:bookings"`

	ID         string `bun:"id,pk" json:"id"`
	CustomerID string `bun:"customer_id,notnull" json:"customer_id"`
	EventID    string `bun:"event_id,notnull" json:"event_id"`
	// One payment per booking; nullable so a Pending booking can exist
	// before its payment is recorded.
	PaymentID      string        `bun:"payment_id,nullzero,unique" json:"payment_id,omitempty"`
	TicketQuantity int           `bun:"ticket_quantity,notnull" json:"ticket_quantity"`
	UnitPrice      float64       `bun:"unit_price,notnull" json:"unit_price"`
	DiscountAmount float64       `bun:"discount_amount,notnull,default:0" json:"discount_amount"`
	TotalAmount    float64       `bun:"total_amount,notnull" json:"total_amount"`
	PointsEarned   int           `bun:"points_earned,notnull,default:0" json:"points_earned"`
	Status         BookingStatus `bun:"status,notnull" json:"status"`
	BookingDate    time.Time     `bun:"booking_date,notnull,default:current_timestamp" json:"booking_date"`
	CancelledAt    *time.Time    `bun:"cancelled_at,nullzero" json:"cancelled_at,omitempty"`
	CancelReason   string        `bun:"cancel_reason,nullzero" json:"cancel_reason,omitempty"`

	Event   *Event   `bun:"rel:belongs-to,join:event_id=id" json:"event,omitempty"`
	Payment *Payment `bun:"rel:belongs-to,join:payment_id=id" json:"payment,omitempty"`
}
