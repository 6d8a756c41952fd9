package booking

import (
	"math"
	"strings"
	"time"

	"starevents/internal/models"
	"starevents/internal/payment"
	"starevents/internal/settings"
)

// PromoCode is the single accepted promo literal; matching is
// case-insensitive and applies a flat 10% discount.
const (
	PromoCode    = "STAREVENTS"
	discountRate = 0.10
)

// Quote is the staged checkout context: the priced result of phase one,
// held server-side between the booking request and payment confirmation.
type Quote struct {
	EventID        string    `json:"event_id"`
	EventTitle     string    `json:"event_title"`
	EventDate      time.Time `json:"event_date"`
	VenueName      string    `json:"venue_name"`
	CustomerID     string    `json:"customer_id"`
	TicketQuantity int       `json:"ticket_quantity"`
	UnitPrice      float64   `json:"unit_price"`
	DiscountAmount float64   `json:"discount_amount"`
	TotalAmount    float64   `json:"total_amount"`
	Currency       string    `json:"currency"`
	PointsToEarn   int       `json:"points_to_earn"`
	PromoApplied   bool      `json:"promo_applied"`
	QuotedAt       time.Time `json:"quoted_at"`

	// Receipt is set when the charge succeeded but the durable write
	// failed. A retried confirm reuses it instead of charging again.
	Receipt *payment.Receipt `json:"receipt,omitempty"`
}

// Price validates a booking request against the event and computes the
// quote. It is deterministic and performs no I/O.
func Price(event *models.Event, quantity int, promoCode string, policy settings.Policy) (*Quote, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if event == nil {
		return nil, ErrEventNotFound
	}
	if !event.Bookable() {
		return nil, ErrEventNotBookable
	}
	// Inventory is checked before the per-booking limit so an oversold
	// request reports the remaining count rather than the policy cap.
	if event.TracksInventory() && *event.AvailableTickets < quantity {
		return nil, &InsufficientInventoryError{Remaining: *event.AvailableTickets}
	}
	if policy.MaxTicketsPerBooking > 0 && quantity > policy.MaxTicketsPerBooking {
		return nil, ErrQuantityLimit
	}

	unitPrice := event.TicketPrice
	subtotal := unitPrice * float64(quantity)

	var discount float64
	promoApplied := false
	if strings.EqualFold(strings.TrimSpace(promoCode), PromoCode) {
		discount = subtotal * discountRate
		promoApplied = true
	}

	total := subtotal - discount

	points := 0
	if policy.LoyaltyEnabled {
		points = int(math.Floor(total/100)) * policy.PointsPer100
	}

	venueName := "TBC"
	if event.Venue != nil {
		venueName = event.Venue.Name
	}

	return &Quote{
		EventID:        event.ID,
		EventTitle:     event.Title,
		EventDate:      event.StartDate,
		VenueName:      venueName,
		TicketQuantity: quantity,
		UnitPrice:      unitPrice,
		DiscountAmount: discount,
		TotalAmount:    total,
		Currency:       policy.Currency,
		PointsToEarn:   points,
		PromoApplied:   promoApplied,
		QuotedAt:       time.Now().UTC(),
	}, nil
}
