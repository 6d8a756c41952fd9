package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Event struct {
	bun.BaseModel `bun:"table:events"`

	ID          string      `bun:"id,pk" json:"id"`
	OrganizerID string      `bun:"organizer_id,notnull" json:"organizer_id"`
	VenueID     string      `bun:"venue_id,notnull" json:"venue_id"`
	Title       string      `bun:"title,notnull" json:"title"`
	Description string      `bun:"description,nullzero" json:"description,omitempty"`
	Category    string      `bun:"category,nullzero" json:"category,omitempty"`
	StartDate   time.Time   `bun:"start_date,notnull" json:"start_date"`
	EndDate     *time.Time  `bun:"end_date,nullzero" json:"end_date,omitempty"`
	TicketPrice float64     `bun:"ticket_price,notnull" json:"ticket_price"`
	// AvailableTickets is nullable: events without a tracked counter skip
	// inventory checks and decrements entirely.
	AvailableTickets *int        `bun:"available_tickets,nullzero" json:"available_tickets,omitempty"`
	ImageURL         string      `bun:"image_url,nullzero" json:"image_url,omitempty"`
	Status           EventStatus `bun:"status,notnull" json:"status"`
	IsActive         bool        `bun:"is_active,notnull,default:true" json:"is_active"`
	CreatedAt        time.Time   `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt        time.Time   `bun:"updated_at,nullzero" json:"updated_at,omitempty"`

	Venue *Venue `bun:"rel:belongs-to,join:venue_id=id" json:"venue,omitempty"`
}

// Bookable reports whether the event can accept new bookings.
func (e *Event) Bookable() bool {
	return e.IsActive && e.Status == EventPublished
}

// TracksInventory reports whether the available-ticket counter is maintained.
func (e *Event) TracksInventory() bool {
	return e.AvailableTickets != nil
}
