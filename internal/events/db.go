package events

import (
	"context"

	"starevents/internal/models"

	"github.com/uptrace/bun"
)

type DB struct {
	Bun *bun.DB
}

// ---------------- EVENTS ----------------

func (d *DB) GetEventByID(ctx context.Context, id string) (*models.Event, error) {
	var event models.Event
	err := d.Bun.NewSelect().
		Model(&event).
		Relation("Venue").
		Where("event.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// ListFilter narrows the event listing. Zero values mean no filtering.
type ListFilter struct {
	Category    string
	Keyword     string
	OrganizerID string
	OnlyActive  bool
}

func (d *DB) ListEvents(ctx context.Context, filter ListFilter) ([]models.Event, error) {
	var list []models.Event
	q := d.Bun.NewSelect().
		Model(&list).
		Relation("Venue").
		Order("start_date ASC")

	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Keyword != "" {
		q = q.Where("title LIKE ?", "%"+filter.Keyword+"%")
	}
	if filter.OrganizerID != "" {
		q = q.Where("organizer_id = ?", filter.OrganizerID)
	}
	if filter.OnlyActive {
		q = q.Where("is_active = ?", true).Where("event.status = ?", models.EventPublished)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	return list, nil
}

func (d *DB) CreateEvent(ctx context.Context, event *models.Event) error {
	_, err := d.Bun.NewInsert().Model(event).Exec(ctx)
	return err
}

func (d *DB) UpdateEvent(ctx context.Context, event *models.Event) error {
	_, err := d.Bun.NewUpdate().
		Model(event).
		Column("venue_id", "title", "description", "category", "start_date", "end_date",
			"ticket_price", "available_tickets", "image_url", "status", "is_active", "updated_at").
		Where("id = ?", event.ID).
		Exec(ctx)
	return err
}

func (d *DB) DeleteEvent(ctx context.Context, id string) error {
	_, err := d.Bun.NewDelete().
		Model((*models.Event)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

func (d *DB) CountBookingsForEvent(ctx context.Context, eventID string) (int, error) {
	return d.Bun.NewSelect().
		Model((*models.Booking)(nil)).
		Where("event_id = ?", eventID).
		Count(ctx)
}

// ---------------- VENUES ----------------

func (d *DB) GetVenueByID(ctx context.Context, id string) (*models.Venue, error) {
	var venue models.Venue
	err := d.Bun.NewSelect().
		Model(&venue).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &venue, nil
}

func (d *DB) ListVenues(ctx context.Context) ([]models.Venue, error) {
	var venues []models.Venue
	err := d.Bun.NewSelect().
		Model(&venues).
		Order("name ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return venues, nil
}

func (d *DB) CreateVenue(ctx context.Context, venue *models.Venue) error {
	_, err := d.Bun.NewInsert().Model(venue).Exec(ctx)
	return err
}

func (d *DB) UpdateVenue(ctx context.Context, venue *models.Venue) error {
	_, err := d.Bun.NewUpdate().
		Model(venue).
		Column("name", "city", "address", "capacity").
		Where("id = ?", venue.ID).
		Exec(ctx)
	return err
}

func (d *DB) DeleteVenue(ctx context.Context, id string) error {
	_, err := d.Bun.NewDelete().
		Model((*models.Venue)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

func (d *DB) CountEventsForVenue(ctx context.Context, venueID string) (int, error) {
	return d.Bun.NewSelect().
		Model((*models.Event)(nil)).
		Where("venue_id = ?", venueID).
		Count(ctx)
}

// ---------------- USERS ----------------

func (d *DB) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := d.Bun.NewSelect().
		Model(&user).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *DB) UpdateUserProfile(ctx context.Context, user *models.User) error {
	_, err := d.Bun.NewUpdate().
		Model(user).
		Column("first_name", "last_name", "phone", "updated_at").
		Where("id = ?", user.ID).
		Exec(ctx)
	return err
}

func (d *DB) DeleteUser(ctx context.Context, id string) error {
	_, err := d.Bun.NewDelete().
		Model((*models.User)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

func (d *DB) CountDependentsForUser(ctx context.Context, userID string) (int, error) {
	bookings, err := d.Bun.NewSelect().
		Model((*models.Booking)(nil)).
		Where("customer_id = ?", userID).
		Count(ctx)
	if err != nil {
		return 0, err
	}
	events, err := d.Bun.NewSelect().
		Model((*models.Event)(nil)).
		Where("organizer_id = ?", userID).
		Count(ctx)
	if err != nil {
		return 0, err
	}
	return bookings + events, nil
}
