package events

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"starevents/internal/logger"
	"starevents/internal/models"

	"github.com/google/uuid"
)

var (
	ErrEventNotFound  = errors.New("event not found")
	ErrVenueNotFound  = errors.New("venue not found")
	ErrUserNotFound   = errors.New("user not found")
	ErrEventHasBookings = errors.New("event has bookings and cannot be deleted")
	ErrVenueHasEvents   = errors.New("venue has events and cannot be deleted")
	ErrUserHasDependents = errors.New("user owns bookings or events and cannot be deleted")
	ErrInvalidEvent      = errors.New("invalid event")
)

type Store interface {
	GetEventByID(ctx context.Context, id string) (*models.Event, error)
	ListEvents(ctx context.Context, filter ListFilter) ([]models.Event, error)
	CreateEvent(ctx context.Context, event *models.Event) error
	UpdateEvent(ctx context.Context, event *models.Event) error
	DeleteEvent(ctx context.Context, id string) error
	CountBookingsForEvent(ctx context.Context, eventID string) (int, error)

	GetVenueByID(ctx context.Context, id string) (*models.Venue, error)
	ListVenues(ctx context.Context) ([]models.Venue, error)
	CreateVenue(ctx context.Context, venue *models.Venue) error
	UpdateVenue(ctx context.Context, venue *models.Venue) error
	DeleteVenue(ctx context.Context, id string) error
	CountEventsForVenue(ctx context.Context, venueID string) (int, error)

	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdateUserProfile(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id string) error
	CountDependentsForUser(ctx context.Context, userID string) (int, error)
}

type Service struct {
	DB     Store
	logger *logger.Logger
}

func NewService(db Store, log *logger.Logger) *Service {
	return &Service{DB: db, logger: log}
}

// ---------------- EVENTS ----------------

func (s *Service) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	event, err := s.DB.GetEventByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("load event %s: %w", id, err)
	}
	return event, nil
}

func (s *Service) ListEvents(ctx context.Context, filter ListFilter) ([]models.Event, error) {
	return s.DB.ListEvents(ctx, filter)
}

func (s *Service) CreateEvent(ctx context.Context, event *models.Event) error {
	if event.Title == "" || event.StartDate.IsZero() {
		return fmt.Errorf("%w: title and start date are required", ErrInvalidEvent)
	}
	if event.TicketPrice < 0 {
		return fmt.Errorf("%w: ticket price cannot be negative", ErrInvalidEvent)
	}
	if _, err := s.DB.GetVenueByID(ctx, event.VenueID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrVenueNotFound
		}
		return fmt.Errorf("load venue %s: %w", event.VenueID, err)
	}

	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	event.Status = models.EventDraft
	event.IsActive = true
	event.CreatedAt = time.Now().UTC()

	if err := s.DB.CreateEvent(ctx, event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	s.logger.Info("EVENT", fmt.Sprintf("created event %s (%s)", event.ID, event.Title))
	return nil
}

func (s *Service) UpdateEvent(ctx context.Context, event *models.Event) error {
	current, err := s.GetEvent(ctx, event.ID)
	if err != nil {
		return err
	}
	// Status changes go through TransitionEvent, not edits.
	event.Status = current.Status
	event.UpdatedAt = time.Now().UTC()

	if err := s.DB.UpdateEvent(ctx, event); err != nil {
		return fmt.Errorf("update event %s: %w", event.ID, err)
	}
	return nil
}

// TransitionEvent applies a status change through the central transition
// table; illegal transitions are rejected.
func (s *Service) TransitionEvent(ctx context.Context, id string, next models.EventStatus) (*models.Event, error) {
	event, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := event.Status.ValidateTransition(next); err != nil {
		return nil, err
	}

	event.Status = next
	if next == models.EventCancelled || next == models.EventCompleted {
		event.IsActive = false
	}
	event.UpdatedAt = time.Now().UTC()

	if err := s.DB.UpdateEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("transition event %s: %w", id, err)
	}
	s.logger.Info("EVENT", fmt.Sprintf("event %s -> %s", id, next))
	return event, nil
}

func (s *Service) DeleteEvent(ctx context.Context, id string) error {
	if _, err := s.GetEvent(ctx, id); err != nil {
		return err
	}
	count, err := s.DB.CountBookingsForEvent(ctx, id)
	if err != nil {
		return fmt.Errorf("count bookings for event %s: %w", id, err)
	}
	if count > 0 {
		return ErrEventHasBookings
	}
	return s.DB.DeleteEvent(ctx, id)
}

// ---------------- VENUES ----------------

func (s *Service) ListVenues(ctx context.Context) ([]models.Venue, error) {
	return s.DB.ListVenues(ctx)
}

func (s *Service) CreateVenue(ctx context.Context, venue *models.Venue) error {
	if venue.Name == "" || venue.City == "" {
		return errors.New("venue name and city are required")
	}
	if venue.ID == "" {
		venue.ID = uuid.NewString()
	}
	venue.CreatedAt = time.Now().UTC()
	return s.DB.CreateVenue(ctx, venue)
}

func (s *Service) UpdateVenue(ctx context.Context, venue *models.Venue) error {
	if _, err := s.DB.GetVenueByID(ctx, venue.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrVenueNotFound
		}
		return fmt.Errorf("load venue %s: %w", venue.ID, err)
	}
	return s.DB.UpdateVenue(ctx, venue)
}

func (s *Service) DeleteVenue(ctx context.Context, id string) error {
	count, err := s.DB.CountEventsForVenue(ctx, id)
	if err != nil {
		return fmt.Errorf("count events for venue %s: %w", id, err)
	}
	if count > 0 {
		return ErrVenueHasEvents
	}
	return s.DB.DeleteVenue(ctx, id)
}

// ---------------- USERS ----------------

func (s *Service) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.DB.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user %s: %w", userID, err)
	}
	return user, nil
}

func (s *Service) UpdateProfile(ctx context.Context, user *models.User) error {
	if _, err := s.GetProfile(ctx, user.ID); err != nil {
		return err
	}
	user.UpdatedAt = time.Now().UTC()
	return s.DB.UpdateUserProfile(ctx, user)
}

func (s *Service) DeleteUser(ctx context.Context, userID string) error {
	if _, err := s.GetProfile(ctx, userID); err != nil {
		return err
	}
	count, err := s.DB.CountDependentsForUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("count dependents for user %s: %w", userID, err)
	}
	if count > 0 {
		return ErrUserHasDependents
	}
	return s.DB.DeleteUser(ctx, userID)
}
