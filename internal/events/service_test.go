package events

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"starevents/internal/logger"
	"starevents/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func setupService(t *testing.T) (*Service, *DB) {
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

	store := &DB{Bun: bunDB}
	return NewService(store, &logger.Logger{}), store
}

func seedVenue(t *testing.T, store *DB, id string) {
	t.Helper()
	venue := &models.Venue{ID: id, Name: "Nelum Pokuna", City: "Colombo"}
	_, err := store.Bun.NewInsert().Model(venue).Exec(context.Background())
	require.NoError(t, err)
}

func draftEvent(venueID string) *models.Event {
	return &models.Event{
		OrganizerID: "org-1",
		VenueID:     venueID,
		Title:       "Symphony Under the Stars",
		Category:    "Concert",
		StartDate:   time.Now().Add(30 * 24 * time.Hour),
		TicketPrice: 2500,
	}
}

func TestCreateEvent(t *testing.T) {
	svc, store := setupService(t)
	seedVenue(t, store, "ven-1")
	ctx := context.Background()

	event := draftEvent("ven-1")
	require.NoError(t, svc.CreateEvent(ctx, event))

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, models.EventDraft, event.Status)
	assert.True(t, event.IsActive)

	stored, err := svc.GetEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, "Symphony Under the Stars", stored.Title)
}

func TestCreateEventValidation(t *testing.T) {
	svc, store := setupService(t)
	seedVenue(t, store, "ven-1")
	ctx := context.Background()

	missing := draftEvent("ven-1")
	missing.Title = ""
	assert.ErrorIs(t, svc.CreateEvent(ctx, missing), ErrInvalidEvent)

	negative := draftEvent("ven-1")
	negative.TicketPrice = -5
	assert.ErrorIs(t, svc.CreateEvent(ctx, negative), ErrInvalidEvent)

	noVenue := draftEvent("ven-missing")
	assert.ErrorIs(t, svc.CreateEvent(ctx, noVenue), ErrVenueNotFound)
}

func TestUpdateEventPreservesStatus(t *testing.T) {
	svc, store := setupService(t)
	seedVenue(t, store, "ven-1")
	ctx := context.Background()

	event := draftEvent("ven-1")
	require.NoError(t, svc.CreateEvent(ctx, event))
	_, err := svc.TransitionEvent(ctx, event.ID, models.EventPublished)
	require.NoError(t, err)

	// An edit that claims Draft must not roll the status back.
	edit := *event
	edit.Title = "Symphony Under the Stars (Rescheduled)"
	edit.Status = models.EventDraft
	require.NoError(t, svc.UpdateEvent(ctx, &edit))

	stored, err := svc.GetEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EventPublished, stored.Status)
	assert.Equal(t, "Symphony Under the Stars (Rescheduled)", stored.Title)
}

func TestTransitionEvent(t *testing.T) {
	svc, store := setupService(t)
	seedVenue(t, store, "ven-1")
	ctx := context.Background()

	event := draftEvent("ven-1")
	require.NoError(t, svc.CreateEvent(ctx, event))

	published, err := svc.TransitionEvent(ctx, event.ID, models.EventPublished)
	require.NoError(t, err)
	assert.Equal(t, models.EventPublished, published.Status)
	assert.True(t, published.IsActive)

	// Draft -> Completed skips Published and is illegal.
	other := draftEvent("ven-1")
	require.NoError(t, svc.CreateEvent(ctx, other))
	_, err = svc.TransitionEvent(ctx, other.ID, models.EventCompleted)
	assert.ErrorIs(t, err, models.ErrInvalidTransition)

	cancelled, err := svc.TransitionEvent(ctx, event.ID, models.EventCancelled)
	require.NoError(t, err)
	assert.Equal(t, models.EventCancelled, cancelled.Status)
	assert.False(t, cancelled.IsActive)
}

func TestDeleteEventGuardedByBookings(t *testing.T) {
	svc, store := setupService(t)
	seedVenue(t, store, "ven-1")
	ctx := context.Background()

	event := draftEvent("ven-1")
	require.NoError(t, svc.CreateEvent(ctx, event))

	bkg := &models.Booking{
		ID: "bkg-1", CustomerID: "cust-1", EventID: event.ID,
		TicketQuantity: 2, UnitPrice: 2500, TotalAmount: 5000,
		Status: models.BookingConfirmed, BookingDate: time.Now(),
	}
	_, err := store.Bun.NewInsert().Model(bkg).Exec(ctx)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteEvent(ctx, event.ID), ErrEventHasBookings)

	_, err = store.Bun.NewDelete().Model(bkg).Where("id = ?", bkg.ID).Exec(ctx)
	require.NoError(t, err)
	require.NoError(t, svc.DeleteEvent(ctx, event.ID))

	_, err = svc.GetEvent(ctx, event.ID)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestDeleteVenueGuardedByEvents(t *testing.T) {
	svc, store := setupService(t)
	seedVenue(t, store, "ven-1")
	ctx := context.Background()

	event := draftEvent("ven-1")
	require.NoError(t, svc.CreateEvent(ctx, event))

	assert.ErrorIs(t, svc.DeleteVenue(ctx, "ven-1"), ErrVenueHasEvents)

	require.NoError(t, svc.DeleteEvent(ctx, event.ID))
	require.NoError(t, svc.DeleteVenue(ctx, "ven-1"))
}

func TestDeleteUserGuardedByDependents(t *testing.T) {
	svc, store := setupService(t)
	seedVenue(t, store, "ven-1")
	ctx := context.Background()

	user := &models.User{ID: "org-1", Email: "org@example.lk", Role: models.RoleOrganizer}
	_, err := store.Bun.NewInsert().Model(user).Exec(ctx)
	require.NoError(t, err)

	event := draftEvent("ven-1")
	require.NoError(t, svc.CreateEvent(ctx, event))

	assert.ErrorIs(t, svc.DeleteUser(ctx, "org-1"), ErrUserHasDependents)

	require.NoError(t, svc.DeleteEvent(ctx, event.ID))
	require.NoError(t, svc.DeleteUser(ctx, "org-1"))

	_, err = svc.GetProfile(ctx, "org-1")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestListEventsFilters(t *testing.T) {
	svc, store := setupService(t)
	seedVenue(t, store, "ven-1")
	ctx := context.Background()

	concert := draftEvent("ven-1")
	require.NoError(t, svc.CreateEvent(ctx, concert))
	_, err := svc.TransitionEvent(ctx, concert.ID, models.EventPublished)
	require.NoError(t, err)

	theatre := draftEvent("ven-1")
	theatre.Title = "Maname"
	theatre.Category = "Theatre"
	require.NoError(t, svc.CreateEvent(ctx, theatre))

	// Drafts are hidden from the public listing.
	visible, err := svc.ListEvents(ctx, ListFilter{OnlyActive: true})
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, concert.ID, visible[0].ID)

	all, err := svc.ListEvents(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byCategory, err := svc.ListEvents(ctx, ListFilter{Category: "Theatre"})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, "Maname", byCategory[0].Title)

	byKeyword, err := svc.ListEvents(ctx, ListFilter{Keyword: "Symphony"})
	require.NoError(t, err)
	require.Len(t, byKeyword, 1)
	assert.Equal(t, concert.ID, byKeyword[0].ID)
}

func TestUpdateProfile(t *testing.T) {
	svc, store := setupService(t)
	ctx := context.Background()

	user := &models.User{ID: "cust-1", Email: "amara@example.lk", FirstName: "Amara"}
	_, err := store.Bun.NewInsert().Model(user).Exec(ctx)
	require.NoError(t, err)

	update := &models.User{ID: "cust-1", FirstName: "Amara", LastName: "Perera", Phone: "0771234567"}
	require.NoError(t, svc.UpdateProfile(ctx, update))

	stored, err := svc.GetProfile(ctx, "cust-1")
	require.NoError(t, err)
	assert.Equal(t, "Amara Perera", stored.FullName())
	assert.Equal(t, "0771234567", stored.Phone)
	// Email is not editable through the profile.
	assert.Equal(t, "amara@example.lk", stored.Email)
}
