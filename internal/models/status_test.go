package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to BookingStatus
		allowed  bool
	}{
		{BookingPending, BookingConfirmed, true},
		{BookingPending, BookingCancelled, true},
		{BookingConfirmed, BookingCompleted, true},
		{BookingConfirmed, BookingCancelled, true},
		{BookingCancelled, BookingConfirmed, false},
		{BookingCompleted, BookingCancelled, false},
		{BookingPending, BookingCompleted, false},
	}

	for _, tc := range cases {
		got := tc.from.CanTransition(tc.to)
		assert.Equal(t, tc.allowed, got, "%s -> %s", tc.from, tc.to)

		err := tc.from.ValidateTransition(tc.to)
		if tc.allowed {
			assert.NoError(t, err)
		} else {
			assert.ErrorIs(t, err, ErrInvalidTransition)
		}
	}
}

func TestEventStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to EventStatus
		allowed  bool
	}{
		{EventDraft, EventPublished, true},
		{EventDraft, EventCancelled, true},
		{EventPublished, EventCancelled, true},
		{EventPublished, EventCompleted, true},
		{EventDraft, EventCompleted, false},
		{EventCancelled, EventPublished, false},
		{EventCompleted, EventPublished, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransition(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestEventBookable(t *testing.T) {
	event := &Event{Status: EventPublished, IsActive: true}
	assert.True(t, event.Bookable())

	event.Status = EventDraft
	assert.False(t, event.Bookable())

	event.Status = EventPublished
	event.IsActive = false
	assert.False(t, event.Bookable())
}

func TestEventTracksInventory(t *testing.T) {
	event := &Event{}
	assert.False(t, event.TracksInventory())

	n := 100
	event.AvailableTickets = &n
	assert.True(t, event.TracksInventory())
}
