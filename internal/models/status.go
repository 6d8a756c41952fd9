package models

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is wrapped by every rejected status transition.
var ErrInvalidTransition = errors.New("invalid status transition")

// BookingStatus is the lifecycle state of a booking. Transitions are
// validated centrally instead of letting callers write arbitrary strings.
type BookingStatus string

const (
	BookingPending   BookingStatus = "Pending"
	BookingConfirmed BookingStatus = "Confirmed"
	BookingCancelled BookingStatus = "Cancelled"
	BookingCompleted BookingStatus = "Completed"
)

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed, BookingCancelled},
	BookingConfirmed: {BookingCompleted, BookingCancelled},
}

// CanTransition reports whether moving from s to next is a legal transition.
func (s BookingStatus) CanTransition(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ValidateTransition returns a descriptive error for illegal transitions.
func (s BookingStatus) ValidateTransition(next BookingStatus) error {
	if !s.CanTransition(next) {
		return fmt.Errorf("%w: booking %s -> %s", ErrInvalidTransition, s, next)
	}
	return nil
}

// EventStatus is the publication state of an event.
type EventStatus string

const (
	EventDraft     EventStatus = "Draft"
	EventPublished EventStatus = "Published"
	EventCancelled EventStatus = "Cancelled"
	EventCompleted EventStatus = "Completed"
)

var eventTransitions = map[EventStatus][]EventStatus{
	EventDraft:     {EventPublished, EventCancelled},
	EventPublished: {EventCancelled, EventCompleted},
}

func (s EventStatus) CanTransition(next EventStatus) bool {
	for _, allowed := range eventTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s EventStatus) ValidateTransition(next EventStatus) error {
	if !s.CanTransition(next) {
		return fmt.Errorf("%w: event %s -> %s", ErrInvalidTransition, s, next)
	}
	return nil
}

// PaymentStatus is the state of a recorded payment.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "Pending"
	PaymentCompleted PaymentStatus = "Completed"
	PaymentFailed    PaymentStatus = "Failed"
	PaymentRefunded  PaymentStatus = "Refunded"
)

// Role is the access level of a user account.
type Role string

const (
	RoleAdmin     Role = "Admin"
	RoleOrganizer Role = "Organizer"
	RoleCustomer  Role = "Customer"
)
