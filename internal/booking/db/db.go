package db

import (
	"context"
	"database/sql"
	"fmt"

	"starevents/internal/booking"
	"starevents/internal/models"

	"github.com/uptrace/bun"
)

type DB struct {
	Bun *bun.DB
}

// GetEventForBooking fetches an event with its venue for pricing.
func (d *DB) GetEventForBooking(ctx context.Context, id string) (*models.Event, error) {
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

func (d *DB) GetBookingByID(ctx context.Context, id string) (*models.Booking, error) {
	var bkg models.Booking
	err := d.Bun.NewSelect().
		Model(&bkg).
		Relation("Event").
		Relation("Event.Venue").
		Relation("Payment").
		Where("booking.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &bkg, nil
}

func (d *DB) GetBookingsByCustomer(ctx context.Context, customerID string) ([]models.Booking, error) {
	var bookings []models.Booking
	err := d.Bun.NewSelect().
		Model(&bookings).
		Relation("Event").
		Where("customer_id = ?", customerID).
		Order("booking_date DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

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

// ConfirmCheckout performs the durable write of phase two: payment insert,
// booking insert, conditional inventory decrement and loyalty accrual, all
// in one transaction. On any failure the whole write is rolled back.
func (d *DB) ConfirmCheckout(ctx context.Context, payment *models.Payment, bkg *models.Booking) error {
	return d.Bun.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(payment).Exec(ctx); err != nil {
			return fmt.Errorf("insert payment: %w", err)
		}

		if _, err := tx.NewInsert().Model(bkg).Exec(ctx); err != nil {
			return fmt.Errorf("insert booking: %w", err)
		}

		// Conditional decrement: the WHERE clause closes the window between
		// the phase-one availability check and this commit. Events without a
		// tracked counter (NULL) skip the decrement.
		res, err := tx.NewUpdate().
			Model((*models.Event)(nil)).
			Set("available_tickets = available_tickets - ?", bkg.TicketQuantity).
			Where("id = ?", bkg.EventID).
			Where("available_tickets IS NOT NULL").
			Where("available_tickets >= ?", bkg.TicketQuantity).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("decrement inventory: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("decrement inventory: %w", err)
		}
		if affected == 0 {
			var remaining sql.NullInt64
			err := tx.NewSelect().
				Model((*models.Event)(nil)).
				Column("available_tickets").
				Where("id = ?", bkg.EventID).
				Limit(1).
				Scan(ctx, &remaining)
			if err != nil {
				return fmt.Errorf("recheck inventory: %w", err)
			}
			if remaining.Valid {
				return &booking.InsufficientInventoryError{Remaining: int(remaining.Int64)}
			}
			// Counter not tracked, nothing to decrement.
		}

		if bkg.PointsEarned > 0 {
			if _, err := tx.NewUpdate().
				Model((*models.User)(nil)).
				Set("loyalty_points = loyalty_points + ?", bkg.PointsEarned).
				Where("id = ?", bkg.CustomerID).
				Exec(ctx); err != nil {
				return fmt.Errorf("accrue loyalty points: %w", err)
			}
		}

		return nil
	})
}

// CancelBooking marks the booking cancelled and restores its tickets to the
// event counter in the same transaction.
func (d *DB) CancelBooking(ctx context.Context, bkg *models.Booking) error {
	return d.Bun.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewUpdate().
			Model(bkg).
			Column("status", "cancelled_at", "cancel_reason").
			Where("id = ?", bkg.ID).
			Exec(ctx); err != nil {
			return fmt.Errorf("cancel booking: %w", err)
		}

		if _, err := tx.NewUpdate().
			Model((*models.Event)(nil)).
			Set("available_tickets = available_tickets + ?", bkg.TicketQuantity).
			Where("id = ?", bkg.EventID).
			Where("available_tickets IS NOT NULL").
			Exec(ctx); err != nil {
			return fmt.Errorf("restore inventory: %w", err)
		}

		return nil
	})
}
