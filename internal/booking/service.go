package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"starevents/internal/logger"
	"starevents/internal/models"
	"starevents/internal/payment"
	"starevents/internal/qr"
	"starevents/internal/settings"

	"github.com/google/uuid"
)

type DBLayer interface {
	GetEventForBooking(ctx context.Context, id string) (*models.Event, error)
	GetBookingByID(ctx context.Context, id string) (*models.Booking, error)
	GetBookingsByCustomer(ctx context.Context, customerID string) ([]models.Booking, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	ConfirmCheckout(ctx context.Context, pay *models.Payment, bkg *models.Booking) error
	CancelBooking(ctx context.Context, bkg *models.Booking) error
}

type StagingStore interface {
	Stage(ctx context.Context, customerID string, quote *Quote) error
	Take(ctx context.Context, customerID string) (*Quote, error)
	Peek(ctx context.Context, customerID string) (*Quote, error)
}

type PolicyLoader interface {
	Load(ctx context.Context) (settings.Policy, error)
}

type Publisher interface {
	PublishBookingConfirmed(bkg models.Booking) error
	PublishBookingCancelled(bkg models.Booking) error
}

type Notifier interface {
	BookingConfirmed(to string, bkg models.Booking, eventTitle string) error
	BookingCancelled(to string, bkg models.Booking, eventTitle string) error
}

type PaymentGateway interface {
	Charge(ctx context.Context, amount float64, currency, method, cardLastFour string) (*payment.Receipt, error)
}

type Service struct {
	DB       DBLayer
	Staging  StagingStore
	Policies PolicyLoader
	Gateway  PaymentGateway
	Kafka    Publisher
	Notify   Notifier
	logger   *logger.Logger
}

func NewService(db DBLayer, staging StagingStore, policies PolicyLoader, gateway PaymentGateway, kafka Publisher, notify Notifier, log *logger.Logger) *Service {
	return &Service{
		DB:       db,
		Staging:  staging,
		Policies: policies,
		Gateway:  gateway,
		Kafka:    kafka,
		Notify:   notify,
		logger:   log,
	}
}

type CheckoutRequest struct {
	EventID   string `json:"event_id"`
	Quantity  int    `json:"quantity"`
	PromoCode string `json:"promo_code,omitempty"`
}

// StartCheckout is phase one: price the request and stage the quote for
// this customer. Nothing durable is written.
func (s *Service) StartCheckout(ctx context.Context, customerID string, req CheckoutRequest) (*Quote, error) {
	event, err := s.DB.GetEventForBooking(ctx, req.EventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("load event %s: %w", req.EventID, err)
	}

	policy, err := s.Policies.Load(ctx)
	if err != nil {
		return nil, err
	}

	quote, err := Price(event, req.Quantity, req.PromoCode, policy)
	if err != nil {
		return nil, err
	}
	quote.CustomerID = customerID

	if err := s.Staging.Stage(ctx, customerID, quote); err != nil {
		return nil, fmt.Errorf("stage checkout: %w", err)
	}

	s.logger.LogBooking("QUOTE", quote.EventID,
		fmt.Sprintf("customer %s staged %d tickets, total %.2f", customerID, quote.TicketQuantity, quote.TotalAmount))
	return quote, nil
}

// StagedQuote returns the in-flight quote without consuming it.
func (s *Service) StagedQuote(ctx context.Context, customerID string) (*Quote, error) {
	quote, err := s.Staging.Peek(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("read staged checkout: %w", err)
	}
	if quote == nil {
		return nil, ErrSessionExpired
	}
	return quote, nil
}

// ConfirmPayment is phase two: consume the staged quote, collect the
// payment and perform the all-or-nothing durable write. On a storage
// failure the quote is re-staged so the customer can retry.
func (s *Service) ConfirmPayment(ctx context.Context, customerID, method, cardLastFour string) (*models.Booking, error) {
	quote, err := s.Staging.Take(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("read staged checkout: %w", err)
	}
	if quote == nil {
		return nil, ErrSessionExpired
	}

	// A quote re-staged after a storage failure already carries a paid
	// receipt; charging again would bill the customer twice.
	receipt := quote.Receipt
	if receipt == nil {
		receipt, err = s.Gateway.Charge(ctx, quote.TotalAmount, quote.Currency, method, cardLastFour)
		if err != nil {
			s.restage(ctx, customerID, quote)
			return nil, &PaymentFailedError{Err: err}
		}
	}

	now := time.Now().UTC()
	pay := &models.Payment{
		ID:            uuid.NewString(),
		CustomerID:    customerID,
		Amount:        quote.TotalAmount,
		TransactionID: receipt.TransactionID,
		Method:        method,
		CardLastFour:  cardLastFour,
		Status:        models.PaymentCompleted,
		CreatedAt:     now,
	}
	bkg := &models.Booking{
		ID:             uuid.NewString(),
		CustomerID:     customerID,
		EventID:        quote.EventID,
		PaymentID:      pay.ID,
		TicketQuantity: quote.TicketQuantity,
		UnitPrice:      quote.UnitPrice,
		DiscountAmount: quote.DiscountAmount,
		TotalAmount:    quote.TotalAmount,
		PointsEarned:   quote.PointsToEarn,
		Status:         models.BookingConfirmed,
		BookingDate:    now,
	}

	if err := s.DB.ConfirmCheckout(ctx, pay, bkg); err != nil {
		quote.Receipt = receipt
		s.restage(ctx, customerID, quote)

		var inventoryErr *InsufficientInventoryError
		if errors.As(err, &inventoryErr) {
			s.logger.Warn("BOOKING",
				fmt.Sprintf("inventory conflict on event %s: %v", quote.EventID, err))
			return nil, inventoryErr
		}
		s.logger.Error("BOOKING", fmt.Sprintf("durable write failed, rolled back: %v", err))
		return nil, &PaymentFailedError{Err: err}
	}

	s.logger.LogBooking("CONFIRMED", bkg.ID,
		fmt.Sprintf("customer %s paid %.2f (txn %s)", customerID, pay.Amount, pay.TransactionID))

	s.afterConfirm(ctx, bkg, quote.EventTitle)
	return bkg, nil
}

// afterConfirm runs the best-effort side effects: Kafka event and email.
// Neither failure undoes the booking.
func (s *Service) afterConfirm(ctx context.Context, bkg *models.Booking, eventTitle string) {
	if s.Kafka != nil {
		if err := s.Kafka.PublishBookingConfirmed(*bkg); err != nil {
			s.logger.Error("KAFKA", fmt.Sprintf("publish booking_confirmed: %v", err))
		}
	}
	if s.Notify != nil {
		if user, err := s.DB.GetUserByID(ctx, bkg.CustomerID); err == nil {
			if err := s.Notify.BookingConfirmed(user.Email, *bkg, eventTitle); err != nil {
				s.logger.Error("EMAIL", fmt.Sprintf("confirmation email: %v", err))
			}
		}
	}
}

func (s *Service) restage(ctx context.Context, customerID string, quote *Quote) {
	if err := s.Staging.Stage(ctx, customerID, quote); err != nil {
		s.logger.Error("BOOKING", fmt.Sprintf("failed to re-stage quote for %s: %v", customerID, err))
	}
}

// GetBookingForCustomer loads a booking and verifies ownership.
func (s *Service) GetBookingForCustomer(ctx context.Context, customerID, bookingID string) (*models.Booking, error) {
	bkg, err := s.DB.GetBookingByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("load booking %s: %w", bookingID, err)
	}
	if bkg.CustomerID != customerID {
		return nil, ErrNotBookingOwner
	}
	return bkg, nil
}

func (s *Service) ListBookings(ctx context.Context, customerID string) ([]models.Booking, error) {
	return s.DB.GetBookingsByCustomer(ctx, customerID)
}

// Cancel moves a booking to Cancelled and returns its tickets to the event
// counter. Only the owner may cancel, only via a legal status transition,
// and only before the cancellation window closes.
func (s *Service) Cancel(ctx context.Context, customerID, bookingID, reason string) error {
	bkg, err := s.GetBookingForCustomer(ctx, customerID, bookingID)
	if err != nil {
		return err
	}

	if err := bkg.Status.ValidateTransition(models.BookingCancelled); err != nil {
		return err
	}

	policy, err := s.Policies.Load(ctx)
	if err != nil {
		return err
	}
	if bkg.Event != nil {
		window := time.Duration(policy.BookingCancellationHours) * time.Hour
		if time.Until(bkg.Event.StartDate) < window {
			return ErrCancelWindowClosed
		}
	}

	now := time.Now().UTC()
	bkg.Status = models.BookingCancelled
	bkg.CancelledAt = &now
	bkg.CancelReason = reason

	if err := s.DB.CancelBooking(ctx, bkg); err != nil {
		return fmt.Errorf("cancel booking %s: %w", bookingID, err)
	}

	s.logger.LogBooking("CANCELLED", bkg.ID, "reason: "+reason)

	if s.Kafka != nil {
		if err := s.Kafka.PublishBookingCancelled(*bkg); err != nil {
			s.logger.Error("KAFKA", fmt.Sprintf("publish booking_cancelled: %v", err))
		}
	}
	if s.Notify != nil && bkg.Event != nil {
		if user, err := s.DB.GetUserByID(ctx, bkg.CustomerID); err == nil {
			if err := s.Notify.BookingCancelled(user.Email, *bkg, bkg.Event.Title); err != nil {
				s.logger.Error("EMAIL", fmt.Sprintf("cancellation email: %v", err))
			}
		}
	}
	return nil
}

// TicketQR renders the receipt QR code for a booking.
func (s *Service) TicketQR(ctx context.Context, customerID, bookingID string) ([]byte, error) {
	policy, err := s.Policies.Load(ctx)
	if err != nil {
		return nil, err
	}
	if !policy.QRTicketsEnabled {
		return nil, errors.New("QR tickets are disabled")
	}

	bkg, err := s.GetBookingForCustomer(ctx, customerID, bookingID)
	if err != nil {
		return nil, err
	}

	customerName := ""
	if user, err := s.DB.GetUserByID(ctx, bkg.CustomerID); err == nil {
		customerName = user.FullName()
	}
	eventTitle := ""
	if bkg.Event != nil {
		eventTitle = bkg.Event.Title
	}

	return qr.Encode(qr.TicketPayload{
		BookingID:    bkg.ID,
		EventTitle:   eventTitle,
		CustomerName: customerName,
		TicketCount:  bkg.TicketQuantity,
	})
}
