package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"starevents/internal/logger"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
)

var ErrStripeClientInitFailed = errors.New("failed to initialize Stripe client")

// StripeGateway charges cards through Stripe payment intents. It is wired
// in only when STRIPE_SECRET_KEY is configured; the simulated gateway is
// the default.
type StripeGateway struct {
	client *client.API
	log    *logger.Logger
}

func NewStripeGateway(secretKey string, log *logger.Logger) (*StripeGateway, error) {
	if secretKey == "" {
		return nil, ErrStripeClientInitFailed
	}
	sc := client.New(secretKey, nil)
	if sc == nil {
		return nil, ErrStripeClientInitFailed
	}
	log.Info("STRIPE", "Stripe client initialized")
	return &StripeGateway{client: sc, log: log}, nil
}

func (g *StripeGateway) Charge(ctx context.Context, amount float64, currency, method, cardLastFour string) (*Receipt, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("invalid payment amount: %.2f", amount)
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(amount * 100)),
		Currency: stripe.String(strings.ToLower(currency)),
		PaymentMethodTypes: []*string{
			stripe.String("card"),
		},
		Confirm: stripe.Bool(true),
	}
	params.Context = ctx

	intent, err := g.client.PaymentIntents.New(params)
	if err != nil {
		g.log.Error("STRIPE", fmt.Sprintf("Payment intent creation failed: %v", err))
		return nil, fmt.Errorf("stripe charge: %w", err)
	}

	g.log.LogPayment("CHARGE", intent.ID, fmt.Sprintf("stripe payment intent status %s", intent.Status))
	return &Receipt{TransactionID: intent.ID}, nil
}
