package payment

import (
	"context"
	"strings"

	"starevents/internal/logger"

	"github.com/google/uuid"
)

// Receipt is what a gateway returns for a successful charge.
type Receipt struct {
	TransactionID string
}

// Gateway collects a payment. The default implementation is simulated; a
// Stripe-backed one is used when a secret key is configured.
type Gateway interface {
	Charge(ctx context.Context, amount float64, currency, method, cardLastFour string) (*Receipt, error)
}

// SimulatedGateway approves every charge and mints an opaque transaction id.
type SimulatedGateway struct {
	Log *logger.Logger
}

func (g *SimulatedGateway) Charge(ctx context.Context, amount float64, currency, method, cardLastFour string) (*Receipt, error) {
	txnID := "TXN-" + strings.ToUpper(uuid.NewString()[:8])
	if g.Log != nil {
		g.Log.LogPayment("CHARGE", txnID, "simulated "+method+" payment approved")
	}
	return &Receipt{TransactionID: txnID}, nil
}
