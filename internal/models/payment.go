package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Payment struct {
	bun.BaseModel `bun:"table:payments"`

	ID            string        `bun:"id,pk" json:"id"`
	CustomerID    string        `bun:"customer_id,notnull" json:"customer_id"`
	Amount        float64       `bun:"amount,notnull" json:"amount"`
	TransactionID string        `bun:"transaction_id,notnull,unique" json:"transaction_id"`
	Method        string        `bun:"method,notnull" json:"method"`
	CardLastFour  string        `bun:"card_last_four,nullzero" json:"card_last_four,omitempty"`
	Status        PaymentStatus `bun:"status,notnull" json:"status"`
	CreatedAt     time.Time     `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time     `bun:"updated_at,nullzero" json:"updated_at,omitempty"`
}
