package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Venue struct {
	bun.BaseModel `bun:"table:venues"`

	ID        string    `bun:"id,pk" json:"id"`
	Name      string    `bun:"name,notnull" json:"name"`
	City      string    `bun:"city,notnull" json:"city"`
	Address   string    `bun:"address,nullzero" json:"address,omitempty"`
	Capacity  int       `bun:"capacity,nullzero" json:"capacity,omitempty"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}
