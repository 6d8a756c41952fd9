package redis

import (
	"context"
	"encoding/json"
	"time"

	"starevents/internal/booking"

	"github.com/go-redis/redis/v8"
)

// Staging holds the staged checkout context between the booking request and
// payment confirmation. One in-flight checkout per customer; entries expire
// after TTL so a stale quote can never be charged.
type Staging struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewStaging(client *redis.Client, ttl time.Duration) *Staging {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Staging{Client: client, TTL: ttl}
}

func key(customerID string) string {
	return "checkout:" + customerID
}

// Stage stores the quote, replacing any previous in-flight checkout for
// this customer.
func (s *Staging) Stage(ctx context.Context, customerID string, quote *booking.Quote) error {
	data, err := json.Marshal(quote)
	if err != nil {
		return err
	}
	return s.Client.Set(ctx, key(customerID), data, s.TTL).Err()
}

// Take retrieves and deletes the staged quote. A missing or unreadable
// entry returns (nil, nil): the caller must fail closed.
func (s *Staging) Take(ctx context.Context, customerID string) (*booking.Quote, error) {
	data, err := s.Client.Get(ctx, key(customerID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := s.Client.Del(ctx, key(customerID)).Err(); err != nil {
		return nil, err
	}

	var quote booking.Quote
	if err := json.Unmarshal(data, &quote); err != nil {
		// Corrupt entry: treat as expired rather than charging from it.
		return nil, nil
	}
	return &quote, nil
}

// Peek returns the staged quote without consuming it (payment page reload).
func (s *Staging) Peek(ctx context.Context, customerID string) (*booking.Quote, error) {
	data, err := s.Client.Get(ctx, key(customerID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var quote booking.Quote
	if err := json.Unmarshal(data, &quote); err != nil {
		return nil, nil
	}
	return &quote, nil
}
