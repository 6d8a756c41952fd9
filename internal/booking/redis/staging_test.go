package redis

import (
	"context"
	"testing"
	"time"

	"starevents/internal/booking"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startRedis(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping Redis integration test in short mode")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:latest",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: host + ":" + port.Port()})
	t.Cleanup(func() { client.Close() })
	return client
}

func sampleQuote(customerID string) *booking.Quote {
	return &booking.Quote{
		EventID:        "evt-1",
		EventTitle:     "Symphony Under the Stars",
		CustomerID:     customerID,
		TicketQuantity: 4,
		UnitPrice:      2500,
		DiscountAmount: 1000,
		TotalAmount:    9000,
		Currency:       "LKR",
		PointsToEarn:   90,
		PromoApplied:   true,
		QuotedAt:       time.Now().UTC(),
	}
}

func TestStagingRoundTrip(t *testing.T) {
	client := startRedis(t)
	staging := NewStaging(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, staging.Stage(ctx, "cust-1", sampleQuote("cust-1")))

	// Peek does not consume.
	peeked, err := staging.Peek(ctx, "cust-1")
	require.NoError(t, err)
	require.NotNil(t, peeked)
	assert.Equal(t, 9000.0, peeked.TotalAmount)

	taken, err := staging.Take(ctx, "cust-1")
	require.NoError(t, err)
	require.NotNil(t, taken)
	assert.Equal(t, "evt-1", taken.EventID)
	assert.Equal(t, 90, taken.PointsToEarn)

	// Take consumes: the second read fails closed.
	taken, err = staging.Take(ctx, "cust-1")
	require.NoError(t, err)
	assert.Nil(t, taken)
}

func TestStagingMissingCustomer(t *testing.T) {
	client := startRedis(t)
	staging := NewStaging(client, time.Minute)

	quote, err := staging.Take(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, quote)
}

func TestStagingOverwrite(t *testing.T) {
	client := startRedis(t)
	staging := NewStaging(client, time.Minute)
	ctx := context.Background()

	first := sampleQuote("cust-1")
	first.TicketQuantity = 2
	require.NoError(t, staging.Stage(ctx, "cust-1", first))

	second := sampleQuote("cust-1")
	second.TicketQuantity = 6
	require.NoError(t, staging.Stage(ctx, "cust-1", second))

	taken, err := staging.Take(ctx, "cust-1")
	require.NoError(t, err)
	require.NotNil(t, taken)
	assert.Equal(t, 6, taken.TicketQuantity)
}

func TestStagingExpiry(t *testing.T) {
	client := startRedis(t)
	staging := NewStaging(client, time.Second)
	ctx := context.Background()

	require.NoError(t, staging.Stage(ctx, "cust-1", sampleQuote("cust-1")))
	time.Sleep(1500 * time.Millisecond)

	quote, err := staging.Take(ctx, "cust-1")
	require.NoError(t, err)
	assert.Nil(t, quote, "an expired quote must never be charged")
}

func TestStagingCorruptEntryFailsClosed(t *testing.T) {
	client := startRedis(t)
	staging := NewStaging(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "checkout:cust-1", "{not json", time.Minute).Err())

	quote, err := staging.Take(ctx, "cust-1")
	require.NoError(t, err)
	assert.Nil(t, quote)
}
