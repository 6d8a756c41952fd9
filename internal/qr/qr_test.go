package qr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeProducesPNG(t *testing.T) {
	png, err := Encode(TicketPayload{
		BookingID:    "bkg-1",
		EventTitle:   "Symphony Under the Stars",
		CustomerName: "Amara Perera",
		TicketCount:  4,
	})
	require.NoError(t, err)
	require.NotEmpty(t, png)
	assert.Equal(t, []byte{0x89, 0x50, 0x4E, 0x47}, png[:4])
}

func TestEncodeStripsDelimiters(t *testing.T) {
	// Pipes inside fields would break the payload format.
	png, err := Encode(TicketPayload{
		BookingID:    "bkg|1",
		EventTitle:   "Rock | Roll Night",
		CustomerName: "A|B",
		TicketCount:  1,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, png)
}

func TestEncodeEmptyFields(t *testing.T) {
	png, err := Encode(TicketPayload{BookingID: "bkg-1", TicketCount: 2})
	require.NoError(t, err)
	assert.NotEmpty(t, png)
}
