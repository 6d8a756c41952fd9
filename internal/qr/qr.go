package qr

import (
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
)

// TicketPayload is the data encoded into a booking's QR code.
type TicketPayload struct {
	BookingID    string
	EventTitle   string
	CustomerName string
	TicketCount  int
}

// Encode renders the payload as a pipe-delimited string inside a 256x256
// PNG. Pipes inside field values are stripped so the payload stays parseable.
func Encode(p TicketPayload) ([]byte, error) {
	clean := func(s string) string { return strings.ReplaceAll(s, "|", " ") }
	payload := fmt.Sprintf("%s|%s|%s|%d",
		clean(p.BookingID), clean(p.EventTitle), clean(p.CustomerName), p.TicketCount)
	return qrcode.Encode(payload, qrcode.Medium, 256)
}
