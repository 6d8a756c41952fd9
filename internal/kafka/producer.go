package kafka

import (
	"context"
	"encoding/json"
	"time"

	"starevents/internal/models"

	"github.com/segmentio/kafka-go"
)

// BookingEvent is the message published on booking lifecycle changes.
type BookingEvent struct {
	Type           string    `json:"type"`
	BookingID      string    `json:"booking_id"`
	EventID        string    `json:"event_id"`
	CustomerID     string    `json:"customer_id"`
	TicketQuantity int       `json:"ticket_quantity"`
	TotalAmount    float64   `json:"total_amount"`
	Timestamp      time.Time `json:"timestamp"`
}

type Producer struct {
	confirmed *kafka.Writer
	cancelled *kafka.Writer
}

func NewProducer(brokers []string, confirmedTopic, cancelledTopic string) *Producer {
	return &Producer{
		confirmed: kafka.NewWriter(kafka.WriterConfig{Brokers: brokers, Topic: confirmedTopic}),
		cancelled: kafka.NewWriter(kafka.WriterConfig{Brokers: brokers, Topic: cancelledTopic}),
	}
}

func (p *Producer) publish(w *kafka.Writer, eventType string, bkg models.Booking) error {
	msg := BookingEvent{
		Type:           eventType,
		BookingID:      bkg.ID,
		EventID:        bkg.EventID,
		CustomerID:     bkg.CustomerID,
		TicketQuantity: bkg.TicketQuantity,
		TotalAmount:    bkg.TotalAmount,
		Timestamp:      time.Now().UTC(),
	}
	msgBytes, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return w.WriteMessages(context.Background(),
		kafka.Message{
			Key:   []byte(bkg.ID),
			Value: msgBytes,
		},
	)
}

func (p *Producer) PublishBookingConfirmed(bkg models.Booking) error {
	return p.publish(p.confirmed, "booking_confirmed", bkg)
}

func (p *Producer) PublishBookingCancelled(bkg models.Booking) error {
	return p.publish(p.cancelled, "booking_cancelled", bkg)
}

func (p *Producer) Close() error {
	if err := p.confirmed.Close(); err != nil {
		return err
	}
	return p.cancelled.Close()
}
