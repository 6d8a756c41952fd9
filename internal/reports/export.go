package reports

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"starevents/internal/models"
)

// ExportCSV renders one of the admin report types as CSV bytes.
// Known types: "users", "events", "bookings".
func (s *Service) ExportCSV(ctx context.Context, reportType string) ([]byte, string, error) {
	switch reportType {
	case "users":
		data, err := s.exportUsers(ctx)
		return data, "users_report.csv", err
	case "events":
		data, err := s.exportEvents(ctx)
		return data, "events_report.csv", err
	case "bookings":
		data, err := s.exportBookings(ctx)
		return data, "bookings_report.csv", err
	default:
		return nil, "", fmt.Errorf("unknown report type: %s", reportType)
	}
}

func writeCSV(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *Service) exportUsers(ctx context.Context) ([]byte, error) {
	var users []models.User
	if err := s.db.NewSelect().Model(&users).Order("email ASC").Scan(ctx); err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{
			u.ID, u.FirstName, u.LastName, u.Email, u.Phone,
			string(u.Role), strconv.Itoa(u.LoyaltyPoints),
		})
	}
	return writeCSV([]string{"Id", "FirstName", "LastName", "Email", "Phone", "Role", "LoyaltyPoints"}, rows)
}

func (s *Service) exportEvents(ctx context.Context) ([]byte, error) {
	var events []models.Event
	if err := s.db.NewSelect().Model(&events).Relation("Venue").Order("start_date ASC").Scan(ctx); err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(events))
	for _, e := range events {
		venueName := ""
		if e.Venue != nil {
			venueName = e.Venue.Name
		}
		available := ""
		if e.AvailableTickets != nil {
			available = strconv.Itoa(*e.AvailableTickets)
		}
		rows = append(rows, []string{
			e.ID, e.Title, e.Category, e.StartDate.Format("2006-01-02"),
			string(e.Status), venueName,
			strconv.FormatFloat(e.TicketPrice, 'f', 2, 64), available,
		})
	}
	return writeCSV([]string{"Id", "Title", "Category", "StartDate", "Status", "Venue", "Price", "AvailableTickets"}, rows)
}

func (s *Service) exportBookings(ctx context.Context) ([]byte, error) {
	var bookings []models.Booking
	if err := s.db.NewSelect().Model(&bookings).Relation("Event").Order("booking_date DESC").Scan(ctx); err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(bookings))
	for _, b := range bookings {
		eventTitle := ""
		if b.Event != nil {
			eventTitle = b.Event.Title
		}
		rows = append(rows, []string{
			b.ID, b.CustomerID, eventTitle,
			strconv.Itoa(b.TicketQuantity),
			strconv.FormatFloat(b.TotalAmount, 'f', 2, 64),
			string(b.Status), b.BookingDate.Format("2006-01-02"),
		})
	}
	return writeCSV([]string{"Id", "Customer", "Event", "Quantity", "TotalAmount", "Status", "BookingDate"}, rows)
}
