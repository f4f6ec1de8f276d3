// Package sheets mirrors the reservation roster into a shared Google
// Sheet so staff outside the console can read it.
package sheets

import (
	"context"
	"fmt"
	"os"

	"frontdesk/internal/models"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const rosterRange = "Reservations!A1:H"

type RosterService struct {
	service       *sheets.Service
	spreadsheetID string
}

// NewRosterService builds a Sheets client from a service-account
// credentials file.
func NewRosterService(ctx context.Context, credentialsFile, spreadsheetID string) (*RosterService, error) {
	credentialsJSON, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %w", err)
	}

	config, err := google.JWTConfigFromJSON(credentialsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %w", err)
	}

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(config.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("unable to create Sheets service: %w", err)
	}

	return &RosterService{service: srv, spreadsheetID: spreadsheetID}, nil
}

// TestConnection reads the header cell to verify access.
func (s *RosterService) TestConnection(ctx context.Context) error {
	_, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, "Reservations!A1").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("connection test failed: %w", err)
	}
	return nil
}

// ReplaceRoster clears the sheet and writes the full reservation
// collection, one row per reservation.
func (s *RosterService) ReplaceRoster(ctx context.Context, reservations []models.Reservation) error {
	if _, err := s.service.Spreadsheets.Values.Clear(s.spreadsheetID, rosterRange, &sheets.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to clear roster: %w", err)
	}

	values := [][]interface{}{
		{"ID", "Guest", "Hotel", "Check-in", "Check-out", "Total fee", "Status", "Created"},
	}
	for _, r := range reservations {
		statusTitle := fmt.Sprintf("%d", r.Status)
		if status, ok := models.StatusByID(r.Status); ok {
			statusTitle = status.Title
		}
		values = append(values, []interface{}{
			r.ID, r.GuestName(), r.HotelID, r.StartDate, r.EndDate, r.TotalFee, statusTitle, r.CreatedAt,
		})
	}

	body := &sheets.ValueRange{Values: values}
	_, err := s.service.Spreadsheets.Values.
		Update(s.spreadsheetID, "Reservations!A1", body).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to write roster: %w", err)
	}
	return nil
}

// AppendReservation adds a single row without rewriting the roster.
func (s *RosterService) AppendReservation(ctx context.Context, r *models.Reservation) error {
	statusTitle := fmt.Sprintf("%d", r.Status)
	if status, ok := models.StatusByID(r.Status); ok {
		statusTitle = status.Title
	}

	body := &sheets.ValueRange{Values: [][]interface{}{
		{r.ID, r.GuestName(), r.HotelID, r.StartDate, r.EndDate, r.TotalFee, statusTitle, r.CreatedAt},
	}}
	_, err := s.service.Spreadsheets.Values.
		Append(s.spreadsheetID, rosterRange, body).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to append reservation row: %w", err)
	}
	return nil
}
