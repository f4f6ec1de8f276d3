package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frontdesk/internal/models"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

func setupMockService(t *testing.T) (*http.ServeMux, *RosterService) {
	t.Helper()

	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	srv, err := sheets.NewService(context.Background(), option.WithEndpoint(server.URL), option.WithoutAuthentication())
	require.NoError(t, err)

	return mux, &RosterService{service: srv, spreadsheetID: "roster_tid"}
}

func TestTestConnection(t *testing.T) {
	mux, s := setupMockService(t)
	mux.HandleFunc("/v4/spreadsheets/roster_tid/values/Reservations!A1", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(sheets.ValueRange{Values: [][]interface{}{{"ID"}}})
	})

	assert.NoError(t, s.TestConnection(context.Background()))
}

func TestTestConnectionFailure(t *testing.T) {
	_, s := setupMockService(t)

	assert.Error(t, s.TestConnection(context.Background()), "missing sheet answers 404")
}

func TestReplaceRoster(t *testing.T) {
	mux, s := setupMockService(t)

	cleared := false
	mux.HandleFunc("/v4/spreadsheets/roster_tid/values/Reservations!A1:H:clear", func(w http.ResponseWriter, r *http.Request) {
		cleared = true
		_ = json.NewEncoder(w).Encode(sheets.ClearValuesResponse{})
	})

	var written sheets.ValueRange
	mux.HandleFunc("/v4/spreadsheets/roster_tid/values/Reservations!A1", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&written)
		_ = json.NewEncoder(w).Encode(sheets.UpdateValuesResponse{})
	})

	reservations := []models.Reservation{
		{ID: "7", Name: "Lena", Surname: "Orlova", HotelID: 1, Status: models.StatusPending, StartDate: "2026-09-01", EndDate: "2026-09-03"},
	}
	require.NoError(t, s.ReplaceRoster(context.Background(), reservations))

	assert.True(t, cleared, "roster is cleared before the rewrite")
	require.Len(t, written.Values, 2, "header plus one reservation")
	assert.Equal(t, "ID", written.Values[0][0])
	assert.Equal(t, "Lena Orlova", written.Values[1][1])
	assert.Equal(t, "PENDING", written.Values[1][6])
}

func TestAppendReservation(t *testing.T) {
	mux, s := setupMockService(t)

	var appended sheets.ValueRange
	mux.HandleFunc("/v4/spreadsheets/roster_tid/values/Reservations!A1:H:append", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&appended)
		_ = json.NewEncoder(w).Encode(sheets.AppendValuesResponse{})
	})

	r := &models.Reservation{ID: "9", Name: "Ivan", Status: models.StatusApproved}
	require.NoError(t, s.AppendReservation(context.Background(), r))

	require.Len(t, appended.Values, 1)
	assert.Equal(t, "9", appended.Values[0][0])
	assert.Equal(t, "APPROVED", appended.Values[0][6])
}
