package export

import (
	"os"
	"testing"

	"frontdesk/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteWorkbook(t *testing.T) {
	reservations := []models.Reservation{
		{ID: "1", Name: "John", Surname: "Doe", StartDate: "2026-09-01", EndDate: "2026-09-05", TotalFee: "450", Status: models.StatusApproved, HotelID: 1},
		{ID: "2", Name: "Jane", Surname: "Roe", StartDate: "2026-09-02", EndDate: "2026-09-03", TotalFee: "120", Status: models.StatusPending, HotelID: 2},
	}
	hotels := []models.Hotel{
		{ID: "1", Name: "Grand Hotel"},
		{ID: "2", Name: "Seaside Resort"},
	}

	dir := t.TempDir()
	path, err := WriteWorkbook(reservations, hotels, dir)
	require.NoError(t, err)

	_, err = os.Stat(path)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Reservations")
	require.NoError(t, err)
	require.Len(t, rows, 3, "header plus two reservations")

	assert.Equal(t, "Guest", rows[0][1])
	assert.Equal(t, "John Doe", rows[1][1])
	assert.Equal(t, "Grand Hotel", rows[1][2])
	assert.Equal(t, "APPROVED", rows[1][6])
	assert.Equal(t, "PENDING", rows[2][6])
}

func TestWriteWorkbookUnknownHotelAndStatus(t *testing.T) {
	reservations := []models.Reservation{
		{ID: "3", Name: "Solo", Status: 9, HotelID: 42},
	}

	path, err := WriteWorkbook(reservations, nil, t.TempDir())
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Reservations")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "hotel 42", rows[1][2])
	assert.Equal(t, "9", rows[1][6])
}

func TestWriteWorkbookEmptyCollection(t *testing.T) {
	path, err := WriteWorkbook(nil, nil, t.TempDir())
	require.NoError(t, err)
	assert.FileExists(t, path)
}
