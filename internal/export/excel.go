// Package export renders the cached reservation collection into files the
// staff can hand off: a local xlsx workbook or a shared Google Sheet.
package export

import (
	"fmt"
	"os"
	"time"

	"frontdesk/internal/models"

	"github.com/xuri/excelize/v2"
)

var columns = []string{"ID", "Guest", "Hotel", "Check-in", "Check-out", "Total fee", "Status", "Created"}

// WorkbookExporter writes workbooks into a fixed directory.
type WorkbookExporter struct {
	Dir string
}

func (e *WorkbookExporter) Write(reservations []models.Reservation, hotels []models.Hotel) (string, error) {
	return WriteWorkbook(reservations, hotels, e.Dir)
}

// WriteWorkbook creates an xlsx file under dir with one row per
// reservation and returns the file path.
func WriteWorkbook(reservations []models.Reservation, hotels []models.Hotel, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %w", err)
	}

	hotelNames := make(map[string]string, len(hotels))
	for _, h := range hotels {
		hotelNames[h.ID] = h.Name
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Reservations"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)

	for col, title := range columns {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = f.SetCellValue(sheetName, cell, title)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	lastHeader, _ := excelize.CoordinatesToCellName(len(columns), 1)
	_ = f.SetCellStyle(sheetName, "A1", lastHeader, headerStyle)

	for i, r := range reservations {
		row := i + 2
		values := reservationRow(r, hotelNames)
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheetName, cell, value)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "H", 18)
	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("reservations_%s.xlsx", time.Now().Format("2006-01-02_150405"))
	path := fmt.Sprintf("%s/%s", dir, fileName)
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("error saving export file: %w", err)
	}
	return path, nil
}

func reservationRow(r models.Reservation, hotelNames map[string]string) []any {
	hotelName := hotelNames[fmt.Sprintf("%d", r.HotelID)]
	if hotelName == "" {
		hotelName = fmt.Sprintf("hotel %d", r.HotelID)
	}

	statusTitle := fmt.Sprintf("%d", r.Status)
	if status, ok := models.StatusByID(r.Status); ok {
		statusTitle = status.Title
	}

	return []any{r.ID, r.GuestName(), hotelName, r.StartDate, r.EndDate, r.TotalFee, statusTitle, r.CreatedAt}
}
