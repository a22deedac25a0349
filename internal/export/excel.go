// Package export writes end-of-shift workbooks from the latest snapshots so
// a shift lead can hand over without the terminal in front of them.
package export

import (
	"fmt"
	"os"
	"time"

	"github.com/xuri/excelize/v2"

	"opsdesk/internal/models"
	"opsdesk/internal/sync"
)

const (
	frontDeskSheet    = "Front Desk"
	housekeepingSheet = "Housekeeping"
)

// ShiftReport writes one workbook with the front-desk and housekeeping state
// into dir and returns the file path. Either snapshot may be nil; its sheet
// is then left with just the header row.
func ShiftReport(dir string, frontDesk, housekeeping *sync.Snapshot) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("error creating export directory: %v", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(frontDeskSheet)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)
	if _, err := f.NewSheet(housekeepingSheet); err != nil {
		return "", fmt.Errorf("error creating sheet: %v", err)
	}
	f.DeleteSheet("Sheet1")

	headerStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return "", fmt.Errorf("error creating style: %v", err)
	}

	if err := writeFrontDesk(f, headerStyle, frontDesk); err != nil {
		return "", err
	}
	if err := writeHousekeeping(f, headerStyle, housekeeping); err != nil {
		return "", err
	}

	path := fmt.Sprintf("%s/shift_report_%s.xlsx", dir, time.Now().Format("2006-01-02_15-04"))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("error saving export: %v", err)
	}
	return path, nil
}

func writeFrontDesk(f *excelize.File, headerStyle int, snap *sync.Snapshot) error {
	headers := []string{"Section", "Booking", "Guest", "Status", "Room", "Expected", "Balance"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(frontDeskSheet, cell, h)
		f.SetCellStyle(frontDeskSheet, cell, cell, headerStyle)
	}
	if snap == nil {
		return nil
	}

	row := 2
	sections := []struct {
		name     string
		bookings []models.Booking
	}{
		{"Arrivals", snap.Arrivals},
		{"In-house", snap.InHouse},
		{"Departures", snap.Departures},
	}
	for _, section := range sections {
		for _, b := range section.bookings {
			balance := 0.0
			if b.Folio != nil {
				balance = b.Folio.Balance
			}
			values := []interface{}{
				section.name,
				b.ID,
				b.GuestName,
				string(b.Status),
				b.PrimaryRoom(),
				b.ExpectedArrival.Format("02.01.2006 15:04"),
				balance,
			}
			for i, v := range values {
				cell, _ := excelize.CoordinatesToCellName(i+1, row)
				f.SetCellValue(frontDeskSheet, cell, v)
			}
			row++
		}
	}
	return nil
}

func writeHousekeeping(f *excelize.File, headerStyle int, snap *sync.Snapshot) error {
	headers := []string{"Task", "Room", "Type", "Priority", "Status", "Assignee", "Notes"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(housekeepingSheet, cell, h)
		f.SetCellStyle(housekeepingSheet, cell, cell, headerStyle)
	}
	if snap == nil {
		return nil
	}

	row := 2
	for _, t := range snap.Tasks {
		values := []interface{}{
			t.ID,
			t.RoomNumber,
			string(t.Type),
			string(t.Priority),
			string(t.Status),
			t.AssigneeID,
			t.Notes,
		}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			f.SetCellValue(housekeepingSheet, cell, v)
		}
		row++
	}
	return nil
}
