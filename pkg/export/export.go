package export

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/arnavshah/w2w/pkg/i18n"
	"github.com/arnavshah/w2w/pkg/models"
	"github.com/xuri/excelize/v2"
)

// SheetName is the name of the single worksheet in an export
const SheetName = "Schedule"

// ContentType is the MIME type of an xlsx workbook
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ErrNothingToExport is returned when no schedule has been generated
var ErrNothingToExport = errors.New("no schedule generated yet")

// FileName returns the download name for a week beginning on first
func FileName(first models.Date) string {
	return fmt.Sprintf("w2w_schedule_%s.xlsx", first)
}

// Table lays the schedule out as rows. The header uses the sorted dates of
// the first entry; every entry is assumed to share them.
func Table(schedule []models.ScheduleEntry, translate func(key string) string) ([][]string, error) {
	if len(schedule) == 0 {
		return nil, ErrNothingToExport
	}

	dates := schedule[0].Dates()
	header := make([]string, 0, len(dates)+2)
	header = append(header, translate("agents.name"), translate("agents.team"))
	for _, d := range dates {
		header = append(header, string(d))
	}

	rows := make([][]string, 0, len(schedule)+1)
	rows = append(rows, header)
	for _, entry := range schedule {
		row := make([]string, 0, len(header))
		row = append(row, entry.AgentName, entry.Team)
		for _, d := range dates {
			row = append(row, cell(entry.Shifts, d, translate))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func cell(shifts map[models.Date]models.Assignment, d models.Date, translate func(string) string) string {
	asg, ok := shifts[d]
	if !ok {
		return ""
	}
	value := translate(i18n.ShiftKey(asg.Shift))
	if asg.Note != "" {
		value += " (" + asg.Note + ")"
	}
	return value
}

// Workbook renders the schedule as an xlsx file and returns its bytes
// together with the download file name
func Workbook(schedule []models.ScheduleEntry, translate func(key string) string) ([]byte, string, error) {
	rows, err := Table(schedule, translate)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, "", fmt.Errorf("name sheet: %w", err)
	}
	for i, row := range rows {
		addr, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, "", err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(SheetName, addr, &values); err != nil {
			return nil, "", fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", fmt.Errorf("encode workbook: %w", err)
	}
	return buf.Bytes(), FileName(firstDate(schedule)), nil
}

func firstDate(schedule []models.ScheduleEntry) models.Date {
	if dates := schedule[0].Dates(); len(dates) > 0 {
		return dates[0]
	}
	return ""
}
