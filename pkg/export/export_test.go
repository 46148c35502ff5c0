package export

import (
	"bytes"
	"errors"
	"testing"

	"github.com/arnavshah/w2w/pkg/i18n"
	"github.com/arnavshah/w2w/pkg/models"
	"github.com/xuri/excelize/v2"
)

func sampleSchedule() []models.ScheduleEntry {
	return []models.ScheduleEntry{
		{
			AgentID:   "a1",
			AgentName: "Ana",
			Team:      "Support",
			Shifts: map[models.Date]models.Assignment{
				"2024-01-08": {Shift: models.ShiftMorning},
				"2024-01-07": {Shift: models.ShiftOff, Note: "Vacation"},
			},
		},
		{
			AgentID:   "a2",
			AgentName: "Ben",
			Team:      "Sales",
			Shifts: map[models.Date]models.Assignment{
				"2024-01-07": {Shift: models.ShiftNight},
			},
		},
	}
}

func TestTable(t *testing.T) {
	rows, err := Table(sampleSchedule(), i18n.Default().Translator(models.English))
	if err != nil {
		t.Fatalf("table: %v", err)
	}

	want := [][]string{
		{"Name", "Team", "2024-01-07", "2024-01-08"},
		{"Ana", "Support", "Off (Vacation)", "Morning"},
		{"Ben", "Sales", "Night", ""},
	}
	if len(rows) != len(want) {
		t.Fatalf("Expected %d rows, got %d", len(want), len(rows))
	}
	for i := range want {
		for j := range want[i] {
			if rows[i][j] != want[i][j] {
				t.Errorf("row %d col %d: expected %q, got %q", i, j, want[i][j], rows[i][j])
			}
		}
	}
}

func TestTable_Spanish(t *testing.T) {
	rows, err := Table(sampleSchedule(), i18n.Default().Translator(models.Spanish))
	if err != nil {
		t.Fatalf("table: %v", err)
	}
	if rows[0][0] != "Nombre" || rows[0][1] != "Equipo" {
		t.Errorf("Expected Spanish headers, got %v", rows[0])
	}
	if rows[1][3] != "Mañana" {
		t.Errorf("Expected Mañana, got %q", rows[1][3])
	}
}

func TestTable_NothingToExport(t *testing.T) {
	if _, err := Table(nil, i18n.Default().Translator(models.English)); !errors.Is(err, ErrNothingToExport) {
		t.Errorf("Expected ErrNothingToExport, got %v", err)
	}
	if _, _, err := Workbook(nil, i18n.Default().Translator(models.English)); !errors.Is(err, ErrNothingToExport) {
		t.Errorf("Expected ErrNothingToExport, got %v", err)
	}
}

func TestWorkbook(t *testing.T) {
	data, name, err := Workbook(sampleSchedule(), i18n.Default().Translator(models.English))
	if err != nil {
		t.Fatalf("workbook: %v", err)
	}
	if name != "w2w_schedule_2024-01-07.xlsx" {
		t.Errorf("Unexpected file name %q", name)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	if sheets := f.GetSheetList(); len(sheets) != 1 || sheets[0] != SheetName {
		t.Errorf("Expected a single %s sheet, got %v", SheetName, sheets)
	}
	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(rows))
	}
	if rows[1][2] != "Off (Vacation)" {
		t.Errorf("Expected noted cell, got %q", rows[1][2])
	}
}
