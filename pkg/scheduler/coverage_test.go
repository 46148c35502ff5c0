package scheduler

import (
	"testing"

	"github.com/arnavshah/w2w/pkg/models"
)

func TestCoverage(t *testing.T) {
	teams := []models.Team{{
		ID:   "t1",
		Name: "Support",
		RequiredAgents: map[models.Weekday]models.ShiftCounts{
			models.Monday: {Morning: 2, Night: 1},
		},
	}}
	agents := []models.Agent{
		{ID: "a1", Name: "Ana", Team: "Support", Availability: models.Availability{Morning: true}},
		{ID: "a2", Name: "Ben", Team: "Sales", Availability: models.Availability{Morning: true}},
	}

	s := NewScheduler(agents, teams)
	schedule, err := s.Generate("2024-01-07")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	gaps := s.Coverage(schedule)
	if len(gaps) != 2 {
		t.Fatalf("Expected 2 gaps, got %d: %+v", len(gaps), gaps)
	}

	morning := gaps[0]
	if morning.Date != "2024-01-08" || morning.Shift != models.ShiftMorning || morning.Required != 2 || morning.Scheduled != 1 {
		t.Errorf("Unexpected morning gap %+v", morning)
	}
	night := gaps[1]
	if night.Shift != models.ShiftNight || night.Required != 1 || night.Scheduled != 0 {
		t.Errorf("Unexpected night gap %+v", night)
	}
}

func TestCoverage_EmptySchedule(t *testing.T) {
	if gaps := NewScheduler(nil, nil).Coverage(nil); gaps != nil {
		t.Errorf("Expected no gaps, got %+v", gaps)
	}
}

func TestCalculateFairnessScore(t *testing.T) {
	even := []models.ScheduleEntry{
		{AgentID: "a1", Shifts: map[models.Date]models.Assignment{"2024-01-08": {Shift: models.ShiftMorning}}},
		{AgentID: "a2", Shifts: map[models.Date]models.Assignment{"2024-01-08": {Shift: models.ShiftNight}}},
	}
	if score := CalculateFairnessScore(even); score != 100.0 {
		t.Errorf("Expected 100, got %f", score)
	}

	uneven := []models.ScheduleEntry{
		{AgentID: "a1", Shifts: map[models.Date]models.Assignment{"2024-01-08": {Shift: models.ShiftMorning}}},
		{AgentID: "a2", Shifts: map[models.Date]models.Assignment{"2024-01-08": {Shift: models.ShiftOff}}},
	}
	if score := CalculateFairnessScore(uneven); score != 0.0 {
		t.Errorf("Expected 0, got %f", score)
	}

	if score := CalculateFairnessScore(nil); score != 100.0 {
		t.Errorf("Expected 100 for empty schedule, got %f", score)
	}
}
