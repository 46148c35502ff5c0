package scheduler

import (
	"math"

	"github.com/arnavshah/w2w/pkg/models"
)

// CoverageGap is a team shift that has fewer scheduled agents than required
type CoverageGap struct {
	Team      string           `json:"team"`
	Date      models.Date      `json:"date"`
	Weekday   models.Weekday   `json:"weekday"`
	Shift     models.ShiftKind `json:"shift"`
	Required  int              `json:"required"`
	Scheduled int              `json:"scheduled"`
}

// Coverage compares a generated schedule with each team's required headcount.
// Entries are matched to teams by name. Gaps are ordered by team, date, shift.
func (s *Scheduler) Coverage(schedule []models.ScheduleEntry) []CoverageGap {
	if len(schedule) == 0 {
		return nil
	}

	type slot struct {
		team  string
		date  models.Date
		shift models.ShiftKind
	}
	scheduled := make(map[slot]int)
	for _, entry := range schedule {
		for date, asg := range entry.Shifts {
			if asg.Shift == models.ShiftOff {
				continue
			}
			scheduled[slot{entry.Team, date, asg.Shift}]++
		}
	}

	dates := schedule[0].Dates()
	var gaps []CoverageGap
	for _, team := range s.Teams {
		for _, date := range dates {
			day := date.Weekday()
			for _, kind := range models.WorkingShifts {
				required := team.Required(day, kind)
				have := scheduled[slot{team.Name, date, kind}]
				if have < required {
					gaps = append(gaps, CoverageGap{
						Team:      team.Name,
						Date:      date,
						Weekday:   day,
						Shift:     kind,
						Required:  required,
						Scheduled: have,
					})
				}
			}
		}
	}
	return gaps
}

// WorkingDays counts the non-off days of each agent in the schedule
func WorkingDays(schedule []models.ScheduleEntry) map[string]int {
	days := make(map[string]int, len(schedule))
	for _, entry := range schedule {
		n := 0
		for _, asg := range entry.Shifts {
			if asg.Shift != models.ShiftOff {
				n++
			}
		}
		days[entry.AgentID] = n
	}
	return days
}

// CalculateFairnessScore returns a percentage (0-100) representing how evenly
// working days are spread across agents. 100% is perfectly fair (Standard Deviation = 0).
func CalculateFairnessScore(schedule []models.ScheduleEntry) float64 {
	if len(schedule) == 0 {
		return 100.0
	}

	days := WorkingDays(schedule)
	var sum float64
	for _, n := range days {
		sum += float64(n)
	}

	if sum == 0 {
		return 100.0 // Everyone off all week is perfectly fair
	}

	mean := sum / float64(len(days))

	var varianceSum float64
	for _, n := range days {
		diff := float64(n) - mean
		varianceSum += diff * diff
	}
	stdDev := math.Sqrt(varianceSum / float64(len(days)))

	// 100% means SD is 0. 0% means SD is >= mean.
	score := (1.0 - (stdDev / mean)) * 100.0
	if score < 0 {
		return 0.0
	}
	return score
}
