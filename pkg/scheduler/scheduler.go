package scheduler

import (
	"errors"

	"github.com/arnavshah/w2w/pkg/models"
)

// DaysPerWeek is the length of a generated schedule
const DaysPerWeek = 7

// ErrMissingPrerequisites is returned when there are no agents or no teams
var ErrMissingPrerequisites = errors.New("agents and teams are required to generate a schedule")

// Scheduler assigns each agent one shift per day of a week
type Scheduler struct {
	Agents []models.Agent
	Teams  []models.Team
}

// NewScheduler creates a new scheduler instance
func NewScheduler(agents []models.Agent, teams []models.Team) *Scheduler {
	return &Scheduler{
		Agents: agents,
		Teams:  teams,
	}
}

// WeekDates returns the seven dates starting at the Sunday on or before start
func WeekDates(start models.Date) []models.Date {
	first := start.WeekStart()
	dates := make([]models.Date, DaysPerWeek)
	for i := range dates {
		dates[i] = first.AddDays(i)
	}
	return dates
}

// AssignDay picks the agent's shift for one date. A note beats a day off,
// which beats availability; availability is tried morning, afternoon, night.
func (s *Scheduler) AssignDay(agent models.Agent, date models.Date) models.Assignment {
	if note, ok := agent.Notes[date]; ok && note != "" {
		return models.Assignment{Shift: models.ShiftOff, Note: note}
	}
	if agent.IsDayOff(date.Weekday()) {
		return models.Assignment{Shift: models.ShiftOff}
	}
	for _, kind := range models.WorkingShifts {
		if agent.Availability.Allows(kind) {
			return models.Assignment{Shift: kind}
		}
	}
	return models.Assignment{Shift: models.ShiftOff}
}

// Generate builds one entry per agent, in input order, for the week of start.
// Teams must be non-empty but their headcounts are not consulted.
func (s *Scheduler) Generate(start models.Date) ([]models.ScheduleEntry, error) {
	if len(s.Agents) == 0 || len(s.Teams) == 0 {
		return nil, ErrMissingPrerequisites
	}
	if _, err := models.ParseDate(string(start)); err != nil {
		return nil, err
	}

	dates := WeekDates(start)
	schedule := make([]models.ScheduleEntry, 0, len(s.Agents))
	for _, agent := range s.Agents {
		entry := models.ScheduleEntry{
			AgentID:   agent.ID,
			AgentName: agent.Name,
			Team:      agent.Team,
			Shifts:    make(map[models.Date]models.Assignment, len(dates)),
		}
		for _, date := range dates {
			entry.Shifts[date] = s.AssignDay(agent, date)
		}
		schedule = append(schedule, entry)
	}
	return schedule, nil
}
