package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrInvalid is returned when an entity fails validation
var ErrInvalid = errors.New("invalid input")

// ShiftKind is the assignment given to an agent for one day
type ShiftKind string

const (
	ShiftMorning   ShiftKind = "morning"
	ShiftAfternoon ShiftKind = "afternoon"
	ShiftNight     ShiftKind = "night"
	ShiftOff       ShiftKind = "off"
)

// WorkingShifts lists the shifts an agent can be assigned to, in priority order
var WorkingShifts = []ShiftKind{ShiftMorning, ShiftAfternoon, ShiftNight}

// Valid reports whether k is one of the known shift kinds
func (k ShiftKind) Valid() bool {
	switch k {
	case ShiftMorning, ShiftAfternoon, ShiftNight, ShiftOff:
		return true
	}
	return false
}

// Availability records which shifts an agent is willing to work
type Availability struct {
	Morning   bool `json:"morning"`
	Afternoon bool `json:"afternoon"`
	Night     bool `json:"night"`
}

// Allows reports whether the availability includes the given shift
func (a Availability) Allows(kind ShiftKind) bool {
	switch kind {
	case ShiftMorning:
		return a.Morning
	case ShiftAfternoon:
		return a.Afternoon
	case ShiftNight:
		return a.Night
	}
	return false
}

// Agent represents a person on the roster
type Agent struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Team         string          `json:"team"`
	DaysOff      []Weekday       `json:"daysOff"`
	Notes        map[Date]string `json:"notes"`
	Availability Availability    `json:"availability"`
}

// Validate checks the days off and note dates of an agent
func (a Agent) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("%w: agent name is required", ErrInvalid)
	}
	for _, d := range a.DaysOff {
		if !d.Valid() {
			return fmt.Errorf("%w: day off %d out of range 0-6", ErrInvalid, int(d))
		}
	}
	for date := range a.Notes {
		if _, err := ParseDate(string(date)); err != nil {
			return err
		}
	}
	return nil
}

// IsDayOff reports whether w is one of the agent's days off
func (a Agent) IsDayOff(w Weekday) bool {
	for _, d := range a.DaysOff {
		if d == w {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the agent
func (a Agent) Clone() Agent {
	out := a
	if a.DaysOff != nil {
		out.DaysOff = append([]Weekday(nil), a.DaysOff...)
	}
	if a.Notes != nil {
		out.Notes = make(map[Date]string, len(a.Notes))
		for k, v := range a.Notes {
			out.Notes[k] = v
		}
	}
	return out
}

// ShiftCounts holds a required headcount per shift
type ShiftCounts struct {
	Morning   int `json:"morning"`
	Afternoon int `json:"afternoon"`
	Night     int `json:"night"`
}

// For returns the count for the given shift
func (c ShiftCounts) For(kind ShiftKind) int {
	switch kind {
	case ShiftMorning:
		return c.Morning
	case ShiftAfternoon:
		return c.Afternoon
	case ShiftNight:
		return c.Night
	}
	return 0
}

// Team represents a group of agents and its daily staffing needs
type Team struct {
	ID             string                  `json:"id"`
	Name           string                  `json:"name"`
	RequiredAgents map[Weekday]ShiftCounts `json:"requiredAgents"`
}

// Validate checks that headcounts are keyed by weekday and non-negative
func (t Team) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: team name is required", ErrInvalid)
	}
	for day, counts := range t.RequiredAgents {
		if !day.Valid() {
			return fmt.Errorf("%w: required agents day %d out of range 0-6", ErrInvalid, int(day))
		}
		if counts.Morning < 0 || counts.Afternoon < 0 || counts.Night < 0 {
			return fmt.Errorf("%w: required agents for day %d must not be negative", ErrInvalid, int(day))
		}
	}
	return nil
}

// Required returns the headcount needed on the given weekday and shift
func (t Team) Required(day Weekday, kind ShiftKind) int {
	return t.RequiredAgents[day].For(kind)
}

// Clone returns a deep copy of the team
func (t Team) Clone() Team {
	out := t
	if t.RequiredAgents != nil {
		out.RequiredAgents = make(map[Weekday]ShiftCounts, len(t.RequiredAgents))
		for k, v := range t.RequiredAgents {
			out.RequiredAgents[k] = v
		}
	}
	return out
}

// Assignment is the shift an agent works on one date
type Assignment struct {
	Shift ShiftKind `json:"shift"`
	Note  string    `json:"note,omitempty"`
}

// ScheduleEntry is one agent's row in a generated week
type ScheduleEntry struct {
	AgentID   string              `json:"agentId"`
	AgentName string              `json:"agentName"`
	Team      string              `json:"team"`
	Shifts    map[Date]Assignment `json:"shifts"`
}

// Dates returns the entry's dates in ascending order
func (e ScheduleEntry) Dates() []Date {
	dates := make([]Date, 0, len(e.Shifts))
	for d := range e.Shifts {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i] < dates[j] })
	return dates
}

// Clone returns a deep copy of the entry
func (e ScheduleEntry) Clone() ScheduleEntry {
	out := e
	if e.Shifts != nil {
		out.Shifts = make(map[Date]Assignment, len(e.Shifts))
		for k, v := range e.Shifts {
			out.Shifts[k] = v
		}
	}
	return out
}
