package store

import (
	"strings"

	"github.com/arnavshah/w2w/pkg/models"
)

// FilterAgents keeps agents whose name or team contains q, ignoring case
func FilterAgents(agents []models.Agent, q string) []models.Agent {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return agents
	}
	out := make([]models.Agent, 0, len(agents))
	for _, a := range agents {
		if strings.Contains(strings.ToLower(a.Name), q) || strings.Contains(strings.ToLower(a.Team), q) {
			out = append(out, a)
		}
	}
	return out
}

// FilterTeams keeps teams whose name contains q, ignoring case
func FilterTeams(teams []models.Team, q string) []models.Team {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return teams
	}
	out := make([]models.Team, 0, len(teams))
	for _, t := range teams {
		if strings.Contains(strings.ToLower(t.Name), q) {
			out = append(out, t)
		}
	}
	return out
}

// FilterSchedule keeps entries for one team. An empty team or "all" keeps everything.
func FilterSchedule(schedule []models.ScheduleEntry, team string) []models.ScheduleEntry {
	if team == "" || team == "all" {
		return schedule
	}
	out := make([]models.ScheduleEntry, 0, len(schedule))
	for _, e := range schedule {
		if e.Team == team {
			out = append(out, e)
		}
	}
	return out
}

// AgentTeams returns the distinct team names used by agents, in first-seen order
func AgentTeams(agents []models.Agent) []string {
	seen := make(map[string]bool, len(agents))
	teams := make([]string, 0, len(agents))
	for _, a := range agents {
		if seen[a.Team] {
			continue
		}
		seen[a.Team] = true
		teams = append(teams, a.Team)
	}
	return teams
}
