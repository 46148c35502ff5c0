package store

import (
	"context"
	"fmt"

	"github.com/arnavshah/w2w/pkg/models"
	"github.com/arnavshah/w2w/pkg/scheduler"
)

// AddAgent assigns a fresh id to data and appends it to the roster
func (s *Store) AddAgent(ctx context.Context, data models.Agent) (models.Agent, error) {
	if err := data.Validate(); err != nil {
		return models.Agent{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	agent := data.Clone()
	agent.ID = s.newID()
	if agent.Notes == nil {
		agent.Notes = map[models.Date]string{}
	}
	if agent.DaysOff == nil {
		agent.DaysOff = []models.Weekday{}
	}

	next := s.state
	next.Agents = append(append(make([]models.Agent, 0, len(s.state.Agents)+1), s.state.Agents...), agent)
	if err := s.commit(ctx, next); err != nil {
		return models.Agent{}, err
	}
	return agent.Clone(), nil
}

// ImportAgents appends every agent in one snapshot write
func (s *Store) ImportAgents(ctx context.Context, data []models.Agent) ([]models.Agent, error) {
	for i, a := range data {
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("agent %d: %w", i+1, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	added := make([]models.Agent, 0, len(data))
	for _, a := range data {
		agent := a.Clone()
		agent.ID = s.newID()
		if agent.Notes == nil {
			agent.Notes = map[models.Date]string{}
		}
		if agent.DaysOff == nil {
			agent.DaysOff = []models.Weekday{}
		}
		added = append(added, agent)
	}

	next := s.state
	next.Agents = append(append(make([]models.Agent, 0, len(s.state.Agents)+len(added)), s.state.Agents...), added...)
	if err := s.commit(ctx, next); err != nil {
		return nil, err
	}

	out := make([]models.Agent, len(added))
	for i, a := range added {
		out[i] = a.Clone()
	}
	return out, nil
}

// UpdateAgent replaces the agent with the same id
func (s *Store) UpdateAgent(ctx context.Context, agent models.Agent) (models.Agent, error) {
	if err := agent.Validate(); err != nil {
		return models.Agent{}, err
	}
	return s.modifyAgent(ctx, agent.ID, func(models.Agent) models.Agent {
		updated := agent.Clone()
		if updated.Notes == nil {
			updated.Notes = map[models.Date]string{}
		}
		if updated.DaysOff == nil {
			updated.DaysOff = []models.Weekday{}
		}
		return updated
	})
}

// DeleteAgent removes the agent with the given id
func (s *Store) DeleteAgent(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.agentIndex(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrAgentNotFound, id)
	}

	agents := make([]models.Agent, 0, len(s.state.Agents)-1)
	agents = append(agents, s.state.Agents[:idx]...)
	agents = append(agents, s.state.Agents[idx+1:]...)

	next := s.state
	next.Agents = agents
	return s.commit(ctx, next)
}

// AddAgentNote sets the note for date, replacing any existing note
func (s *Store) AddAgentNote(ctx context.Context, agentID string, date models.Date, note string) (models.Agent, error) {
	if _, err := models.ParseDate(string(date)); err != nil {
		return models.Agent{}, err
	}
	return s.modifyAgent(ctx, agentID, func(a models.Agent) models.Agent {
		out := a.Clone()
		if out.Notes == nil {
			out.Notes = map[models.Date]string{}
		}
		out.Notes[date] = note
		return out
	})
}

// RemoveAgentNote deletes the note for date. A missing date is not an error.
func (s *Store) RemoveAgentNote(ctx context.Context, agentID string, date models.Date) (models.Agent, error) {
	return s.modifyAgent(ctx, agentID, func(a models.Agent) models.Agent {
		out := a.Clone()
		delete(out.Notes, date)
		return out
	})
}

func (s *Store) modifyAgent(ctx context.Context, id string, fn func(models.Agent) models.Agent) (models.Agent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.agentIndex(id)
	if idx < 0 {
		return models.Agent{}, fmt.Errorf("%w: %s", ErrAgentNotFound, id)
	}

	updated := fn(s.state.Agents[idx])
	updated.ID = id

	agents := make([]models.Agent, len(s.state.Agents))
	copy(agents, s.state.Agents)
	agents[idx] = updated

	next := s.state
	next.Agents = agents
	if err := s.commit(ctx, next); err != nil {
		return models.Agent{}, err
	}
	return updated.Clone(), nil
}

func (s *Store) agentIndex(id string) int {
	for i, a := range s.state.Agents {
		if a.ID == id {
			return i
		}
	}
	return -1
}

// AddTeam assigns a fresh id to data and appends it
func (s *Store) AddTeam(ctx context.Context, data models.Team) (models.Team, error) {
	if err := data.Validate(); err != nil {
		return models.Team{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	team := data.Clone()
	team.ID = s.newID()
	if team.RequiredAgents == nil {
		team.RequiredAgents = emptyRequirements()
	}

	next := s.state
	next.Teams = append(append(make([]models.Team, 0, len(s.state.Teams)+1), s.state.Teams...), team)
	if err := s.commit(ctx, next); err != nil {
		return models.Team{}, err
	}
	return team.Clone(), nil
}

// UpdateTeam replaces the team with the same id
func (s *Store) UpdateTeam(ctx context.Context, team models.Team) (models.Team, error) {
	if err := team.Validate(); err != nil {
		return models.Team{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.teamIndex(team.ID)
	if idx < 0 {
		return models.Team{}, fmt.Errorf("%w: %s", ErrTeamNotFound, team.ID)
	}

	updated := team.Clone()
	if updated.RequiredAgents == nil {
		updated.RequiredAgents = emptyRequirements()
	}
	teams := make([]models.Team, len(s.state.Teams))
	copy(teams, s.state.Teams)
	teams[idx] = updated

	next := s.state
	next.Teams = teams
	if err := s.commit(ctx, next); err != nil {
		return models.Team{}, err
	}
	return updated.Clone(), nil
}

// DeleteTeam removes the team with the given id. Agents keep their team name.
func (s *Store) DeleteTeam(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.teamIndex(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrTeamNotFound, id)
	}

	teams := make([]models.Team, 0, len(s.state.Teams)-1)
	teams = append(teams, s.state.Teams[:idx]...)
	teams = append(teams, s.state.Teams[idx+1:]...)

	next := s.state
	next.Teams = teams
	return s.commit(ctx, next)
}

func (s *Store) teamIndex(id string) int {
	for i, t := range s.state.Teams {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func emptyRequirements() map[models.Weekday]models.ShiftCounts {
	req := make(map[models.Weekday]models.ShiftCounts, len(models.Weekdays))
	for _, day := range models.Weekdays {
		req[day] = models.ShiftCounts{}
	}
	return req
}

// GenerateSchedule builds the week containing start and replaces the
// stored schedule. On scheduler.ErrMissingPrerequisites nothing changes.
func (s *Store) GenerateSchedule(ctx context.Context, start models.Date) ([]models.ScheduleEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	schedule, err := scheduler.NewScheduler(s.state.Agents, s.state.Teams).Generate(start)
	if err != nil {
		return nil, err
	}

	next := s.state
	next.Schedule = schedule
	if err := s.commit(ctx, next); err != nil {
		return nil, err
	}

	out := make([]models.ScheduleEntry, len(schedule))
	for i, e := range schedule {
		out[i] = e.Clone()
	}
	return out, nil
}
