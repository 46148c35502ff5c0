package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/arnavshah/w2w/pkg/models"
)

// ParseAgentsCSV reads a header-led roster. Missing availability columns
// default to available.
func ParseAgentsCSV(r io.Reader) ([]models.Agent, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read agents header: %w", err)
	}
	cols := make(map[string]int)
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := cols["name"]; !ok {
		return nil, fmt.Errorf("%w: agents file needs a name column", models.ErrInvalid)
	}

	field := func(record []string, col string) string {
		i, ok := cols[col]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}
	flag := func(record []string, col string, line int) (bool, error) {
		v := field(record, col)
		if v == "" {
			return true, nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return false, fmt.Errorf("%w: line %d: %s %q", models.ErrInvalid, line, col, v)
		}
		return b, nil
	}

	var agents []models.Agent
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		agent := models.Agent{
			Name:    field(record, "name"),
			Team:    field(record, "team"),
			DaysOff: []models.Weekday{},
			Notes:   map[models.Date]string{},
		}

		if days := field(record, "days_off"); days != "" {
			for _, part := range strings.Split(days, "|") {
				n, err := strconv.Atoi(strings.TrimSpace(part))
				if err != nil {
					return nil, fmt.Errorf("%w: line %d: day off %q", models.ErrInvalid, line, part)
				}
				day, err := models.ParseWeekday(n)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", line, err)
				}
				agent.DaysOff = append(agent.DaysOff, day)
			}
		}

		if agent.Availability.Morning, err = flag(record, "morning", line); err != nil {
			return nil, err
		}
		if agent.Availability.Afternoon, err = flag(record, "afternoon", line); err != nil {
			return nil, err
		}
		if agent.Availability.Night, err = flag(record, "night", line); err != nil {
			return nil, err
		}

		if err := agent.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		agents = append(agents, agent)
	}
	return agents, nil
}
