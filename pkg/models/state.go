package models

import "fmt"

// LanguageTag identifies a supported display language
type LanguageTag string

const (
	English LanguageTag = "en"
	Spanish LanguageTag = "es"
)

// DefaultLanguage is used when no preference has been stored
const DefaultLanguage = English

// ParseLanguageTag accepts only the supported two-letter tags
func ParseLanguageTag(s string) (LanguageTag, error) {
	switch LanguageTag(s) {
	case English, Spanish:
		return LanguageTag(s), nil
	}
	return "", fmt.Errorf("%w: unsupported language %q", ErrInvalid, s)
}

// Language is the active tag plus the translation tables
type Language struct {
	Current      LanguageTag                       `json:"current"`
	Translations map[LanguageTag]map[string]string `json:"translations"`
}

// AppState is the full persisted snapshot
type AppState struct {
	Agents   []Agent         `json:"agents"`
	Teams    []Team          `json:"teams"`
	Schedule []ScheduleEntry `json:"schedule"`
	Language Language        `json:"language"`
}

// EmptyState returns the default snapshot with empty collections
func EmptyState() AppState {
	return AppState{
		Agents:   []Agent{},
		Teams:    []Team{},
		Schedule: []ScheduleEntry{},
		Language: Language{
			Current: DefaultLanguage,
			Translations: map[LanguageTag]map[string]string{
				English: {},
				Spanish: {},
			},
		},
	}
}

// Validate checks every agent and team in the snapshot
func (s AppState) Validate() error {
	for _, a := range s.Agents {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("agent %s: %w", a.ID, err)
		}
	}
	for _, t := range s.Teams {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("team %s: %w", t.ID, err)
		}
	}
	for _, e := range s.Schedule {
		for date, asg := range e.Shifts {
			if !asg.Shift.Valid() {
				return fmt.Errorf("%w: schedule entry %s has unknown shift %q on %s", ErrInvalid, e.AgentID, asg.Shift, date)
			}
		}
	}
	if s.Language.Current != "" {
		if _, err := ParseLanguageTag(string(s.Language.Current)); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a deep copy of the snapshot
func (s AppState) Clone() AppState {
	out := AppState{
		Agents:   make([]Agent, len(s.Agents)),
		Teams:    make([]Team, len(s.Teams)),
		Schedule: make([]ScheduleEntry, len(s.Schedule)),
		Language: Language{Current: s.Language.Current},
	}
	for i, a := range s.Agents {
		out.Agents[i] = a.Clone()
	}
	for i, t := range s.Teams {
		out.Teams[i] = t.Clone()
	}
	for i, e := range s.Schedule {
		out.Schedule[i] = e.Clone()
	}
	if s.Language.Translations != nil {
		out.Language.Translations = make(map[LanguageTag]map[string]string, len(s.Language.Translations))
		for tag, table := range s.Language.Translations {
			copied := make(map[string]string, len(table))
			for k, v := range table {
				copied[k] = v
			}
			out.Language.Translations[tag] = copied
		}
	}
	return out
}
