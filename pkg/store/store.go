// Package store owns the roster, schedule and language state and persists
// the whole snapshot to a storage.Slot after every successful mutation.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/arnavshah/w2w/pkg/i18n"
	"github.com/arnavshah/w2w/pkg/models"
	"github.com/arnavshah/w2w/pkg/storage"
	"github.com/google/uuid"
)

const (
	// StateKey holds the JSON snapshot
	StateKey = "w2w-state"
	// LanguageKey holds the bare two-letter language tag
	LanguageKey = "w2w-language"
)

var (
	ErrAgentNotFound = errors.New("agent not found")
	ErrTeamNotFound  = errors.New("team not found")
)

// Store holds the current snapshot. All mutations are serialized.
type Store struct {
	mu      sync.Mutex
	slot    storage.Slot
	catalog *i18n.Catalog
	state   models.AppState
	newID   func() string
}

// Open loads the persisted snapshot from slot. A missing or unreadable
// snapshot falls back to empty collections; only slot I/O errors fail.
func Open(ctx context.Context, slot storage.Slot, catalog *i18n.Catalog) (*Store, error) {
	if slot == nil {
		return nil, fmt.Errorf("storage slot is required")
	}
	if catalog == nil {
		catalog = i18n.Default()
	}

	s := &Store{
		slot:    slot,
		catalog: catalog,
		state:   models.EmptyState(),
		newID:   uuid.NewString,
	}

	data, err := slot.Get(ctx, StateKey)
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case err != nil:
		return nil, fmt.Errorf("load state: %w", err)
	default:
		loaded, err := decodeState(data)
		if err != nil {
			log.Printf("discarding saved state: %v", err)
		} else {
			s.state = loaded
		}
	}

	lang, err := slot.Get(ctx, LanguageKey)
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case err != nil:
		return nil, fmt.Errorf("load language: %w", err)
	default:
		if tag, err := models.ParseLanguageTag(strings.TrimSpace(string(lang))); err == nil {
			s.state.Language.Current = tag
		}
	}

	if s.state.Language.Current == "" {
		s.state.Language.Current = models.DefaultLanguage
	}
	s.state.Language.Translations = catalog.Tables()
	return s, nil
}

func decodeState(data []byte) (models.AppState, error) {
	var st models.AppState
	if err := json.Unmarshal(data, &st); err != nil {
		return models.AppState{}, fmt.Errorf("parse saved state: %w", err)
	}
	if err := st.Validate(); err != nil {
		return models.AppState{}, err
	}
	if st.Agents == nil {
		st.Agents = []models.Agent{}
	}
	if st.Teams == nil {
		st.Teams = []models.Team{}
	}
	if st.Schedule == nil {
		st.Schedule = []models.ScheduleEntry{}
	}
	return st, nil
}

// commit persists next and swaps it in. The caller must hold s.mu.
// A failed write leaves the current snapshot in place.
func (s *Store) commit(ctx context.Context, next models.AppState) error {
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := s.slot.Put(ctx, StateKey, data); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	s.state = next
	return nil
}

// State returns a deep copy of the current snapshot
func (s *Store) State() models.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Agents returns a copy of the roster in insertion order
func (s *Store) Agents() []models.Agent {
	return s.State().Agents
}

// Teams returns a copy of the teams in insertion order
func (s *Store) Teams() []models.Team {
	return s.State().Teams
}

// Schedule returns a copy of the last generated schedule
func (s *Store) Schedule() []models.ScheduleEntry {
	return s.State().Schedule
}

// Language returns the active language tag
func (s *Store) Language() models.LanguageTag {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Language.Current
}

// Translator returns a lookup bound to the active language
func (s *Store) Translator() func(key string) string {
	return s.catalog.Translator(s.Language())
}

// Catalog returns the translation catalog the store was opened with
func (s *Store) Catalog() *i18n.Catalog {
	return s.catalog
}

// SetLanguage switches the active language and persists both the
// snapshot and the bare tag
func (s *Store) SetLanguage(ctx context.Context, tag models.LanguageTag) error {
	if _, err := models.ParseLanguageTag(string(tag)); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.state
	next := s.state
	next.Language = models.Language{Current: tag, Translations: s.state.Language.Translations}
	if err := s.commit(ctx, next); err != nil {
		return err
	}
	// Open prefers the bare key, so a failed key write restores the snapshot
	if err := s.slot.Put(ctx, LanguageKey, []byte(tag)); err != nil {
		if rbErr := s.commit(ctx, prev); rbErr != nil {
			log.Printf("restore language after failed write: %v", rbErr)
		}
		return fmt.Errorf("save language: %w", err)
	}
	return nil
}
