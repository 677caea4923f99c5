package memory

import (
	"context"
	"sync"

	"circuitquest-service/internal/domain"
)

// TeamStore is an in-memory implementation of app.TeamStore. Updates to the
// same team are serialized on a per-record mutex so concurrent submissions
// cannot interleave a read-modify-write.
type TeamStore struct {
	mu    sync.RWMutex
	teams map[string]*teamRecord
}

type teamRecord struct {
	mu   sync.Mutex
	team domain.Team
}

func NewTeamStore() *TeamStore {
	return &TeamStore{teams: make(map[string]*teamRecord)}
}

// Put registers or replaces a team record. Registration itself is outside the
// round core; this is the seam the registration flow (and tests) use.
func (s *TeamStore) Put(team domain.Team) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teams[team.ID] = &teamRecord{team: cloneTeam(team)}
}

func (s *TeamStore) Find(_ context.Context, teamID string) (domain.Team, error) {
	record, ok := s.record(teamID)
	if !ok {
		return domain.Team{}, domain.ErrTeamNotFound
	}
	record.mu.Lock()
	defer record.mu.Unlock()
	return cloneTeam(record.team), nil
}

// Update applies mutate to a copy of the stored team and commits the copy only
// if mutate succeeds, so a rejected transition leaves the record untouched.
func (s *TeamStore) Update(_ context.Context, teamID string, mutate func(*domain.Team) error) (domain.Team, error) {
	record, ok := s.record(teamID)
	if !ok {
		return domain.Team{}, domain.ErrTeamNotFound
	}

	record.mu.Lock()
	defer record.mu.Unlock()

	updated := cloneTeam(record.team)
	if err := mutate(&updated); err != nil {
		return domain.Team{}, err
	}
	record.team = updated
	return cloneTeam(updated), nil
}

func (s *TeamStore) record(teamID string) (*teamRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.teams[teamID]
	return record, ok
}

func cloneTeam(t domain.Team) domain.Team {
	clone := t
	clone.Round.AnsweredQuestions = append([]string(nil), t.Round.AnsweredQuestions...)
	clone.Round.PurchasedComponents = append([]domain.PurchasedComponent(nil), t.Round.PurchasedComponents...)
	return clone
}
