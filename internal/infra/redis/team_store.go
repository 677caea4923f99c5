package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"circuitquest-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

// maxUpdateRetries bounds the optimistic-concurrency retry loop.
const maxUpdateRetries = 5

// TeamStore keeps each team as a JSON blob under team:{id}. Update runs as a
// WATCH/MULTI/EXEC transaction: if another writer commits the same team while
// mutate runs, the transaction aborts and the whole read-validate-mutate cycle
// retries against the fresh record, so stale validations never commit.
type TeamStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewTeamStore(client *redis.Client, ttl time.Duration) *TeamStore {
	return &TeamStore{client: client, ttl: ttl}
}

// Put registers or replaces a team record (registration flow and seeding).
func (s *TeamStore) Put(ctx context.Context, team domain.Team) error {
	data, err := json.Marshal(team)
	if err != nil {
		return fmt.Errorf("marshal team: %w", err)
	}
	if err := s.client.Set(ctx, s.key(team.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("store team: %w", err)
	}
	return nil
}

func (s *TeamStore) Find(ctx context.Context, teamID string) (domain.Team, error) {
	raw, err := s.client.Get(ctx, s.key(teamID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Team{}, domain.ErrTeamNotFound
	}
	if err != nil {
		return domain.Team{}, fmt.Errorf("load team: %w", err)
	}
	var team domain.Team
	if err := json.Unmarshal(raw, &team); err != nil {
		return domain.Team{}, fmt.Errorf("unmarshal team: %w", err)
	}
	return team, nil
}

func (s *TeamStore) Update(ctx context.Context, teamID string, mutate func(*domain.Team) error) (domain.Team, error) {
	key := s.key(teamID)
	var updated domain.Team

	txn := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return domain.ErrTeamNotFound
		}
		if err != nil {
			return fmt.Errorf("load team: %w", err)
		}

		var team domain.Team
		if err := json.Unmarshal(raw, &team); err != nil {
			return fmt.Errorf("unmarshal team: %w", err)
		}
		if err := mutate(&team); err != nil {
			return err
		}

		data, err := json.Marshal(team)
		if err != nil {
			return fmt.Errorf("marshal team: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, s.ttl)
			return nil
		})
		if err != nil {
			return err
		}
		updated = team
		return nil
	}

	for attempt := 0; attempt < maxUpdateRetries; attempt++ {
		err := s.client.Watch(ctx, txn, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return domain.Team{}, err
		}
		return updated, nil
	}
	return domain.Team{}, fmt.Errorf("update team %s: too many concurrent writes", teamID)
}

func (s *TeamStore) key(teamID string) string {
	return "team:" + teamID
}
