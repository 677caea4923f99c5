package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"circuitquest-service/internal/domain"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestTeamStoreRoundTrip(t *testing.T) {
	mr, client := newTestRedis(t)
	defer mr.Close()
	store := NewTeamStore(client, time.Hour)
	ctx := context.Background()

	if err := store.Put(ctx, domain.Team{ID: "t1", Name: "Alpha"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if !mr.Exists("team:t1") {
		t.Fatal("expected team key in redis")
	}

	team, err := store.Find(ctx, "t1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if team.Name != "Alpha" {
		t.Fatalf("expected Alpha, got %q", team.Name)
	}

	if _, err := store.Find(ctx, "ghost"); !errors.Is(err, domain.ErrTeamNotFound) {
		t.Fatalf("expected ErrTeamNotFound, got %v", err)
	}
}

func TestTeamStoreUpdateCommits(t *testing.T) {
	mr, client := newTestRedis(t)
	defer mr.Close()
	store := NewTeamStore(client, time.Hour)
	ctx := context.Background()

	if err := store.Put(ctx, domain.Team{ID: "t1"}); err != nil {
		t.Fatalf("put: %v", err)
	}

	updated, err := store.Update(ctx, "t1", func(team *domain.Team) error {
		team.Round.TotalBalance = 1200
		team.Round.AnsweredQuestions = append(team.Round.AnsweredQuestions, "q1")
		return nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Round.TotalBalance != 1200 {
		t.Fatalf("expected 1200, got %d", updated.Round.TotalBalance)
	}

	found, err := store.Find(ctx, "t1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if !found.Round.HasAnswered("q1") || found.Round.TotalBalance != 1200 {
		t.Fatalf("expected committed state, got %+v", found.Round)
	}
}

func TestTeamStoreUpdateAbortsOnMutateError(t *testing.T) {
	mr, client := newTestRedis(t)
	defer mr.Close()
	store := NewTeamStore(client, time.Hour)
	ctx := context.Background()

	if err := store.Put(ctx, domain.Team{ID: "t1", Round: domain.RoundState{TotalBalance: 700}}); err != nil {
		t.Fatalf("put: %v", err)
	}

	_, err := store.Update(ctx, "t1", func(team *domain.Team) error {
		team.Round.TotalBalance = 0
		return domain.ErrAlreadySubmitted
	})
	if !errors.Is(err, domain.ErrAlreadySubmitted) {
		t.Fatalf("expected ErrAlreadySubmitted, got %v", err)
	}

	found, _ := store.Find(ctx, "t1")
	if found.Round.TotalBalance != 700 {
		t.Fatalf("aborted update must not write, got %+v", found.Round)
	}
}

func TestTeamStoreUpdateMissingTeam(t *testing.T) {
	mr, client := newTestRedis(t)
	defer mr.Close()
	store := NewTeamStore(client, time.Hour)

	_, err := store.Update(context.Background(), "ghost", func(*domain.Team) error { return nil })
	if !errors.Is(err, domain.ErrTeamNotFound) {
		t.Fatalf("expected ErrTeamNotFound, got %v", err)
	}
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}
