package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"circuitquest-service/internal/domain"
)

func TestTeamStoreFindMissing(t *testing.T) {
	store := NewTeamStore()
	if _, err := store.Find(context.Background(), "ghost"); !errors.Is(err, domain.ErrTeamNotFound) {
		t.Fatalf("expected ErrTeamNotFound, got %v", err)
	}
}

func TestTeamStoreUpdateCommitsOnSuccess(t *testing.T) {
	store := NewTeamStore()
	store.Put(domain.Team{ID: "t1", Name: "Alpha"})

	updated, err := store.Update(context.Background(), "t1", func(team *domain.Team) error {
		team.Round.TotalBalance = 1200
		team.Round.AnsweredQuestions = append(team.Round.AnsweredQuestions, "q1")
		return nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Round.TotalBalance != 1200 {
		t.Fatalf("expected balance 1200, got %d", updated.Round.TotalBalance)
	}

	found, err := store.Find(context.Background(), "t1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if !found.Round.HasAnswered("q1") {
		t.Fatal("expected committed answer set")
	}
}

func TestTeamStoreUpdateRollsBackOnError(t *testing.T) {
	store := NewTeamStore()
	store.Put(domain.Team{ID: "t1", Round: domain.RoundState{TotalBalance: 500}})

	boom := errors.New("boom")
	_, err := store.Update(context.Background(), "t1", func(team *domain.Team) error {
		team.Round.TotalBalance = 0
		team.Round.Submitted = true
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	found, _ := store.Find(context.Background(), "t1")
	if found.Round.TotalBalance != 500 || found.Round.Submitted {
		t.Fatalf("rejected update must leave state unchanged, got %+v", found.Round)
	}
}

func TestTeamStoreSerializesConcurrentUpdates(t *testing.T) {
	store := NewTeamStore()
	store.Put(domain.Team{ID: "t1"})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = store.Update(context.Background(), "t1", func(team *domain.Team) error {
				team.Round.EarnedAmount += 100
				return nil
			})
		}()
	}
	wg.Wait()

	found, _ := store.Find(context.Background(), "t1")
	if found.Round.EarnedAmount != 5000 {
		t.Fatalf("expected 5000 after 50 serialized updates, got %d", found.Round.EarnedAmount)
	}
}

func TestTeamStoreFindReturnsCopy(t *testing.T) {
	store := NewTeamStore()
	store.Put(domain.Team{ID: "t1", Round: domain.RoundState{AnsweredQuestions: []string{"q1"}}})

	found, _ := store.Find(context.Background(), "t1")
	found.Round.AnsweredQuestions[0] = "mutated"

	again, _ := store.Find(context.Background(), "t1")
	if again.Round.AnsweredQuestions[0] != "q1" {
		t.Fatal("Find must return an isolated copy")
	}
}
