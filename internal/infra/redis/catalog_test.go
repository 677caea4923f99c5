package redis

import (
	"context"
	"testing"
	"time"

	"circuitquest-service/internal/domain"
	"circuitquest-service/internal/infra/memory"
)

func TestCatalogCachesInRedis(t *testing.T) {
	mr, client := newTestRedis(t)
	defer mr.Close()

	loader := &countingLoader{
		CatalogLoader: memory.NewStaticCatalogLoader(sampleQuestions(), sampleComponents()),
	}
	catalog := NewCatalog(client, loader, time.Minute)
	ctx := context.Background()

	questions, err := catalog.FindActive(ctx, 12)
	if err != nil {
		t.Fatalf("find active: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("expected 2 active questions, got %d", len(questions))
	}
	if loader.questionCalls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.questionCalls)
	}
	if !mr.Exists(questionsKey) {
		t.Fatal("expected questions cached in redis")
	}

	// Second call hits the cache.
	if _, err := catalog.FindActive(ctx, 12); err != nil {
		t.Fatalf("find active 2: %v", err)
	}
	if loader.questionCalls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.questionCalls)
	}
}

func TestCatalogPreservesQuestionOrder(t *testing.T) {
	mr, client := newTestRedis(t)
	defer mr.Close()

	catalog := NewCatalog(client, memory.NewStaticCatalogLoader(sampleQuestions(), nil), time.Minute)
	ctx := context.Background()

	first, err := catalog.FindActive(ctx, 12)
	if err != nil {
		t.Fatalf("find active: %v", err)
	}
	second, err := catalog.FindActive(ctx, 12) // served from redis this time
	if err != nil {
		t.Fatalf("find active cached: %v", err)
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("cached order differs at %d: %s vs %s", i, first[i].ID, second[i].ID)
		}
	}
}

func TestCatalogResolvesComponents(t *testing.T) {
	mr, client := newTestRedis(t)
	defer mr.Close()

	catalog := NewCatalog(client, memory.NewStaticCatalogLoader(nil, sampleComponents()), time.Minute)
	ctx := context.Background()

	resolved, err := catalog.FindByIDs(ctx, []string{"c1", "c1", "missing"})
	if err != nil {
		t.Fatalf("find by ids: %v", err)
	}
	if len(resolved) != 1 {
		t.Fatalf("expected 1 resolved, got %d", len(resolved))
	}

	available, err := catalog.FindAvailable(ctx)
	if err != nil {
		t.Fatalf("find available: %v", err)
	}
	if len(available) != 1 {
		t.Fatalf("expected 1 available, got %d", len(available))
	}
}

type countingLoader struct {
	memory.CatalogLoader
	questionCalls int
}

func (l *countingLoader) LoadQuestions(ctx context.Context) ([]domain.Question, error) {
	l.questionCalls++
	return l.CatalogLoader.LoadQuestions(ctx)
}

func sampleQuestions() []domain.Question {
	return []domain.Question{
		{ID: "q1", Text: "first", Options: []string{"a", "b"}, Answer: "0", Active: true},
		{ID: "q2", Text: "free", Answer: "sensor", Active: true},
		{ID: "q3", Text: "retired", Answer: "old", Active: false},
	}
}

func sampleComponents() []domain.Component {
	return []domain.Component{
		{ID: "c1", Name: "Resistor", Type: "other", Price: 20, Available: true},
		{ID: "c2", Name: "Legacy", Type: "other", Price: 10, Available: false},
	}
}
