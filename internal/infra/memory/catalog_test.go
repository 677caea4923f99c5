package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"circuitquest-service/internal/domain"
)

func TestCatalogCaches(t *testing.T) {
	loader := &countingLoader{CatalogLoader: NewStaticCatalogLoader(sampleQuestions(), sampleComponents())}
	catalog := NewCatalog(loader, time.Minute)

	if _, err := catalog.FindActive(context.Background(), 12); err != nil {
		t.Fatalf("find active: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	if _, err := catalog.FindAvailable(context.Background()); err != nil {
		t.Fatalf("find available: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
}

func TestCatalogFindActiveFiltersAndCaps(t *testing.T) {
	catalog := NewCatalog(NewStaticCatalogLoader(sampleQuestions(), nil), time.Minute)

	active, err := catalog.FindActive(context.Background(), 2)
	if err != nil {
		t.Fatalf("find active: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("expected cap of 2, got %d", len(active))
	}
	if active[0].ID != "q1" || active[1].ID != "q3" {
		t.Fatalf("expected stable order skipping inactive, got %v", []string{active[0].ID, active[1].ID})
	}
}

func TestCatalogFindByID(t *testing.T) {
	catalog := NewCatalog(NewStaticCatalogLoader(sampleQuestions(), nil), time.Minute)

	q, err := catalog.FindByID(context.Background(), "q3")
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if q.ID != "q3" {
		t.Fatalf("expected q3, got %s", q.ID)
	}

	if _, err := catalog.FindByID(context.Background(), "missing"); !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected ErrQuestionNotFound, got %v", err)
	}
}

func TestCatalogFindByIDsDeduplicates(t *testing.T) {
	catalog := NewCatalog(NewStaticCatalogLoader(nil, sampleComponents()), time.Minute)

	resolved, err := catalog.FindByIDs(context.Background(), []string{"c1", "c1", "c2", "ghost"})
	if err != nil {
		t.Fatalf("find by ids: %v", err)
	}
	if len(resolved) != 2 {
		t.Fatalf("expected 2 resolved (dupes and unknowns dropped), got %d", len(resolved))
	}
}

type countingLoader struct {
	CatalogLoader
	calls int
}

func (l *countingLoader) LoadQuestions(ctx context.Context) ([]domain.Question, error) {
	l.calls++
	return l.CatalogLoader.LoadQuestions(ctx)
}

func sampleQuestions() []domain.Question {
	return []domain.Question{
		{ID: "q1", Text: "first", Options: []string{"a", "b"}, Answer: "0", Active: true},
		{ID: "q2", Text: "retired", Options: []string{"a", "b"}, Answer: "1", Active: false},
		{ID: "q3", Text: "second", Answer: "sensor", Active: true},
		{ID: "q4", Text: "third", Options: []string{"x", "y"}, Answer: "1", Active: true},
	}
}

func sampleComponents() []domain.Component {
	return []domain.Component{
		{ID: "c1", Name: "Resistor", Type: "other", Price: 20, Available: true},
		{ID: "c2", Name: "Diode", Type: "other", Price: 40, Available: true},
		{ID: "c3", Name: "Legacy Part", Type: "other", Price: 10, Available: false},
	}
}
