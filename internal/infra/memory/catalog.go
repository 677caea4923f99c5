package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"circuitquest-service/internal/domain"
	"golang.org/x/sync/singleflight"
)

// CatalogLoader fetches quiz questions and the component catalog from a
// backing store (Postgres in production).
type CatalogLoader interface {
	LoadQuestions(ctx context.Context) ([]domain.Question, error)
	LoadComponents(ctx context.Context) ([]domain.Component, error)
}

// Catalog caches the question set and component catalog with TTL to avoid
// repeated DB hits. Entries are immutable once read for scoring.
type Catalog struct {
	loader CatalogLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu         sync.RWMutex
	questions  []domain.Question
	components []domain.Component
	expiresAt  time.Time
}

func NewCatalog(loader CatalogLoader, ttl time.Duration) *Catalog {
	return &Catalog{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// FindActive returns active questions in stable (creation) order, capped to limit.
func (c *Catalog) FindActive(ctx context.Context, limit int) ([]domain.Question, error) {
	questions, _, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	active := make([]domain.Question, 0, limit)
	for _, q := range questions {
		if !q.Active {
			continue
		}
		active = append(active, q)
		if limit > 0 && len(active) == limit {
			break
		}
	}
	return active, nil
}

func (c *Catalog) FindByID(ctx context.Context, questionID string) (domain.Question, error) {
	questions, _, err := c.load(ctx)
	if err != nil {
		return domain.Question{}, err
	}
	for _, q := range questions {
		if q.ID == questionID {
			return q, nil
		}
	}
	return domain.Question{}, domain.ErrQuestionNotFound
}

func (c *Catalog) FindAvailable(ctx context.Context) ([]domain.Component, error) {
	_, components, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	available := make([]domain.Component, 0, len(components))
	for _, comp := range components {
		if comp.Available {
			available = append(available, comp)
		}
	}
	return available, nil
}

// FindByIDs resolves each distinct requested ID at most once; duplicated or
// unknown IDs therefore shrink the result, which callers detect as a count
// mismatch.
func (c *Catalog) FindByIDs(ctx context.Context, componentIDs []string) ([]domain.Component, error) {
	_, components, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	requested := make(map[string]struct{}, len(componentIDs))
	for _, id := range componentIDs {
		requested[id] = struct{}{}
	}
	resolved := make([]domain.Component, 0, len(requested))
	for _, comp := range components {
		if _, ok := requested[comp.ID]; ok {
			resolved = append(resolved, comp)
		}
	}
	return resolved, nil
}

func (c *Catalog) load(ctx context.Context) ([]domain.Question, []domain.Component, error) {
	now := c.clock()

	c.mu.RLock()
	if c.expiresAt.After(now) {
		questions, components := c.questions, c.components
		c.mu.RUnlock()
		return questions, components, nil
	}
	c.mu.RUnlock()

	type loaded struct {
		questions  []domain.Question
		components []domain.Component
	}
	result, err, _ := c.sf.Do("catalog", func() (interface{}, error) {
		now := c.clock()
		c.mu.RLock()
		if c.expiresAt.After(now) {
			entry := loaded{c.questions, c.components}
			c.mu.RUnlock()
			return entry, nil
		}
		c.mu.RUnlock()

		questions, err := c.loader.LoadQuestions(ctx)
		if err != nil {
			return loaded{}, err
		}
		components, err := c.loader.LoadComponents(ctx)
		if err != nil {
			return loaded{}, err
		}

		c.mu.Lock()
		c.questions = questions
		c.components = components
		c.expiresAt = now.Add(c.ttlWithJitter())
		c.mu.Unlock()
		return loaded{questions, components}, nil
	})
	if err != nil {
		return nil, nil, err
	}
	entry := result.(loaded)
	return entry.questions, entry.components, nil
}

func (c *Catalog) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}

// StaticCatalogLoader is a loader backed by in-memory slices (tests/demos).
type StaticCatalogLoader struct {
	Questions  []domain.Question
	Components []domain.Component
}

func NewStaticCatalogLoader(questions []domain.Question, components []domain.Component) *StaticCatalogLoader {
	return &StaticCatalogLoader{Questions: questions, Components: components}
}

func (l *StaticCatalogLoader) LoadQuestions(context.Context) ([]domain.Question, error) {
	return l.Questions, nil
}

func (l *StaticCatalogLoader) LoadComponents(context.Context) ([]domain.Component, error) {
	return l.Components, nil
}
