package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"circuitquest-service/internal/domain"
	"circuitquest-service/internal/infra/memory"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const (
	questionsKey  = "catalog:questions"
	componentsKey = "catalog:components"
)

// Catalog caches the question set and component catalog in Redis as JSON
// arrays (arrays, not hashes: bulk scoring depends on stable question order)
// and falls back to a loader on cache miss.
type Catalog struct {
	client *redis.Client
	loader memory.CatalogLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewCatalog(client *redis.Client, loader memory.CatalogLoader, ttl time.Duration) *Catalog {
	return &Catalog{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *Catalog) FindActive(ctx context.Context, limit int) ([]domain.Question, error) {
	questions, err := c.loadQuestions(ctx)
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
	questions, err := c.loadQuestions(ctx)
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
	components, err := c.loadComponents(ctx)
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

func (c *Catalog) FindByIDs(ctx context.Context, componentIDs []string) ([]domain.Component, error) {
	components, err := c.loadComponents(ctx)
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

func (c *Catalog) loadQuestions(ctx context.Context) ([]domain.Question, error) {
	var questions []domain.Question
	err := c.cached(ctx, questionsKey, &questions, func() (interface{}, error) {
		return c.loader.LoadQuestions(ctx)
	})
	return questions, err
}

func (c *Catalog) loadComponents(ctx context.Context) ([]domain.Component, error) {
	var components []domain.Component
	err := c.cached(ctx, componentsKey, &components, func() (interface{}, error) {
		return c.loader.LoadComponents(ctx)
	})
	return components, err
}

// cached reads key into out, filling it from load (singleflighted) on miss.
func (c *Catalog) cached(ctx context.Context, key string, out interface{}, load func() (interface{}, error)) error {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		return json.Unmarshal(raw, out)
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		raw, err := c.client.Get(ctx, key).Bytes()
		if err == nil {
			return raw, nil
		}

		loaded, err := load()
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(loaded)
		if err != nil {
			return nil, fmt.Errorf("marshal catalog: %w", err)
		}
		// Best-effort cache fill; losing it only costs a reload.
		_ = c.client.Set(ctx, key, data, c.ttlWithJitter()).Err()
		return data, nil
	})
	if err != nil {
		return err
	}
	return json.Unmarshal(result.([]byte), out)
}

func (c *Catalog) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
