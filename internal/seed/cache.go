package seed

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/user-directory/internal/directory"
	"github.com/user-directory/internal/metrics"
	"github.com/user-directory/internal/models"
)

// CachedSource shares one fetched payload across sessions for ttl. Each
// caller receives its own copy, so sessions never alias each other's data.
// Failures are not cached.
type CachedSource struct {
	inner   directory.Source
	ttl     time.Duration
	metrics metrics.Recorder
	log     zerolog.Logger
	now     func() time.Time

	mu        sync.Mutex
	users     []models.User
	fetchedAt time.Time
}

// Verify interface compliance
var _ directory.Source = (*CachedSource)(nil)

// NewCachedSource wraps inner. A ttl of zero or less disables caching.
func NewCachedSource(inner directory.Source, ttl time.Duration, rec metrics.Recorder, log zerolog.Logger) *CachedSource {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &CachedSource{
		inner:   inner,
		ttl:     ttl,
		metrics: rec,
		log:     log.With().Str("component", "seed_cache").Logger(),
		now:     time.Now,
	}
}

// Fetch returns the cached payload if still fresh, otherwise fetches anew.
// Concurrent callers on a cold cache wait for a single fetch.
func (c *CachedSource) Fetch(ctx context.Context) ([]models.User, error) {
	if c.ttl <= 0 {
		return c.inner.Fetch(ctx)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.users != nil && c.now().Sub(c.fetchedAt) < c.ttl {
		c.metrics.RecordSeedCacheHit()
		return cloneUsers(c.users), nil
	}

	users, err := c.inner.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	c.users = cloneUsers(users)
	c.fetchedAt = c.now()
	c.log.Debug().Int("count", len(users)).Dur("ttl", c.ttl).Msg("Seed cached")

	return cloneUsers(c.users), nil
}

// Invalidate drops the cached payload
func (c *CachedSource) Invalidate() {
	c.mu.Lock()
	c.users = nil
	c.mu.Unlock()
}

func cloneUsers(users []models.User) []models.User {
	out := make([]models.User, len(users))
	copy(out, users)
	return out
}
