package redis

import (
	"context"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"finergy-service/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// TaskSetResolver resolves (creating on first access) the shared task set
// for a week. The docstore-backed challenge service satisfies this.
type TaskSetResolver interface {
	ResolveWeeklyTasks(ctx context.Context, weekNumber int) (domain.WeeklyTaskSet, error)
}

// TaskSetCache keeps weekly task sets in a Redis hash (index -> task text)
// in front of a resolver. Task sets are immutable once created, so a cache
// hit never needs invalidation; the TTL only bounds memory for old weeks.
type TaskSetCache struct {
	client   *redis.Client
	resolver TaskSetResolver
	ttl      time.Duration
	sf       singleflight.Group

	mu  sync.Mutex // guards rnd; fills for different weeks run concurrently
	rnd *rand.Rand
}

func NewTaskSetCache(client *redis.Client, resolver TaskSetResolver, ttl time.Duration) *TaskSetCache {
	return &TaskSetCache{
		client:   client,
		resolver: resolver,
		ttl:      ttl,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *TaskSetCache) ResolveWeeklyTasks(ctx context.Context, weekNumber int) (domain.WeeklyTaskSet, error) {
	key := c.key(weekNumber)

	cached, err := c.client.HGetAll(ctx, key).Result()
	if err == nil && len(cached) == domain.WeeklyTaskCount {
		return buildTaskSet(weekNumber, cached), nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		cached, err := c.client.HGetAll(ctx, key).Result()
		if err == nil && len(cached) == domain.WeeklyTaskCount {
			return buildTaskSet(weekNumber, cached), nil
		}

		set, err := c.resolver.ResolveWeeklyTasks(ctx, weekNumber)
		if err != nil {
			return domain.WeeklyTaskSet{}, err
		}

		pipe := c.client.Pipeline()
		for i, task := range set.Tasks {
			pipe.HSet(ctx, key, strconv.Itoa(i), task)
		}
		if ttl := c.ttlWithJitter(); ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
		_, _ = pipe.Exec(ctx)

		return set, nil
	})
	if err != nil {
		return domain.WeeklyTaskSet{}, err
	}
	return result.(domain.WeeklyTaskSet), nil
}

func (c *TaskSetCache) key(weekNumber int) string {
	return "week:" + strconv.Itoa(weekNumber) + ":tasks"
}

func buildTaskSet(weekNumber int, cached map[string]string) domain.WeeklyTaskSet {
	tasks := make([]string, domain.WeeklyTaskCount)
	for idxStr, task := range cached {
		idx, err := strconv.Atoi(idxStr)
		if err != nil || idx < 0 || idx >= domain.WeeklyTaskCount {
			continue
		}
		tasks[idx] = task
	}
	return domain.WeeklyTaskSet{WeekNumber: weekNumber, Tasks: tasks}
}

func (c *TaskSetCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	c.mu.Lock()
	jitter := c.rnd.Int63n(jitterMax + 1)
	c.mu.Unlock()
	return c.ttl + time.Duration(jitter)
}
