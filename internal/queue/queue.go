// Package queue hands reconciliation runs from the API to the workers over a
// Redis list.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrEmpty is returned by Dequeue when no job arrived before the timeout.
var ErrEmpty = errors.New("queue empty")

type Job struct {
	RunID      uuid.UUID `json:"run_id"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

type Options struct {
	URL      string
	Address  string
	Password string
	DB       int
}

type cmdable interface {
	LPush(ctx context.Context, key string, values ...any) *redis.IntCmd
	BRPop(ctx context.Context, timeout time.Duration, keys ...string) *redis.StringSliceCmd
	LLen(ctx context.Context, key string) *redis.IntCmd
}

// Queue is a FIFO of jobs: producers push on the left, workers pop on the
// right.
type Queue struct {
	store cmdable
	key   string
	now   func() time.Time
}

// Connect opens a Redis client and verifies it answers.
func Connect(ctx context.Context, opts Options) (*redis.Client, error) {
	ro, err := redisOptions(opts)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(ro)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}

func redisOptions(opts Options) (*redis.Options, error) {
	if opts.URL == "" && opts.Address == "" {
		return nil, errors.New("redis url or address is required")
	}

	if opts.URL == "" {
		return &redis.Options{Addr: opts.Address, Password: opts.Password, DB: opts.DB}, nil
	}

	parsed, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}

	if parsed.DB == 0 {
		parsed.DB = opts.DB
	}

	return parsed, nil
}

func New(client *redis.Client, key string) *Queue {
	return &Queue{store: client, key: key, now: time.Now}
}

func (q *Queue) Enqueue(ctx context.Context, runID uuid.UUID) error {
	payload, err := json.Marshal(Job{RunID: runID, EnqueuedAt: q.now().UTC()})
	if err != nil {
		return fmt.Errorf("encoding job: %w", err)
	}

	if err := q.store.LPush(ctx, q.key, payload).Err(); err != nil {
		return fmt.Errorf("pushing job: %w", err)
	}

	return nil
}

// Dequeue blocks up to timeout for the next job.
func (q *Queue) Dequeue(ctx context.Context, timeout time.Duration) (*Job, error) {
	res, err := q.store.BRPop(ctx, timeout, q.key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrEmpty
	}

	if err != nil {
		return nil, fmt.Errorf("popping job: %w", err)
	}

	// BRPOP answers [key, value].
	if len(res) != 2 {
		return nil, fmt.Errorf("unexpected pop reply of %d elements", len(res))
	}

	var job Job
	if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
		return nil, fmt.Errorf("decoding job: %w", err)
	}

	return &job, nil
}

func (q *Queue) Len(ctx context.Context) (int64, error) {
	return q.store.LLen(ctx, q.key).Result()
}
