// Package worker executes queued reconciliation runs.
package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/cruce/internal/logger"
	"github.com/MrJamesThe3rd/cruce/internal/queue"
)

const (
	OutcomeExecuted = "executed"
	OutcomeFailed   = "failed"
	OutcomeLocked   = "locked"
	OutcomePanic    = "panic"
)

// ErrLocked means another slot already holds the run.
var ErrLocked = errors.New("run is locked")

//go:generate mockgen -source=worker.go -destination=worker_mock.go -package=worker
type Source interface {
	Dequeue(ctx context.Context, timeout time.Duration) (*queue.Job, error)
}

type Executor interface {
	ExecuteRun(ctx context.Context, id uuid.UUID) bool
}

// Locker takes an exclusive lease on key. The returned func releases it.
type Locker interface {
	Lock(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, error)
}

type Observer interface {
	ObserveJob(outcome string)
}

type Options struct {
	Concurrency int
	LockTTL     time.Duration
	PollTimeout time.Duration
	// RetryDelay is the pause after a failed dequeue.
	RetryDelay time.Duration
}

type Pool struct {
	source   Source
	locker   Locker
	exec     Executor
	log      *logger.Logger
	observer Observer
	opts     Options
}

func NewPool(source Source, locker Locker, exec Executor, log *logger.Logger, observer Observer, opts Options) *Pool {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}

	if opts.PollTimeout <= 0 {
		opts.PollTimeout = 5 * time.Second
	}

	if opts.RetryDelay <= 0 {
		opts.RetryDelay = time.Second
	}

	return &Pool{
		source:   source,
		locker:   locker,
		exec:     exec,
		log:      log,
		observer: observer,
		opts:     opts,
	}
}

// LockKey is the lock held while a run executes.
func LockKey(runID uuid.UUID) string {
	return "cruce:run:" + runID.String()
}

// Run starts the slots and blocks until ctx is cancelled. A failed run never
// stops the pool.
func (p *Pool) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	for slot := range p.opts.Concurrency {
		g.Go(func() error {
			p.loop(p.log.WithField(gctx, "slot", slot))
			return nil
		})
	}

	return g.Wait()
}

func (p *Pool) loop(ctx context.Context) {
	p.log.Debug(ctx, "worker slot started")

	for ctx.Err() == nil {
		job, err := p.source.Dequeue(ctx, p.opts.PollTimeout)

		switch {
		case ctx.Err() != nil:
			return
		case errors.Is(err, queue.ErrEmpty):
			continue
		case err != nil:
			p.log.Warn(ctx, "dequeue failed", err)

			select {
			case <-ctx.Done():
				return
			case <-time.After(p.opts.RetryDelay):
			}

			continue
		}

		p.Handle(ctx, job)
	}
}

// Handle executes one job under the run lock and returns the outcome.
func (p *Pool) Handle(ctx context.Context, job *queue.Job) (outcome string) {
	ctx = p.log.WithFields(ctx, map[string]any{
		"run_id":     job.RunID.String(),
		"queued_for": time.Since(job.EnqueuedAt).String(),
	})

	defer func() {
		if r := recover(); r != nil {
			p.log.Error(ctx, "run execution panicked", fmt.Errorf("%v", r))
			outcome = OutcomePanic
		}

		if p.observer != nil {
			p.observer.ObserveJob(outcome)
		}
	}()

	release, err := p.locker.Lock(ctx, LockKey(job.RunID), p.opts.LockTTL)
	if errors.Is(err, ErrLocked) {
		p.log.Info(ctx, "run already executing elsewhere")
		return OutcomeLocked
	}

	if err != nil {
		p.log.Error(ctx, "obtaining run lock", err)
		return OutcomeFailed
	}

	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			p.log.Warn(ctx, "releasing run lock", err)
		}
	}()

	if !p.exec.ExecuteRun(ctx, job.RunID) {
		return OutcomeFailed
	}

	return OutcomeExecuted
}

// RedisLocker implements Locker on top of redislock.
type RedisLocker struct {
	client *redislock.Client
}

func NewRedisLocker(client redislock.RedisClient) *RedisLocker {
	return &RedisLocker{client: redislock.New(client)}
}

func (l *RedisLocker) Lock(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, error) {
	lock, err := l.client.Obtain(ctx, key, ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, ErrLocked
	}

	if err != nil {
		return nil, fmt.Errorf("obtaining lock %s: %w", key, err)
	}

	return lock.Release, nil
}
