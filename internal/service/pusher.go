package service

import (
	"context"
	"log"
	"sync"
	"time"

	"alcyxob/gym-tracker/internal/auth"
	"alcyxob/gym-tracker/internal/config"
	"alcyxob/gym-tracker/internal/domain"

	"golang.org/x/time/rate"
)

// Pusher hands local commits to the remote mirror without making the caller wait.
// Scheduling never blocks and never reports the outcome.
type Pusher interface {
	ScheduleUpsert(ctx context.Context, rec *domain.WorkoutRecord)
	ScheduleDelete(ctx context.Context, id string)
	// Close stops accepting work and waits for queued pushes to finish.
	Close()
}

type pushOp int

const (
	pushUpsert pushOp = iota
	pushDelete
)

type pushJob struct {
	op       pushOp
	identity domain.Identity // captured at schedule time; the request ctx is gone by the time the job runs
	record   *domain.WorkoutRecord
	id       string
}

type queuedPusher struct {
	mirror  MirrorClient
	queue   chan pushJob
	limiter *rate.Limiter
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// NewPusher starts the background push worker.
func NewPusher(mirror MirrorClient, cfg config.PushConfig) Pusher {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}

	p := &queuedPusher{
		mirror:  mirror,
		queue:   make(chan pushJob, cfg.QueueSize),
		limiter: rate.NewLimiter(limit, cfg.Burst),
		timeout: cfg.Timeout,
		done:    make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *queuedPusher) ScheduleUpsert(ctx context.Context, rec *domain.WorkoutRecord) {
	if rec == nil {
		return
	}
	p.enqueue(ctx, pushJob{op: pushUpsert, record: rec.Clone(), id: rec.ID})
}

func (p *queuedPusher) ScheduleDelete(ctx context.Context, id string) {
	if id == "" {
		return
	}
	p.enqueue(ctx, pushJob{op: pushDelete, id: id})
}

func (p *queuedPusher) enqueue(ctx context.Context, job pushJob) {
	if !p.mirror.Enabled(ctx) {
		return
	}
	job.identity = auth.IdentityFromContext(ctx)

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		log.Printf("WARN: push for workout %s dropped: pusher is closed", job.id)
		return
	}
	select {
	case p.queue <- job:
	default:
		log.Printf("WARN: push for workout %s dropped: queue is full", job.id)
	}
}

func (p *queuedPusher) run() {
	defer close(p.done)
	for job := range p.queue {
		p.push(job)
	}
}

func (p *queuedPusher) push(job pushJob) {
	ctx, cancel := context.WithTimeout(auth.WithIdentity(context.Background(), job.identity), p.timeout)
	defer cancel()

	if err := p.limiter.Wait(ctx); err != nil {
		log.Printf("WARN: push for workout %s dropped: %v", job.id, err)
		return
	}

	var err error
	switch job.op {
	case pushUpsert:
		err = p.mirror.Upsert(ctx, job.record)
	case pushDelete:
		err = p.mirror.Delete(ctx, job.id)
	}
	if err != nil {
		log.Printf("WARN: remote push for workout %s failed: %v", job.id, err)
	}
}

func (p *queuedPusher) Close() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()
	<-p.done
}
