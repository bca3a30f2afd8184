package sync

import (
	"context"
	"errors"
	stdsync "sync"
	"time"

	"github.com/mrnobugz/PosApp-Api/internal/infra"

	"github.com/rs/zerolog/log"
)

var errRemoteUnavailable = errors.New("sync cycle reported a batch failure")

// Scheduler drives periodic bidirectional syncs from a single background
// goroutine. Start and Stop are idempotent; the goroutine owns a cancelable
// context so Stop always reaches a definite stopped state.
type Scheduler struct {
	mu       stdsync.Mutex
	cancel   context.CancelFunc
	done     chan struct{}
	interval time.Duration
	orch     *Orchestrator
	breaker  *infra.CircuitBreaker
}

func NewScheduler(orch *Orchestrator, breaker *infra.CircuitBreaker, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &Scheduler{orch: orch, breaker: breaker, interval: interval}
}

func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.run(ctx, s.done)
	log.Info().Dur("interval", s.interval).Msg("sync scheduler started")
}

func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
	log.Info().Msg("sync scheduler stopped")
}

func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

func (s *Scheduler) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.cycle(ctx)
		}
	}
}

func (s *Scheduler) cycle(ctx context.Context) {
	err := s.breaker.Execute(func() error {
		results := s.orch.SyncAll(ctx, Bidirectional)
		for _, r := range results {
			if !r.Success {
				return errRemoteUnavailable
			}
			log.Info().
				Str("entity", r.EntityType).
				Int("created", r.Created).
				Int("updated", r.Updated).
				Int("deleted", r.Deleted).
				Int("conflicts", r.Conflicts).
				Int("errors", len(r.Errors)).
				Msg("sync cycle")
		}
		return nil
	})
	if err != nil {
		log.Warn().Err(err).Msg("sync cycle skipped or failed")
	}
}
