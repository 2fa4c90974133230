package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// JobFunc is a unit of scheduled work
type JobFunc func(ctx context.Context) error

// DefaultJobTimeout bounds a single run of a job
const DefaultJobTimeout = 10 * time.Minute

// Scheduler runs named jobs on cron schedules in the New York market time zone
type Scheduler struct {
	cron       *cron.Cron
	entryIDs   map[string]cron.EntryID
	timeout    time.Duration
	mu         sync.Mutex
	isRunning  bool
	ctx        context.Context
	cancelFunc context.CancelFunc
}

// New creates a Scheduler. Jobs are interpreted in America/New_York, falling back to UTC
// when the zone database is unavailable.
func New() *Scheduler {
	var opts []cron.Option
	if loc, err := time.LoadLocation("America/New_York"); err == nil {
		opts = append(opts, cron.WithLocation(loc))
	} else {
		log.Warnf("failed to load America/New_York, scheduling in UTC: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:       cron.New(opts...),
		entryIDs:   make(map[string]cron.EntryID),
		timeout:    DefaultJobTimeout,
		ctx:        ctx,
		cancelFunc: cancel,
	}
}

// RegisterJob schedules fn under name using a standard five-field cron spec.
// Overlapping runs of the same job are skipped.
func (s *Scheduler) RegisterJob(name, spec string, fn JobFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entryIDs[name]; exists {
		return fmt.Errorf("job with name '%s' already registered", name)
	}

	job := cron.NewChain(cron.SkipIfStillRunning(cron.DiscardLogger)).Then(cron.FuncJob(s.wrap(name, fn)))
	id, err := s.cron.AddJob(spec, job)
	if err != nil {
		return fmt.Errorf("failed to schedule job '%s': %w", name, err)
	}
	s.entryIDs[name] = id
	log.Infof("scheduled job '%s' with cron expression '%s'", name, spec)
	return nil
}

func (s *Scheduler) wrap(name string, fn JobFunc) func() {
	return func() {
		ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
		defer cancel()

		log.Infof("starting job '%s'", name)
		start := time.Now()
		err := fn(ctx)
		elapsed := time.Since(start)
		if err != nil {
			log.Errorf("job '%s' failed after %v: %v", name, elapsed, err)
			return
		}
		log.Infof("job '%s' completed in %v", name, elapsed)
	}
}

// Next returns the next scheduled run of the named job
func (s *Scheduler) Next(name string) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.entryIDs[name]
	if !ok {
		return time.Time{}, false
	}
	return s.cron.Entry(id).Next, true
}

// Start begins running scheduled jobs
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}
	s.cron.Start()
	s.isRunning = true
	log.Info("scheduler started")
	return nil
}

// Stop cancels running jobs and waits for them to return, or for ctx to expire
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}
	s.cancelFunc()
	done := s.cron.Stop()
	s.isRunning = false

	select {
	case <-done.Done():
		log.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("scheduler stop: %w", ctx.Err())
	}
}
