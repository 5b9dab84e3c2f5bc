package poll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pacswatch/pacswatch/pkg/fetch"
	"github.com/pacswatch/pacswatch/pkg/registry"
)

// A Source is one pollable target. Collect gathers a batch of
// observations. A failed collection returns an error; any batch
// returned alongside the error is still applied, which lets sources
// keep status series current while the failure is counted.
type Source interface {
	Name() string
	Collect(ctx context.Context) (registry.Observations, error)
}

// failureEscalation is how many consecutive failures a source logs at
// warn level before escalating to error.
const failureEscalation = 3

// HealthSpecs declares the per-target health families the scheduler
// maintains, namespaced under prefix. Register these alongside the
// exporter's own families.
func HealthSpecs(prefix string) []registry.Spec {
	return []registry.Spec{
		{
			Name:   prefix + "_scrape_up",
			Help:   "Whether the last collection from this target succeeded.",
			Kind:   registry.Gauge,
			Labels: []string{"target"},
		},
		{
			Name:   prefix + "_scrape_duration_seconds",
			Help:   "Time the last collection from this target took.",
			Kind:   registry.Gauge,
			Labels: []string{"target"},
		},
		{
			Name:   prefix + "_last_scrape_timestamp_seconds",
			Help:   "Unix time of the last successful collection from this target.",
			Kind:   registry.Gauge,
			Labels: []string{"target"},
		},
		{
			Name:   prefix + "_scrape_errors_total",
			Help:   "Failed collections from this target, by error category.",
			Kind:   registry.Counter,
			Labels: []string{"target", "category"},
		},
	}
}

// Scheduler polls a set of sources on a fixed cadence.
type Scheduler struct {
	sources  []Source
	registry *registry.Registry
	prefix   string
	interval time.Duration
	timeout  time.Duration
	limit    int
	logger   *slog.Logger

	mu       sync.Mutex
	failures map[string]int
}

// Config carries everything a Scheduler needs. Limit caps how many
// sources collect at once; zero means all at once.
type Config struct {
	Sources  []Source
	Registry *registry.Registry
	Prefix   string
	Interval time.Duration
	Timeout  time.Duration
	Limit    int
	Logger   *slog.Logger
}

// NewScheduler wires a scheduler from cfg.
func NewScheduler(cfg Config) (*Scheduler, error) {
	if len(cfg.Sources) == 0 {
		return nil, errors.New("poll: no sources configured")
	}
	if cfg.Registry == nil {
		return nil, errors.New("poll: registry is required")
	}
	if cfg.Interval <= 0 {
		return nil, fmt.Errorf("poll: interval must be positive, got %s", cfg.Interval)
	}
	if cfg.Timeout <= 0 || cfg.Timeout > cfg.Interval {
		cfg.Timeout = cfg.Interval
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Scheduler{
		sources:  cfg.Sources,
		registry: cfg.Registry,
		prefix:   cfg.Prefix,
		interval: cfg.Interval,
		timeout:  cfg.Timeout,
		limit:    cfg.Limit,
		logger:   cfg.Logger,
		failures: make(map[string]int),
	}, nil
}

// Run polls immediately, then on every interval tick, until ctx is
// cancelled. It returns non-nil only for unrecoverable faults such as
// observations against an unregistered family.
func (s *Scheduler) Run(ctx context.Context) error {
	if err := s.cycle(ctx); err != nil {
		return err
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := s.cycle(ctx); err != nil {
				return err
			}
		}
	}
}

// Cycle runs one collection pass over every source. Exported so tests
// and one-shot invocations can poll without the ticker loop.
func (s *Scheduler) Cycle(ctx context.Context) error {
	return s.cycle(ctx)
}

func (s *Scheduler) cycle(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	if s.limit > 0 {
		g.SetLimit(s.limit)
	}
	for _, src := range s.sources {
		src := src
		g.Go(func() error {
			return s.collectOne(ctx, src)
		})
	}
	return g.Wait()
}

func (s *Scheduler) collectOne(ctx context.Context, src Source) error {
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	obs, err := src.Collect(cctx)
	elapsed := time.Since(start)

	target := map[string]string{"target": src.Name()}
	health := registry.Observations{
		s.prefix + "_scrape_duration_seconds": {
			{Labels: target, Value: elapsed.Seconds()},
		},
	}

	if err != nil {
		category := fetch.Classify(err)
		s.logFailure(src.Name(), category, elapsed, err)
		health[s.prefix+"_scrape_up"] = []registry.Point{{Labels: target, Value: 0}}
		health[s.prefix+"_scrape_errors_total"] = []registry.Point{{
			Labels: map[string]string{"target": src.Name(), "category": category},
			Value:  1,
		}}
		if len(obs) > 0 {
			if uerr := s.registry.Update(obs); uerr != nil {
				return uerr
			}
		}
		return s.registry.Update(health)
	}

	s.clearFailures(src.Name())
	if err := s.registry.Update(obs); err != nil {
		// Unregistered families are wiring bugs; stop rather than
		// expose a silently incomplete page.
		return err
	}
	health[s.prefix+"_scrape_up"] = []registry.Point{{Labels: target, Value: 1}}
	health[s.prefix+"_last_scrape_timestamp_seconds"] = []registry.Point{
		{Labels: target, Value: float64(time.Now().Unix())},
	}
	s.logger.Debug("collected", "target", src.Name(), "duration", elapsed)
	return s.registry.Update(health)
}

func (s *Scheduler) logFailure(name, category string, elapsed time.Duration, err error) {
	s.mu.Lock()
	s.failures[name]++
	n := s.failures[name]
	s.mu.Unlock()

	attrs := []any{"target", name, "category", category,
		"consecutive", n, "duration", elapsed, "error", err}
	if n >= failureEscalation {
		s.logger.Error("collection failing", attrs...)
		return
	}
	s.logger.Warn("collection failed", attrs...)
}

func (s *Scheduler) clearFailures(name string) {
	s.mu.Lock()
	delete(s.failures, name)
	s.mu.Unlock()
}
