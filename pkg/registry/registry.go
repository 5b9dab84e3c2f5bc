package registry

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ErrUnregistered reports an observation for a metric family that was
// never declared. It signals a programming error, not a flaky target,
// so callers treat it as fatal rather than logging and moving on.
var ErrUnregistered = errors.New("metric family not registered")

// Kind selects the Prometheus metric type backing a family.
type Kind int

const (
	Gauge Kind = iota
	Counter
)

// Spec declares one metric family before any values flow.
type Spec struct {
	Name   string
	Help   string
	Kind   Kind
	Labels []string
}

// Point is a single observed value with its label set. Labels must
// cover exactly the label names in the family's Spec.
type Point struct {
	Labels map[string]string
	Value  float64
}

// Observations is one batch of collected values, keyed by family name.
type Observations map[string][]Point

// Registry owns a private Prometheus registry plus the vectors for
// every declared family. Keeping the registry private means the
// exposition carries only what was declared, with none of the default
// process or Go runtime collectors mixed in.
type Registry struct {
	prom     *prometheus.Registry
	gauges   map[string]*prometheus.GaugeVec
	counters map[string]*prometheus.CounterVec
}

// New builds a Registry with every family in specs declared.
// Duplicate names fail registration.
func New(specs []Spec) (*Registry, error) {
	r := &Registry{
		prom:     prometheus.NewRegistry(),
		gauges:   make(map[string]*prometheus.GaugeVec),
		counters: make(map[string]*prometheus.CounterVec),
	}
	for _, s := range specs {
		if err := r.register(s); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) register(s Spec) error {
	switch s.Kind {
	case Gauge:
		vec := prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: s.Name,
			Help: s.Help,
		}, s.Labels)
		if err := r.prom.Register(vec); err != nil {
			return fmt.Errorf("registry: register %s: %w", s.Name, err)
		}
		r.gauges[s.Name] = vec
	case Counter:
		vec := prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: s.Name,
			Help: s.Help,
		}, s.Labels)
		if err := r.prom.Register(vec); err != nil {
			return fmt.Errorf("registry: register %s: %w", s.Name, err)
		}
		r.counters[s.Name] = vec
	default:
		return fmt.Errorf("registry: register %s: unknown kind %d", s.Name, s.Kind)
	}
	return nil
}

// Update applies one batch of observations. Gauges are set to the
// observed value; counters are incremented by it. Updating the same
// series twice in a batch leaves the later gauge value in place.
func (r *Registry) Update(obs Observations) error {
	for name, points := range obs {
		if vec, ok := r.gauges[name]; ok {
			for _, p := range points {
				g, err := vec.GetMetricWith(p.Labels)
				if err != nil {
					return fmt.Errorf("registry: update %s: %w", name, err)
				}
				g.Set(p.Value)
			}
			continue
		}
		if vec, ok := r.counters[name]; ok {
			for _, p := range points {
				c, err := vec.GetMetricWith(p.Labels)
				if err != nil {
					return fmt.Errorf("registry: update %s: %w", name, err)
				}
				c.Add(p.Value)
			}
			continue
		}
		return fmt.Errorf("registry: update %s: %w", name, ErrUnregistered)
	}
	return nil
}

// Handler serves the exposition in the Prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.prom, promhttp.HandlerOpts{})
}

// Gatherer exposes the underlying registry for tests and for callers
// that gather programmatically.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.prom
}
