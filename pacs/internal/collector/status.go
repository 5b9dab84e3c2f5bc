package collector

import (
	"context"

	"github.com/pacswatch/pacswatch/pkg/registry"
)

// getter fetches one status page.
type getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// batch accumulates the points of one collection under a service's
// metric prefix, with the server label applied throughout.
type batch struct {
	prefix string
	server string
	obs    registry.Observations
}

func newBatch(prefix, server string) *batch {
	return &batch{prefix: prefix, server: server, obs: registry.Observations{}}
}

// add records one point. family is the name without the service
// prefix; pairs are extra label key/value pairs.
func (b *batch) add(family string, value float64, pairs ...string) {
	labels := map[string]string{"server": b.server}
	for i := 0; i+1 < len(pairs); i += 2 {
		labels[pairs[i]] = pairs[i+1]
	}
	name := b.prefix + "_" + family
	b.obs[name] = append(b.obs[name], registry.Point{Labels: labels, Value: value})
}

// StatusSource scrapes one service's status page. The shared page
// furniture is extracted for every service that carries it; extras
// handles what is unique to the service.
type StatusSource struct {
	service string
	prefix  string
	url     string
	server  string
	client  getter
	common  bool
	extras  func(page []byte, b *batch)
}

func (s *StatusSource) Name() string { return s.service }

// Collect fetches and parses the page. The service status gauge is
// part of the batch either way: 0 rides along with the fetch error, 1
// with the parsed metrics.
func (s *StatusSource) Collect(ctx context.Context) (registry.Observations, error) {
	b := newBatch(s.prefix, s.server)
	page, err := s.client.Get(ctx, s.url)
	if err != nil {
		b.add("service_status", 0)
		return b.obs, err
	}
	b.add("service_status", 1)
	if s.common {
		extractCommon(page, b)
	}
	if s.extras != nil {
		s.extras(page, b)
	}
	return b.obs, nil
}
