package collector

import (
	"context"
	"time"

	"github.com/pacswatch/pacswatch/pkg/fetch"
	"github.com/pacswatch/pacswatch/pkg/registry"
)

// StoreSource probes whether one server's store service is listening.
type StoreSource struct {
	peer    string
	server  string
	port    int
	timeout time.Duration
}

// NewStoreSource builds a TCP listen probe for server's store port.
func NewStoreSource(peer, server string, port int, timeout time.Duration) *StoreSource {
	return &StoreSource{peer: peer, server: server, port: port, timeout: timeout}
}

func (s *StoreSource) Name() string { return "store/" + s.server }

// Collect never fails: an unreachable port is the 0 value of the
// status gauge, not a scrape error.
func (s *StoreSource) Collect(ctx context.Context) (registry.Observations, error) {
	up := 0.0
	if fetch.ProbePort(ctx, s.server, s.port, s.timeout) {
		up = 1
	}
	return registry.Observations{
		"archive_store_status": {{
			Labels: map[string]string{"peer": s.peer, "server": s.server},
			Value:  up,
		}},
	}, nil
}
