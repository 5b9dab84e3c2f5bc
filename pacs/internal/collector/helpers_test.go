package collector

import (
	"context"
	"testing"

	"github.com/pacswatch/pacswatch/pkg/registry"
)

// furniture is the header block every serverStatus page shares.
const furniture = `<html><body>
<p>Service: up time: 2h30m15 s</p>
<p>Database connections: 5 (3 idle)</p>
<p>Memory: Java 512MB/1024MB, Native 256MB/512MB, Process Total 900MB/1600MB</p>
`

type fakeGetter struct {
	page []byte
	err  error
}

func (f *fakeGetter) Get(ctx context.Context, url string) ([]byte, error) {
	return f.page, f.err
}

// point finds one series in a batch, failing the test when absent.
func point(t *testing.T, obs registry.Observations, family string, labels map[string]string) registry.Point {
	t.Helper()
points:
	for _, p := range obs[family] {
		for k, v := range labels {
			if p.Labels[k] != v {
				continue points
			}
		}
		return p
	}
	t.Fatalf("series %s%v not found in %v", family, labels, obs)
	return registry.Point{}
}

func single(t *testing.T, obs registry.Observations, family string) registry.Point {
	t.Helper()
	if len(obs[family]) != 1 {
		t.Fatalf("family %s has %d points, want 1", family, len(obs[family]))
	}
	return obs[family][0]
}
