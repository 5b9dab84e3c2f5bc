package collector

import (
	"context"
	"testing"
)

const schedulerPage = furniture + `
<p>Jobs blocked: <a href="/servlet/MonitorServlet?servicename=Scheduler&actionpath=serverAction&Command=BlockedList">6</a></p>
<table>
<tr><th>Command</th><th>Jobs Processed</th><th>Jobs (Queued/Wait/Failed),</th><th>Jobs Selected</th></tr>
<tr><td>AutoRoute</td><td>1520</td><td>3/1/0</td><td>12</td></tr>
<tr><td>Prefetch</td><td>-</td><td>0/0/2</td><td>-</td></tr>
</table>
</body></html>`

func TestSchedulerSource(t *testing.T) {
	src := NewSchedulerSource("pacs01", "http://localhost:11098/serverStatus",
		&fakeGetter{page: []byte(schedulerPage)})

	obs, err := src.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	if p := single(t, obs, "pacs_scheds_jobs_blocked"); p.Value != 6 {
		t.Errorf("jobs blocked = %v, want 6", p.Value)
	}

	jobs := obs["pacs_scheds_jobs"]
	// AutoRoute contributes all five statuses; Prefetch renders "-" for
	// processed and selected, leaving its three queue counts.
	if len(jobs) != 8 {
		t.Fatalf("job points = %d, want 8: %v", len(jobs), jobs)
	}
	p := point(t, obs, "pacs_scheds_jobs", map[string]string{"command": "AutoRoute", "status": "processed"})
	if p.Value != 1520 {
		t.Errorf("AutoRoute processed = %v", p.Value)
	}
	p = point(t, obs, "pacs_scheds_jobs", map[string]string{"command": "AutoRoute", "status": "wait"})
	if p.Value != 1 {
		t.Errorf("AutoRoute wait = %v", p.Value)
	}
	p = point(t, obs, "pacs_scheds_jobs", map[string]string{"command": "Prefetch", "status": "failed"})
	if p.Value != 2 {
		t.Errorf("Prefetch failed = %v", p.Value)
	}
	for _, pt := range jobs {
		if pt.Labels["command"] == "Prefetch" && pt.Labels["status"] == "processed" {
			t.Error("Prefetch processed should be skipped for the - cell")
		}
	}
}
