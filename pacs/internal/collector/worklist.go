package collector

import (
	"log/slog"
	"regexp"
)

var (
	connectedClientsRe = regexp.MustCompile(`clients: <B>(\d+)</B>`)
	activeWorklistsRe  = regexp.MustCompile(`Active worklists: <B>(\d+) loaded, (\d+) loading, (\d+) selecting, (\d+) `)
	examCacheRe        = regexp.MustCompile(`Loaded exams: (\d+).*Stale exams: (\d+). Exam loads: (\d+) `)
	pendingJobsRe      = regexp.MustCompile(`Pending jobs</a> - Exam requests: (\d+). Patient updates: (\d+). Order updates: (\d+). Study updates: (\d+). Status updates: (\d+). Instance count updates: (\d+). Custom tag updates: (\d+)`)
)

// NewWorklistSource scrapes the worklist server: connected clients,
// worklist states, the exam cache and pending job counts.
func NewWorklistSource(server, url string, client getter) *StatusSource {
	return &StatusSource{
		service: "worklist",
		prefix:  "pacs_ws",
		url:     url,
		server:  server,
		client:  client,
		common:  true,
		extras:  worklistExtras,
	}
}

func worklistExtras(page []byte, b *batch) {
	if m := connectedClientsRe.FindSubmatch(page); m != nil {
		b.add("connected_clients", num(m[1]))
	} else {
		slog.Warn("no connected clients pattern on page", "service", b.prefix)
	}

	if m := activeWorklistsRe.FindSubmatch(page); m != nil {
		for i, status := range []string{"loaded", "loading", "selecting", "waiting"} {
			b.add("active_worklists", num(m[i+1]), "status", status)
		}
	} else {
		slog.Warn("no active worklists pattern on page", "service", b.prefix)
	}

	if m := examCacheRe.FindSubmatch(page); m != nil {
		b.add("exam_cache_loaded", num(m[1]))
		b.add("exam_cache_stale", num(m[2]))
		b.add("exam_cache_loads_total", num(m[3]))
	} else {
		slog.Warn("no exam cache pattern on page", "service", b.prefix)
	}

	if m := pendingJobsRe.FindSubmatch(page); m != nil {
		types := []string{
			"exam_requests", "patient_updates", "order_updates",
			"study_updates", "status_updates", "instance_count_updates",
			"custom_tag_updates",
		}
		for i, jobType := range types {
			b.add("pending_jobs", num(m[i+1]), "job_type", jobType)
		}
	} else {
		slog.Warn("no pending jobs pattern on page", "service", b.prefix)
	}
}
