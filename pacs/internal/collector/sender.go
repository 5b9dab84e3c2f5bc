package collector

import (
	"log/slog"
	"regexp"
)

var (
	jobQueueRe    = regexp.MustCompile(`Sender Job Queue Summary: New\((\d+)\), Inprogress\((\d+)\), Error\((\d+)\)`)
	sendSummaryRe = regexp.MustCompile(`Send summary: <B>(\d+)</B> \(successful\) <B>(\d+)</B> \(failed\) instances`)
)

// NewSenderSource scrapes the sender's job queue and send totals.
func NewSenderSource(server, url string, client getter) *StatusSource {
	return &StatusSource{
		service: "sender",
		prefix:  "pacs_sends",
		url:     url,
		server:  server,
		client:  client,
		common:  true,
		extras:  senderExtras,
	}
}

func senderExtras(page []byte, b *batch) {
	if m := jobQueueRe.FindSubmatch(page); m != nil {
		b.add("job_queue", num(m[1]), "status", "new")
		b.add("job_queue", num(m[2]), "status", "in_progress")
		b.add("job_queue", num(m[3]), "status", "error")
	} else {
		slog.Warn("no job queue summary pattern on page", "service", b.prefix)
	}

	// The app reports since-startup totals; they are exported as the
	// gauges they are, resetting when the service restarts.
	if m := sendSummaryRe.FindSubmatch(page); m != nil {
		b.add("instance_stats", num(m[1]), "status", "successful")
		b.add("instance_stats", num(m[2]), "status", "failed")
	} else {
		slog.Warn("no send summary pattern on page", "service", b.prefix)
	}
}
