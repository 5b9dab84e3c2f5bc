package collector

import (
	"log/slog"
	"regexp"
)

var activePipelinesRe = regexp.MustCompile(`Active pipelines:<B> (\d+)`)

// NewClientMessagingSource scrapes the client messaging server, whose
// page carries only the active user pipeline count.
func NewClientMessagingSource(server, url string, client getter) *StatusSource {
	return &StatusSource{
		service: "client-messaging",
		prefix:  "pacs_cms",
		url:     url,
		server:  server,
		client:  client,
		extras:  clientMessagingExtras,
	}
}

func clientMessagingExtras(page []byte, b *batch) {
	if m := activePipelinesRe.FindSubmatch(page); m != nil {
		b.add("active_users", num(m[1]))
	} else {
		slog.Warn("no active pipelines pattern on page", "service", b.prefix)
	}
}
