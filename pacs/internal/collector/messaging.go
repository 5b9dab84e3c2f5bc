package collector

import (
	"log/slog"

	"github.com/pacswatch/pacswatch/pkg/parse"
)

// NewMessagingSource scrapes the messaging server's broker queue table
// in addition to the shared furniture.
func NewMessagingSource(server, url string, client getter) *StatusSource {
	return &StatusSource{
		service: "messaging",
		prefix:  "pacs_msgs",
		url:     url,
		server:  server,
		client:  client,
		common:  true,
		extras:  messagingExtras,
	}
}

// messagingExtras reads the queue table (Name / Type / Message Count).
// Temp queues have GUID names and churn constantly, so they are left
// out.
func messagingExtras(page []byte, b *batch) {
	table, ok := parse.FindTable(page, "Message Count")
	if !ok {
		slog.Warn("no message count table on page", "service", b.prefix)
		return
	}
	name, okName := table.Column("Name")
	typ, okType := table.Column("Type")
	count, okCount := table.Column("Message Count")
	if !okName || !okType || !okCount {
		slog.Warn("message count table missing expected columns", "service", b.prefix)
		return
	}
	for _, row := range table.Rows {
		queueType := table.Cell(row, typ)
		if queueType == "Temp" {
			continue
		}
		v, err := parse.Number(table.Cell(row, count))
		if err != nil {
			slog.Warn("unparsable message count",
				"service", b.prefix, "queue", table.Cell(row, name), "error", err)
			continue
		}
		b.add("queue_messages", v,
			"queue", table.Cell(row, name),
			"queue_type", queueType,
		)
	}
}
