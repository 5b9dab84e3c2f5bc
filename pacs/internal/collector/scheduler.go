package collector

import (
	"log/slog"
	"regexp"

	"github.com/pacswatch/pacswatch/pkg/parse"
)

var (
	queuedWaitFailedRe = regexp.MustCompile(`(\d+)/(\d+)/(\d+)`)
	jobsBlockedRe      = regexp.MustCompile(`Jobs blocked: <a [^>]*>(\d+)</a>`)
)

// NewSchedulerSource scrapes the scheduler's thread table and its
// blocked job count.
func NewSchedulerSource(server, url string, client getter) *StatusSource {
	return &StatusSource{
		service: "scheduler",
		prefix:  "pacs_scheds",
		url:     url,
		server:  server,
		client:  client,
		common:  true,
		extras:  schedulerExtras,
	}
}

// schedulerExtras reads the per-command job counts. Idle commands
// render "-" in the processed and selected columns; those cells are
// simply skipped, the queued/wait/failed triple is always present.
func schedulerExtras(page []byte, b *batch) {
	table, ok := parse.FindTable(page, "Command")
	if !ok {
		slog.Warn("no scheduler thread table on page", "service", b.prefix)
	} else {
		schedulerThreads(table, b)
	}

	if m := jobsBlockedRe.FindSubmatch(page); m != nil {
		b.add("jobs_blocked", num(m[1]))
	} else {
		slog.Warn("no jobs blocked pattern on page", "service", b.prefix)
	}
}

func schedulerThreads(table *parse.Table, b *batch) {
	command, okCommand := table.Column("Command")
	processed, okProcessed := table.Column("Jobs Processed")
	triple, okTriple := table.Column("Jobs (Queued/Wait/Failed),")
	selected, okSelected := table.Column("Jobs Selected")
	if !okCommand {
		slog.Warn("scheduler thread table missing command column", "service", b.prefix)
		return
	}
	for _, row := range table.Rows {
		cmd := table.Cell(row, command)
		if okProcessed {
			if v, err := parse.Number(table.Cell(row, processed)); err == nil {
				b.add("jobs", v, "command", cmd, "status", "processed")
			}
		}
		if okTriple {
			if m := queuedWaitFailedRe.FindStringSubmatch(table.Cell(row, triple)); m != nil {
				b.add("jobs", num([]byte(m[1])), "command", cmd, "status", "queued")
				b.add("jobs", num([]byte(m[2])), "command", cmd, "status", "wait")
				b.add("jobs", num([]byte(m[3])), "command", cmd, "status", "failed")
			} else {
				slog.Warn("unparsable queued/wait/failed cell",
					"service", b.prefix, "command", cmd)
			}
		}
		if okSelected {
			if v, err := parse.Number(table.Cell(row, selected)); err == nil {
				b.add("jobs", v, "command", cmd, "status", "selected")
			}
		}
	}
}
