package parse

import (
	"log/slog"
	"strings"
)

// QueueDepth is one queue name and its current depth, extracted from one
// line of queue-status command output.
type QueueDepth struct {
	Name  string
	Depth float64
}

// QueueLines extracts (queue, depth) pairs from line-oriented command output
// of the form "<queue_name> <depth>". Blank lines are skipped silently;
// lines with the wrong field count or a non-numeric depth are skipped with a
// warning — partial data is better than none. A well-formed input with no
// extractable lines yields an empty slice, not an error.
func QueueLines(raw string) []QueueDepth {
	var out []QueueDepth
	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			slog.Warn("parse: skipping queue-status line with unexpected field count",
				"line", line, "fields", len(fields))
			continue
		}
		depth, err := Number(fields[1])
		if err != nil {
			slog.Warn("parse: skipping queue-status line with non-numeric depth",
				"line", line, "err", err)
			continue
		}
		out = append(out, QueueDepth{Name: fields[0], Depth: depth})
	}
	return out
}
