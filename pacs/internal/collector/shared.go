package collector

import (
	"log/slog"
	"regexp"
	"strconv"
)

// The shared page furniture. Every serverStatus page renders these
// three lines the same way.
var (
	dbConnectionsRe = regexp.MustCompile(`Database connections: (\d+) \((\d+) idle\)`)
	uptimeRe        = regexp.MustCompile(`up time: (?:(\d+)h)?(?:(\d+)m)?(\d+)\s?s`)
	memoryRe        = regexp.MustCompile(`Java (\d+)MB/(\d+)MB.*Native (\d+)MB/(\d+)MB.*Process Total (\d+)MB/(\d+)MB`)
)

// extractCommon parses database connections, uptime and memory
// utilization. Each pattern that fails to match is skipped with a
// warning; the page total is reported as active+idle connections.
func extractCommon(page []byte, b *batch) {
	if m := dbConnectionsRe.FindSubmatch(page); m != nil {
		total := num(m[1])
		idle := num(m[2])
		b.add("database_connections", total-idle, "state", "active")
		b.add("database_connections", idle, "state", "idle")
	} else {
		slog.Warn("no database connections pattern on page", "service", b.prefix)
	}

	if m := uptimeRe.FindSubmatch(page); m != nil {
		hours := num(m[1]) + num(m[2])/60 + num(m[3])/3600
		b.add("uptime_hours", hours)
	} else {
		slog.Warn("no uptime pattern on page", "service", b.prefix)
	}

	if m := memoryRe.FindSubmatch(page); m != nil {
		b.add("memory_current_mb", num(m[1]), "area", "java")
		b.add("memory_peak_mb", num(m[2]), "area", "java")
		b.add("memory_current_mb", num(m[3]), "area", "native")
		b.add("memory_peak_mb", num(m[4]), "area", "native")
		b.add("memory_current_mb", num(m[5]), "area", "process")
		b.add("memory_peak_mb", num(m[6]), "area", "process")
	} else {
		slog.Warn("no memory utilization pattern on page", "service", b.prefix)
	}
}

// num converts a digits-only regexp submatch. An absent optional group
// reads as zero.
func num(m []byte) float64 {
	if len(m) == 0 {
		return 0
	}
	v, _ := strconv.ParseFloat(string(m), 64)
	return v
}
