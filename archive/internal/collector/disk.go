package collector

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pacswatch/pacswatch/pkg/parse"
	"github.com/pacswatch/pacswatch/pkg/registry"
)

// DiskSource reads filesystem usage from one server via df.
type DiskSource struct {
	peer    string
	server  string
	command string
	run     runner
}

// NewDiskSource builds a source that runs the df command on server.
func NewDiskSource(peer, server, command string, run runner) *DiskSource {
	return &DiskSource{peer: peer, server: server, command: command, run: run}
}

func (s *DiskSource) Name() string { return "disk/" + s.server }

// Collect runs df and emits used/total bytes plus a used percentage
// per mounted filesystem. The percentage is computed from the byte
// counts rather than taken from df, which rounds to whole percent.
func (s *DiskSource) Collect(ctx context.Context) (registry.Observations, error) {
	out, err := s.run.Run(ctx, s.command)
	if err != nil {
		return nil, err
	}
	mounts, err := parseDF(out)
	if err != nil {
		return nil, err
	}
	obs := registry.Observations{}
	for _, m := range mounts {
		labels := map[string]string{
			"peer":       s.peer,
			"server":     s.server,
			"mount":      m.Mount,
			"filesystem": m.Filesystem,
		}
		add := func(family string, v float64) {
			obs[family] = append(obs[family], registry.Point{Labels: labels, Value: v})
		}
		add("archive_filesystem_size_used_bytes", m.UsedBytes)
		add("archive_filesystem_size_total_bytes", m.TotalBytes)
		if m.TotalBytes > 0 {
			pct := math.Round(m.UsedBytes/m.TotalBytes*10000) / 100
			add("archive_filesystem_used_percent", pct)
		}
	}
	return obs, nil
}

type dfEntry struct {
	Filesystem string
	Mount      string
	UsedBytes  float64
	TotalBytes float64
}

// parseDF reads `df --portability` output: a header line, then one
// record per line with 1024-byte block counts:
//
//	/dev/sda6          4190208  2114084  2076124  51% /var
//	192.0.2.9:/backup  2147483648  910542016  1236941632  43% /opt/emageon/backup
func parseDF(out string) ([]dfEntry, error) {
	var entries []dfEntry
	lines := strings.Split(strings.TrimSpace(out), "\n")
	for i, line := range lines {
		fields := strings.Fields(line)
		if i == 0 || len(fields) != 6 {
			continue
		}
		total, err1 := strconv.ParseFloat(fields[1], 64)
		used, err2 := strconv.ParseFloat(fields[2], 64)
		if err1 != nil || err2 != nil {
			continue
		}
		entries = append(entries, dfEntry{
			Filesystem: fields[0],
			Mount:      fields[5],
			UsedBytes:  used * 1024,
			TotalBytes: total * 1024,
		})
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("collector: no filesystems in df output: %w", parse.ErrParse)
	}
	return entries, nil
}
