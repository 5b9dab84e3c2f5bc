package collector

import (
	"context"

	"github.com/pacswatch/pacswatch/pkg/parse"
	"github.com/pacswatch/pacswatch/pkg/registry"
)

// runner executes a command on one remote server.
type runner interface {
	Run(ctx context.Context, command string) (string, error)
}

// QueueSource reads the multicaster queue backlog of one server.
type QueueSource struct {
	peer    string
	server  string
	command string
	run     runner
}

// NewQueueSource builds a source that runs command on server over run.
func NewQueueSource(peer, server, command string, run runner) *QueueSource {
	return &QueueSource{peer: peer, server: server, command: command, run: run}
}

func (s *QueueSource) Name() string { return "queues/" + s.server }

// Collect runs the queue-status command and turns each "name count"
// line into a depth gauge. Unparsable lines are skipped inside
// QueueLines; an empty spool yields an empty batch, not an error.
func (s *QueueSource) Collect(ctx context.Context) (registry.Observations, error) {
	out, err := s.run.Run(ctx, s.command)
	if err != nil {
		return nil, err
	}
	var points []registry.Point
	for _, q := range parse.QueueLines(out) {
		points = append(points, registry.Point{
			Labels: map[string]string{
				"peer":   s.peer,
				"server": s.server,
				"queue":  q.Name,
			},
			Value: q.Depth,
		})
	}
	if len(points) == 0 {
		return registry.Observations{}, nil
	}
	return registry.Observations{"archive_multicaster_queue_depth": points}, nil
}
