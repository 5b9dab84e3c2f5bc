package collector

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/pacswatch/pacswatch/pkg/fetch"
	"github.com/pacswatch/pacswatch/pkg/parse"
	"github.com/pacswatch/pacswatch/pkg/registry"
)

// WorkSource scrapes the scheduled-work summary behind the monitoring
// login. The session is established lazily and re-established once
// when the server bounces an expired session back to the login form.
type WorkSource struct {
	peer       string
	loginURL   string
	monitorURL string
	session    *fetch.Session

	mu       sync.Mutex
	loggedIn bool
}

// NewWorkSource builds the scheduled-work source for the peer's
// monitoring pages.
func NewWorkSource(peer, loginURL, monitorURL string, session *fetch.Session) *WorkSource {
	return &WorkSource{
		peer:       peer,
		loginURL:   loginURL,
		monitorURL: monitorURL,
		session:    session,
	}
}

func (s *WorkSource) Name() string { return "scheduledwork" }

func (s *WorkSource) Collect(ctx context.Context) (registry.Observations, error) {
	page, err := s.fetchPage(ctx)
	if err != nil {
		return nil, err
	}
	table, ok := parse.FindTable(page, "Count")
	if !ok {
		// A quiet system renders the summary without the table.
		slog.Debug("no scheduled work table on monitor page", "peer", s.peer)
		return registry.Observations{}, nil
	}
	return s.observe(table), nil
}

func (s *WorkSource) fetchPage(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loggedIn {
		if err := s.session.Login(ctx, s.loginURL); err != nil {
			return nil, err
		}
		s.loggedIn = true
	}
	page, err := s.session.Get(ctx, s.monitorURL)
	if errors.Is(err, fetch.ErrAuth) {
		// Session expired between polls; log in again once.
		s.loggedIn = false
		if err := s.session.Login(ctx, s.loginURL); err != nil {
			return nil, err
		}
		s.loggedIn = true
		return s.session.Get(ctx, s.monitorURL)
	}
	return page, err
}

// observe turns the summary table into queue-length points. The queue
// name joins the component and task columns when both exist; rows
// whose count cell does not parse are skipped with a warning.
func (s *WorkSource) observe(table *parse.Table) registry.Observations {
	count, ok := table.Column("Count")
	if !ok {
		return registry.Observations{}
	}
	component, hasComponent := table.Column("Component")
	task, hasTask := table.Column("Task Name")
	status, hasStatus := table.Column("Status")

	var points []registry.Point
	for _, row := range table.Rows {
		v, err := parse.Number(table.Cell(row, count))
		if err != nil {
			slog.Warn("unparsable scheduled work count",
				"peer", s.peer, "row", strings.Join(row, "|"), "error", err)
			continue
		}
		var nameParts []string
		if hasComponent {
			nameParts = append(nameParts, table.Cell(row, component))
		}
		if hasTask {
			nameParts = append(nameParts, table.Cell(row, task))
		}
		name := strings.Join(nameParts, "/")
		if name == "" {
			name = table.Cell(row, 0)
		}
		st := ""
		if hasStatus {
			st = table.Cell(row, status)
		}
		points = append(points, registry.Point{
			Labels: map[string]string{"peer": s.peer, "queue_name": name, "status": st},
			Value:  v,
		})
	}
	if len(points) == 0 {
		return registry.Observations{}
	}
	return registry.Observations{"archive_swe_queue_length": points}
}
