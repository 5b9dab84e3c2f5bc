package collector

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/pacswatch/pacswatch/pkg/parse"
)

var (
	activeStudiesRe = regexp.MustCompile(`Active studies:<B>(\d+)</B>.*Processed since startup:<B>(\d+)</B> images / <B>(\d+)</B> studies`)
	jmsConnectionRe = regexp.MustCompile(`INTERNAL JMS Manager.*Sender connection: (\d+)<br>Receiver connection: (\d+)`)
	jmsSenderSessRe = regexp.MustCompile(`JMS Sender Sessions\((\d+)\)`)
	jmsRecvSessRe   = regexp.MustCompile(`Receiver Sessions</b>\((\d+)\)`)
)

// managerFamilies maps the notification manager table's columns onto
// metric families.
var managerFamilies = map[string]string{
	"Jobs Constructed":       "jobs_constructed",
	"Jobs being Constructed": "jobs_being_constructed",
	"Jobs Waiting for Locks": "jobs_waiting_for_locks",
	"Jobs Blocked":           "jobs_blocked",
	"Jobs Dispatched":        "jobs_dispatched",
	"Dispatched Jobs Queued": "dispatched_jobs_queued",
	"Studies Locked":         "studies_locked",
	"Expected Instances":     "expected_instances",
	"Expected Events":        "expected_events",
}

// NewNotificationsSource scrapes the archive notification processor,
// the busiest page of the seven: notification counters, the manager's
// job pipeline, active study counts and JMS connection state.
func NewNotificationsSource(server, url string, client getter) *StatusSource {
	return &StatusSource{
		service: "notifications",
		prefix:  "pacs_eanp",
		url:     url,
		server:  server,
		client:  client,
		common:  true,
		extras:  notificationsExtras,
	}
}

func notificationsExtras(page []byte, b *batch) {
	receivedNotifications(page, b)
	notificationManager(page, b)

	if m := activeStudiesRe.FindSubmatch(page); m != nil {
		b.add("active_studies", num(m[1]))
		b.add("images_processed_total", num(m[2]))
		b.add("studies_processed_total", num(m[3]))
	} else {
		slog.Warn("no active studies pattern on page", "service", b.prefix)
	}

	if m := jmsConnectionRe.FindSubmatch(page); m != nil {
		b.add("jms_sender_connections", num(m[1]))
		b.add("jms_receiver_connections", num(m[2]))
	} else {
		slog.Warn("no JMS connection pattern on page", "service", b.prefix)
	}
	if m := jmsSenderSessRe.FindSubmatch(page); m != nil {
		b.add("jms_sender_sessions", num(m[1]))
	}
	if m := jmsRecvSessRe.FindSubmatch(page); m != nil {
		b.add("jms_receiver_sessions", num(m[1]))
	}

	studyIdleTimes(page, b)
}

// receivedNotifications reads the one-row table of notification
// counters; each column becomes a type label, lowercased with
// underscores.
func receivedNotifications(page []byte, b *batch) {
	table, ok := parse.FindTable(page, "Instance Notifications")
	if !ok {
		slog.Warn("no received notifications table on page", "service", b.prefix)
		return
	}
	if len(table.Rows) == 0 {
		return
	}
	row := table.Rows[0]
	for col, header := range table.Header {
		v, err := parse.Number(table.Cell(row, col))
		if err != nil {
			slog.Warn("unparsable notification count",
				"service", b.prefix, "column", header, "error", err)
			continue
		}
		name := strings.ReplaceAll(strings.ToLower(header), " ", "_")
		b.add("received_notifications", v, "type", name)
	}
}

// notificationManager reads the manager's one-row pipeline table into
// nine separate families.
func notificationManager(page []byte, b *batch) {
	table, ok := parse.FindTable(page, "Jobs Constructed")
	if !ok {
		slog.Warn("no notification manager table on page", "service", b.prefix)
		return
	}
	if len(table.Rows) == 0 {
		return
	}
	row := table.Rows[0]
	for header, family := range managerFamilies {
		col, ok := table.Column(header)
		if !ok {
			slog.Warn("notification manager table missing column",
				"service", b.prefix, "column", header)
			continue
		}
		v, err := parse.Number(table.Cell(row, col))
		if err != nil {
			slog.Warn("unparsable notification manager value",
				"service", b.prefix, "column", header, "error", err)
			continue
		}
		b.add(family, v)
	}
}

// studyIdleTimes summarizes the active studies table's Idle Time
// column into max and mean gauges.
func studyIdleTimes(page []byte, b *batch) {
	table, ok := parse.FindTable(page, "Patient Name")
	if !ok {
		return
	}
	col, ok := table.Column("Idle Time")
	if !ok {
		return
	}
	var max, sum float64
	n := 0
	for _, row := range table.Rows {
		v, err := parse.Number(table.Cell(row, col))
		if err != nil {
			continue
		}
		if v > max {
			max = v
		}
		sum += v
		n++
	}
	if n == 0 {
		return
	}
	b.add("studies_idle_time_max", max)
	b.add("studies_idle_time_avg", sum/float64(n))
}
