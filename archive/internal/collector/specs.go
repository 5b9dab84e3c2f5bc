package collector

import "github.com/pacswatch/pacswatch/pkg/registry"

// Prefix namespaces every archive exporter family.
const Prefix = "archive"

// Specs declares every metric family the archive sources emit.
func Specs() []registry.Spec {
	fsLabels := []string{"peer", "server", "mount", "filesystem"}
	return []registry.Spec{
		{
			Name:   "archive_multicaster_queue_depth",
			Help:   "Messages waiting to be processed by each multicaster queue.",
			Kind:   registry.Gauge,
			Labels: []string{"peer", "server", "queue"},
		},
		{
			Name:   "archive_filesystem_size_used_bytes",
			Help:   "Bytes in use on this filesystem.",
			Kind:   registry.Gauge,
			Labels: fsLabels,
		},
		{
			Name:   "archive_filesystem_size_total_bytes",
			Help:   "Total capacity of this filesystem.",
			Kind:   registry.Gauge,
			Labels: fsLabels,
		},
		{
			Name:   "archive_filesystem_used_percent",
			Help:   "Percentage of capacity in use on this filesystem.",
			Kind:   registry.Gauge,
			Labels: fsLabels,
		},
		{
			Name:   "archive_store_status",
			Help:   "Whether the store service port on this server accepts connections.",
			Kind:   registry.Gauge,
			Labels: []string{"peer", "server"},
		},
		{
			Name:   "archive_swe_queue_length",
			Help:   "Scheduled work items pending, by task and status.",
			Kind:   registry.Gauge,
			Labels: []string{"peer", "queue_name", "status"},
		},
		{
			Name:   "archive_exporter_info",
			Help:   "Exporter build information.",
			Kind:   registry.Gauge,
			Labels: []string{"version"},
		},
	}
}
