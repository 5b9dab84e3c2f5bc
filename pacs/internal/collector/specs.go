package collector

import "github.com/pacswatch/pacswatch/pkg/registry"

// Prefix namespaces the exporter's own health families.
const Prefix = "pacs"

func gauge(name, help string, extra ...string) registry.Spec {
	return registry.Spec{
		Name:   name,
		Help:   help,
		Kind:   registry.Gauge,
		Labels: append([]string{"server"}, extra...),
	}
}

// commonSpecs declares the shared page furniture for one service.
func commonSpecs(prefix, service string) []registry.Spec {
	return []registry.Spec{
		gauge(prefix+"_database_connections",
			"Database connections held by the "+service+" service.", "state"),
		gauge(prefix+"_uptime_hours",
			"Hours the "+service+" service has been running since last restart."),
		gauge(prefix+"_memory_current_mb",
			"Current memory use of the "+service+" service by area.", "area"),
		gauge(prefix+"_memory_peak_mb",
			"Peak memory use of the "+service+" service by area.", "area"),
		gauge(prefix+"_service_status",
			"Whether the "+service+" status page answered the last scrape."),
	}
}

// Specs declares every metric family the pacs sources emit.
func Specs() []registry.Spec {
	specs := []registry.Spec{
		{
			Name:   "pacs_exporter_info",
			Help:   "Exporter build information.",
			Kind:   registry.Gauge,
			Labels: []string{"server", "version"},
		},
	}

	specs = append(specs, commonSpecs("pacs_msgs", "messaging server")...)
	specs = append(specs,
		gauge("pacs_msgs_queue_messages",
			"Messages waiting per broker queue on the messaging server.", "queue", "queue_type"),
	)

	specs = append(specs, commonSpecs("pacs_ws", "worklist server")...)
	specs = append(specs,
		gauge("pacs_ws_connected_clients", "Clients connected to the worklist server."),
		gauge("pacs_ws_active_worklists", "Active worklists by state.", "status"),
		gauge("pacs_ws_exam_cache_loaded", "Exams currently held in the cache."),
		gauge("pacs_ws_exam_cache_stale", "Stale exams in the cache."),
		gauge("pacs_ws_exam_cache_loads_total", "Exam cache loads since service startup."),
		gauge("pacs_ws_pending_jobs", "Pending worklist jobs by type.", "job_type"),
	)

	specs = append(specs,
		gauge("pacs_cms_active_users", "Active user pipelines on the client messaging server."),
		gauge("pacs_cms_service_status",
			"Whether the client messaging status page answered the last scrape."),
	)

	specs = append(specs, commonSpecs("pacs_as", "application server")...)

	specs = append(specs, commonSpecs("pacs_eanp", "notification processor")...)
	specs = append(specs,
		gauge("pacs_eanp_received_notifications",
			"Notifications received from the archive since service restart, by type.", "type"),
		gauge("pacs_eanp_jobs_constructed", "Notification jobs constructed."),
		gauge("pacs_eanp_jobs_being_constructed", "Notification jobs currently being constructed."),
		gauge("pacs_eanp_jobs_waiting_for_locks", "Notification jobs waiting for study locks."),
		gauge("pacs_eanp_jobs_blocked", "Notification jobs blocked from processing."),
		gauge("pacs_eanp_jobs_dispatched", "Notification jobs queued for dispatch."),
		gauge("pacs_eanp_dispatched_jobs_queued", "Dispatched notification jobs still queued."),
		gauge("pacs_eanp_studies_locked", "Studies currently locked by the notification manager."),
		gauge("pacs_eanp_expected_instances", "Instances the notification manager still expects."),
		gauge("pacs_eanp_expected_events", "Events the notification manager still expects."),
		gauge("pacs_eanp_active_studies", "Studies currently being processed."),
		gauge("pacs_eanp_studies_processed_total", "Studies processed since service startup."),
		gauge("pacs_eanp_images_processed_total", "Images processed since service startup."),
		gauge("pacs_eanp_jms_sender_connections", "Active JMS sender connections."),
		gauge("pacs_eanp_jms_receiver_connections", "Active JMS receiver connections."),
		gauge("pacs_eanp_jms_sender_sessions", "Active JMS sender sessions."),
		gauge("pacs_eanp_jms_receiver_sessions", "Active JMS receiver sessions."),
		gauge("pacs_eanp_studies_idle_time_max", "Longest idle time among active studies."),
		gauge("pacs_eanp_studies_idle_time_avg", "Mean idle time among active studies."),
	)

	specs = append(specs, commonSpecs("pacs_scheds", "scheduler")...)
	specs = append(specs,
		gauge("pacs_scheds_jobs", "Scheduler jobs per command by status.", "command", "status"),
		gauge("pacs_scheds_jobs_blocked", "Scheduler jobs blocked from processing."),
	)

	specs = append(specs, commonSpecs("pacs_sends", "sender")...)
	specs = append(specs,
		gauge("pacs_sends_job_queue", "Sender jobs queued by status.", "status"),
		gauge("pacs_sends_instance_stats",
			"Instances sent since service startup, by outcome.", "status"),
	)

	return specs
}
