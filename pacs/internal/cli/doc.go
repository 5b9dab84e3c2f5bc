// Package cli implements the pacs-exporter command tree.
//
// The default command, run, scrapes the local application status pages
// and serves the results in Prometheus exposition format. The
// install, remove, start and stop commands manage the exporter as a
// systemd unit so it survives reboots:
//
//	pacs-exporter run --configfile /etc/pacswatch/pacs.yaml
//	pacs-exporter install --startup auto
//	pacs-exporter start
//	pacs-exporter stop
//	pacs-exporter remove
package cli
