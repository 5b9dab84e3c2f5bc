// Package collector holds the poll sources for the archive exporter:
// multicaster queue depths and filesystem usage gathered over SSH,
// store-node availability probed over TCP, and the scheduled-work
// backlog scraped from the authenticated monitoring page.
//
// Each server is its own source, so a dead node only marks its own
// scrape_up down and never delays the rest of the cycle.
package collector
