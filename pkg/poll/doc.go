// Package poll runs collection sources on a fixed interval and feeds
// their observations into a registry. Sources are polled concurrently
// up to a configurable limit, each under its own timeout, so one slow
// or dead target cannot hold up the rest of the cycle.
//
// The scheduler also maintains per-target health series (scrape_up,
// scrape_duration_seconds, last_scrape_timestamp_seconds and an error
// counter) under the exporter's metric prefix.
package poll
