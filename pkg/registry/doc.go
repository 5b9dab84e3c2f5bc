// Package registry adapts collected observations onto a Prometheus
// registry. Metric families are declared up front as Specs; each poll
// cycle then hands the registry a batch of Observations keyed by
// family name. Gauges take the latest value per label set, so a series
// that stops being observed simply keeps its last value.
package registry
