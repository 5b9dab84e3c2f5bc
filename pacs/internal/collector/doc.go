// Package collector scrapes the status pages of the PACS application
// services that run beside the exporter. Six services expose a plain
// serverStatus page on a fixed localhost port; the application server
// monitor additionally requires a form login.
//
// The pages share their furniture: database connection counts, an
// uptime line and a memory utilization line appear identically on most
// of them, so those extractions are shared and each service adds its
// own. A pattern that fails to match skips its metric with a warning
// while the rest of the page is still used.
package collector
