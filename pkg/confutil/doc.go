// Package confutil holds the configuration helpers both exporters
// share: secret resolution from the environment with a terminal
// prompt fallback, and the log-only config file watcher.
package confutil
