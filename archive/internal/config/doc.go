// Package config loads the archive exporter's YAML configuration and
// resolves the cluster layout it implies. The server list and peer
// name usually come from the cluster's own env-style conf file, so a
// minimal config can be just credentials and a listen port.
package config
