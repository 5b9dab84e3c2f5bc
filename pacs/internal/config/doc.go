// Package config loads the pacs exporter's YAML configuration: poll
// cadence, exposition port, the seven status page locations and the
// application server login, plus the identity used when the exporter
// is installed as a system service.
package config
