// Package service installs and controls the exporter as a systemd
// unit. Install renders a unit file under /etc/systemd/system and
// reloads the daemon; start, stop and remove talk to systemd over
// D-Bus.
package service
