package service

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"
)

// UnitDir is where rendered unit files are written.
const UnitDir = "/etc/systemd/system"

// Identity describes the unit to render: naming from the config file's
// service section, plus the command line systemd should run.
type Identity struct {
	Name        string
	DisplayName string
	Description string

	// ExecStart is the full command line, binary path included.
	ExecStart string
}

const unitTemplate = `[Unit]
Description={{.DisplayName}}
{{- if .Description}}
# {{.Description}}
{{- end}}
After=network-online.target
Wants=network-online.target

[Service]
Type=simple
ExecStart={{.ExecStart}}
Restart=on-failure
RestartSec=5

[Install]
WantedBy=multi-user.target
`

var unitTmpl = template.Must(template.New("unit").Parse(unitTemplate))

// UnitName appends the .service suffix when absent.
func UnitName(name string) string {
	if strings.HasSuffix(name, ".service") {
		return name
	}
	return name + ".service"
}

// UnitPath is the on-disk location of the rendered unit file.
func UnitPath(name string) string {
	return filepath.Join(UnitDir, UnitName(name))
}

// RenderUnit produces the systemd unit file contents for id.
func RenderUnit(id Identity) ([]byte, error) {
	if id.Name == "" {
		return nil, fmt.Errorf("service: unit name is required")
	}
	if id.ExecStart == "" {
		return nil, fmt.Errorf("service: exec start is required")
	}
	if id.DisplayName == "" {
		id.DisplayName = id.Name
	}
	var buf bytes.Buffer
	if err := unitTmpl.Execute(&buf, id); err != nil {
		return nil, fmt.Errorf("service: render unit: %w", err)
	}
	return buf.Bytes(), nil
}
