package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pacs.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeFile(t, "app:\n  username: monitor\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ListenPort != DefaultListenPort {
		t.Errorf("ListenPort = %d, want %d", cfg.ListenPort, DefaultListenPort)
	}
	if cfg.PollInterval != DefaultPollInterval {
		t.Errorf("PollInterval = %s, want %s", cfg.PollInterval, DefaultPollInterval)
	}
	if cfg.URLs.Messaging != DefaultMessagingURL {
		t.Errorf("Messaging = %q", cfg.URLs.Messaging)
	}
	if cfg.URLs.Scheduler != DefaultSchedulerURL {
		t.Errorf("Scheduler = %q", cfg.URLs.Scheduler)
	}
	if cfg.Service.Name != DefaultServiceName {
		t.Errorf("Service.Name = %q", cfg.Service.Name)
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := Load(writeFile(t, `
server_label: pacs01
listen_port: 9091
poll_interval: 45s
app:
  username: monitor
  domain: hospital
urls:
  messaging: http://pacs01:11104/serverStatus
  application_server: ""
service:
  name: pacs-metrics
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerLabel != "pacs01" || cfg.ListenPort != 9091 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.PollInterval != 45*time.Second {
		t.Errorf("PollInterval = %s", cfg.PollInterval)
	}
	if cfg.URLs.Messaging != "http://pacs01:11104/serverStatus" {
		t.Errorf("Messaging = %q", cfg.URLs.Messaging)
	}
	if cfg.URLs.ApplicationServer != "" {
		t.Errorf("ApplicationServer should be cleared, got %q", cfg.URLs.ApplicationServer)
	}
	// Unset URLs keep their defaults.
	if cfg.URLs.Sender != DefaultSenderURL {
		t.Errorf("Sender = %q, want default", cfg.URLs.Sender)
	}
	if cfg.Service.Name != "pacs-metrics" {
		t.Errorf("Service.Name = %q", cfg.Service.Name)
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"bad port":          "app: {username: m}\nlisten_port: -1\n",
		"bad interval":      "app: {username: m}\npoll_interval: 0s\n",
		"bad timeout":       "app: {username: m}\nhttp_timeout: -2s\n",
		"no service name":   "app: {username: m}\nservice: {name: \"\"}\n",
		"app user required": "urls: {application_server: http://x/monitor}\n",
	}
	for name, content := range cases {
		if _, err := Load(writeFile(t, content)); err == nil {
			t.Errorf("%s: Load should fail", name)
		}
	}
}

func TestLabel_DefaultsToHostname(t *testing.T) {
	cfg := defaults()
	label, err := cfg.Label()
	if err != nil {
		t.Fatalf("Label: %v", err)
	}
	host, _ := os.Hostname()
	if label == "" || label != strings.ToLower(host) {
		t.Errorf("label = %q, want lowercased hostname", label)
	}
}
