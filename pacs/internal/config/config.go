package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultPollInterval = 20 * time.Second
	DefaultListenPort   = 8081
	DefaultHTTPTimeout  = 2 * time.Second

	DefaultServiceName        = "pacs-exporter"
	DefaultServiceDisplayName = "PACS Metrics Exporter"
	DefaultServiceDescription = "Exports PACS application status page metrics in Prometheus format."
)

// Default status page locations. The services all run beside the
// exporter, each on its own fixed port.
const (
	DefaultMessagingURL       = "http://localhost:11104/serverStatus"
	DefaultWorklistURL        = "http://localhost:11108/serverStatus"
	DefaultClientMessagingURL = "http://localhost:11109/serverStatus"
	DefaultAppServerURL       = "http://localhost/servlet/AppServerMonitor"
	DefaultNotificationsURL   = "http://localhost:11111/serverStatus"
	DefaultSchedulerURL       = "http://localhost:11098/serverStatus"
	DefaultSenderURL          = "http://localhost:11110/serverStatus"
)

// Config is the top-level configuration for the pacs exporter.
type Config struct {
	// ServerLabel is the value of the server label on every series.
	// Empty means the lowercased local hostname.
	ServerLabel string `yaml:"server_label"`

	// ListenPort is where the exposition HTTP server binds.
	ListenPort int `yaml:"listen_port"`

	// PollInterval controls how often every status page is scraped.
	PollInterval time.Duration `yaml:"poll_interval"`

	// HTTPTimeout bounds each status page request.
	HTTPTimeout time.Duration `yaml:"http_timeout"`

	App     AppConfig     `yaml:"app"`
	Service ServiceConfig `yaml:"service"`
	URLs    URLConfig     `yaml:"urls"`
}

// AppConfig is the login for the application server monitor page, the
// one status page that sits behind authentication.
type AppConfig struct {
	Username string `yaml:"username"`

	// PasswordEnv is the name of the environment variable that holds
	// the application password.
	PasswordEnv string `yaml:"password_env"`

	Domain string `yaml:"domain"`
}

// ServiceConfig is the identity used when installing the exporter as a
// system service.
type ServiceConfig struct {
	Name        string `yaml:"name"`
	DisplayName string `yaml:"display_name"`
	Description string `yaml:"description"`
}

// URLConfig overrides individual status page locations.
type URLConfig struct {
	Messaging       string `yaml:"messaging"`
	Worklist        string `yaml:"worklist"`
	ClientMessaging string `yaml:"client_messaging"`

	// ApplicationServer empty disables the authenticated source; the
	// other six have no credentials and are always scraped.
	ApplicationServer string `yaml:"application_server"`

	Notifications string `yaml:"notifications"`
	Scheduler     string `yaml:"scheduler"`
	Sender        string `yaml:"sender"`
}

// Load reads and parses the YAML config file at path.
// Missing optional fields are filled with sensible defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// Defaults returns the configuration used when no file exists at all;
// everything has a workable default except the app login.
func Defaults() *Config {
	return defaults()
}

func defaults() *Config {
	return &Config{
		ListenPort:   DefaultListenPort,
		PollInterval: DefaultPollInterval,
		HTTPTimeout:  DefaultHTTPTimeout,
		App: AppConfig{
			PasswordEnv: "PACS_APP_PASSWORD",
		},
		Service: ServiceConfig{
			Name:        DefaultServiceName,
			DisplayName: DefaultServiceDisplayName,
			Description: DefaultServiceDescription,
		},
		URLs: URLConfig{
			Messaging:         DefaultMessagingURL,
			Worklist:          DefaultWorklistURL,
			ClientMessaging:   DefaultClientMessagingURL,
			ApplicationServer: DefaultAppServerURL,
			Notifications:     DefaultNotificationsURL,
			Scheduler:         DefaultSchedulerURL,
			Sender:            DefaultSenderURL,
		},
	}
}

// validate checks required fields and structural constraints.
func validate(cfg *Config) error {
	if cfg.ListenPort <= 0 || cfg.ListenPort > 65535 {
		return fmt.Errorf("listen_port %d out of range", cfg.ListenPort)
	}
	if cfg.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive")
	}
	if cfg.HTTPTimeout <= 0 {
		return fmt.Errorf("http_timeout must be positive")
	}
	if cfg.Service.Name == "" {
		return fmt.Errorf("service.name is required")
	}
	if cfg.URLs.ApplicationServer != "" && cfg.App.Username == "" && os.Getenv("PACS_APP_USERNAME") == "" {
		return fmt.Errorf("app.username (or PACS_APP_USERNAME) is required while urls.application_server is set")
	}
	return nil
}

// Label resolves the server label, defaulting to the lowercased local
// hostname the way operators name their dashboards.
func (c *Config) Label() (string, error) {
	if c.ServerLabel != "" {
		return c.ServerLabel, nil
	}
	host, err := os.Hostname()
	if err != nil {
		return "", fmt.Errorf("config: resolve hostname: %w", err)
	}
	return strings.ToLower(host), nil
}
