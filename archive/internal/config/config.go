package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pacswatch/pacswatch/pkg/parse"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultPollInterval   = 60 * time.Second
	DefaultListenPort     = 7601
	DefaultMaxConcurrent  = 4
	DefaultClusterConf    = "/etc/emageon.conf"
	DefaultStorePort      = 12000
	DefaultSSHPort        = 22
	DefaultConnectTimeout = 5 * time.Second
	DefaultExecTimeout    = 15 * time.Second
	DefaultWebTimeout     = 10 * time.Second
	DefaultPIDFile        = "/var/run/archive-exporter.pid"
)

// QueueCommand lists the per-queue backlog of the multicaster spool,
// one "name count" pair per line. Error queues are excluded; they grow
// by design and would drown the signal.
const QueueCommand = `for i in ` + "`" + `ls /opt/emageon/var/multicaster/storage --hide="*error*"` + "`" + `; do echo "$i ` + "`" + `find /opt/emageon/var/multicaster/storage/$i -type f | wc -l` + "`" + `"; done`

// DFCommand reports filesystem usage in portable one-line records.
const DFCommand = "df --portability --local --exclude-type=tmpfs --exclude-type=devtmpfs"

// Config is the top-level configuration for the archive exporter.
type Config struct {
	// Peer names the archive peer this exporter watches. Empty means
	// derive it from the cluster conf's frontend network info.
	Peer string `yaml:"peer"`

	// ListenPort is where the exposition HTTP server binds.
	ListenPort int `yaml:"listen_port"`

	// PollInterval controls how often every source is collected.
	PollInterval time.Duration `yaml:"poll_interval"`

	// MaxConcurrent caps how many targets are polled at once.
	MaxConcurrent int `yaml:"max_concurrent"`

	// ClusterConf is the env-style file describing the cluster layout.
	ClusterConf string `yaml:"cluster_conf"`

	// Servers overrides the server list derived from ClusterConf.
	Servers []string `yaml:"servers"`

	// StorePort is the TCP port whose listen state marks a store node up.
	StorePort int `yaml:"store_port"`

	// PIDFile guards against two exporters on the same host.
	PIDFile string `yaml:"pid_file"`

	SSH SSHConfig `yaml:"ssh"`
	Web WebConfig `yaml:"web"`
}

// SSHConfig holds the remote-command settings shared by all servers.
type SSHConfig struct {
	Port int `yaml:"port"`

	// Username is the literal login name (safe to store in config).
	Username string `yaml:"username"`

	// PasswordEnv is the name of the environment variable that holds
	// the SSH password.
	PasswordEnv string `yaml:"password_env"`

	// ConnectTimeout bounds the TCP+handshake phase; ExecTimeout bounds
	// each remote command.
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	ExecTimeout    time.Duration `yaml:"exec_timeout"`
}

// WebConfig holds the settings for the authenticated monitoring pages.
type WebConfig struct {
	// LoginURL is the form-login page; MonitorURL is the scheduled-work
	// page fetched after login. Empty MonitorURL disables the source.
	LoginURL   string `yaml:"login_url"`
	MonitorURL string `yaml:"monitor_url"`

	Username    string `yaml:"username"`
	PasswordEnv string `yaml:"password_env"`

	Timeout time.Duration `yaml:"timeout"`
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

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		ListenPort:    DefaultListenPort,
		PollInterval:  DefaultPollInterval,
		MaxConcurrent: DefaultMaxConcurrent,
		ClusterConf:   DefaultClusterConf,
		StorePort:     DefaultStorePort,
		PIDFile:       DefaultPIDFile,
		SSH: SSHConfig{
			Port:           DefaultSSHPort,
			PasswordEnv:    "SSH_PASSWORD",
			ConnectTimeout: DefaultConnectTimeout,
			ExecTimeout:    DefaultExecTimeout,
		},
		Web: WebConfig{
			PasswordEnv: "EAWEB_PASSWORD",
			Timeout:     DefaultWebTimeout,
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
	if cfg.MaxConcurrent <= 0 {
		return fmt.Errorf("max_concurrent must be positive")
	}
	if cfg.StorePort <= 0 || cfg.StorePort > 65535 {
		return fmt.Errorf("store_port %d out of range", cfg.StorePort)
	}
	if len(cfg.Servers) == 0 && cfg.ClusterConf == "" {
		return fmt.Errorf("either servers or cluster_conf is required")
	}
	if cfg.Web.MonitorURL != "" && cfg.Web.LoginURL == "" {
		return fmt.Errorf("web.login_url is required when web.monitor_url is set")
	}
	return nil
}

// PeerName resolves the peer label: the explicit setting when present,
// otherwise the frontend VIP hostname from the cluster conf.
func (c *Config) PeerName() (string, error) {
	if c.Peer != "" {
		return c.Peer, nil
	}
	vars, err := c.clusterVars()
	if err != nil {
		return "", err
	}
	host, err := vipHostname(vars)
	if err != nil {
		return "", err
	}
	return host, nil
}

// ServerList resolves the servers to poll: the explicit list when
// present, otherwise derived from the cluster conf's architecture.
func (c *Config) ServerList() ([]string, error) {
	if len(c.Servers) > 0 {
		return c.Servers, nil
	}
	vars, err := c.clusterVars()
	if err != nil {
		return nil, err
	}
	return serversFor(vars)
}

func (c *Config) clusterVars() (map[string]string, error) {
	f, err := os.Open(c.ClusterConf)
	if err != nil {
		return nil, fmt.Errorf("config: open cluster conf: %w", err)
	}
	defer f.Close()
	vars, err := parse.EnvFile(f)
	if err != nil {
		return nil, fmt.Errorf("config: read cluster conf: %w", err)
	}
	return vars, nil
}

// serversFor maps the cluster architecture onto a server list. A
// standalone (SSA) system runs everything on the VIP host; a clustered
// one has fixed balancer and record nodes plus numbered store nodes.
func serversFor(vars map[string]string) ([]string, error) {
	switch arch := vars["SYSTEM_ARCH"]; arch {
	case "SSA":
		host, err := vipHostname(vars)
		if err != nil {
			return nil, err
		}
		return []string{host}, nil
	case "CLUSTER":
		servers := []string{"elb01", "elb02", "rcs01", "rcs02"}
		n := 0
		if _, err := fmt.Sscanf(vars["NUM_CLARCS"], "%d", &n); err != nil || n <= 0 {
			return nil, fmt.Errorf("config: bad NUM_CLARCS %q", vars["NUM_CLARCS"])
		}
		for i := 1; i <= n; i++ {
			servers = append(servers, fmt.Sprintf("clarc%02d", i))
		}
		return servers, nil
	default:
		return nil, fmt.Errorf("config: unknown SYSTEM_ARCH %q", arch)
	}
}

// vipHostname extracts the frontend VIP's short hostname from
// FE_NETINFO, which looks like "name.domain,10.0.0.5/24,10.0.0.1".
func vipHostname(vars map[string]string) (string, error) {
	netinfo := vars["FE_NETINFO"]
	fqdn, _, ok := strings.Cut(netinfo, ",")
	if !ok || fqdn == "" {
		return "", fmt.Errorf("config: bad FE_NETINFO %q", netinfo)
	}
	host, _, _ := strings.Cut(fqdn, ".")
	return strings.ToLower(host), nil
}
