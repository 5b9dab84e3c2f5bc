package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pacswatch/pacswatch/archive/internal/collector"
	"github.com/pacswatch/pacswatch/archive/internal/config"
	"github.com/pacswatch/pacswatch/archive/internal/pidfile"
	"github.com/pacswatch/pacswatch/pkg/fetch"
	"github.com/pacswatch/pacswatch/pkg/poll"
	"github.com/pacswatch/pacswatch/pkg/registry"
)

// version is stamped by the build; "dev" for hand builds.
var version = "dev"

func main() {
	configPath := flag.String("config", "/etc/pacswatch/archive.yaml", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	slog.Info("archive-exporter starting", "version", version, "config", *configPath)

	if err := run(*configPath); err != nil {
		slog.Error("archive-exporter failed", "err", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	peer, err := cfg.PeerName()
	if err != nil {
		return err
	}
	servers, err := cfg.ServerList()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"peer", peer,
		"servers", len(servers),
		"poll_interval", cfg.PollInterval,
		"listen_port", cfg.ListenPort,
	)

	if err := pidfile.Takeover(cfg.PIDFile, slog.Default()); err != nil {
		return err
	}
	defer pidfile.Remove(cfg.PIDFile)

	sources, err := buildSources(cfg, peer, servers)
	if err != nil {
		return err
	}

	reg, err := registry.New(append(collector.Specs(), poll.HealthSpecs(collector.Prefix)...))
	if err != nil {
		return err
	}
	err = reg.Update(registry.Observations{
		"archive_exporter_info": {{Labels: map[string]string{"version": version}, Value: 1}},
	})
	if err != nil {
		return err
	}

	sched, err := poll.NewScheduler(poll.Config{
		Sources:  sources,
		Registry: reg,
		Prefix:   collector.Prefix,
		Interval: cfg.PollInterval,
		Timeout:  cfg.PollInterval,
		Limit:    cfg.MaxConcurrent,
		Logger:   slog.Default(),
	})
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Watch the config file so operators see when a restart would pick
	// up changes. Applying them live is not supported.
	go func() {
		if err := config.Watch(ctx, configPath); err != nil {
			slog.Error("config watcher stopped", "err", err)
		}
	}()

	srv := startExposition(cfg.ListenPort, reg)
	defer func() {
		shutCtx, shutCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutCancel()
		srv.Shutdown(shutCtx)
	}()

	slog.Info("serving metrics", "port", cfg.ListenPort)
	if err := sched.Run(ctx); err != nil {
		return err
	}
	slog.Info("archive-exporter shutting down")
	return nil
}

// buildSources wires one queue, disk and store source per server, plus
// the scheduled-work page source when a monitor URL is configured.
func buildSources(cfg *config.Config, peer string, servers []string) ([]poll.Source, error) {
	user, password, err := cfg.SSH.SSHCredentials()
	if err != nil {
		return nil, err
	}

	var sources []poll.Source
	for _, server := range servers {
		run := &fetch.Runner{
			Host:           server,
			Port:           cfg.SSH.Port,
			User:           user,
			Password:       password,
			ConnectTimeout: cfg.SSH.ConnectTimeout,
			ExecTimeout:    cfg.SSH.ExecTimeout,
		}
		sources = append(sources,
			collector.NewQueueSource(peer, server, config.QueueCommand, run),
			collector.NewDiskSource(peer, server, config.DFCommand, run),
			collector.NewStoreSource(peer, server, cfg.StorePort, cfg.SSH.ConnectTimeout),
		)
	}

	if cfg.Web.MonitorURL != "" {
		webUser, webPassword, err := cfg.Web.WebCredentials()
		if err != nil {
			return nil, err
		}
		session, err := fetch.NewSession(cfg.Web.Timeout, webUser, webPassword)
		if err != nil {
			return nil, err
		}
		sources = append(sources,
			collector.NewWorkSource(peer, cfg.Web.LoginURL, cfg.Web.MonitorURL, session))
	}
	return sources, nil
}

func startExposition(port int, reg *registry.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/", reg.Handler())
	mux.Handle("/metrics", reg.Handler())
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("exposition server stopped", "err", err)
		}
	}()
	return srv
}
