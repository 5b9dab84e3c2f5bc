package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/pacswatch/pacswatch/pacs/internal/collector"
	"github.com/pacswatch/pacswatch/pacs/internal/config"
	"github.com/pacswatch/pacswatch/pkg/poll"
	"github.com/pacswatch/pacswatch/pkg/registry"
)

func runCmd() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Scrape the local status pages and serve metrics (default)",
		Flags: []cli.Flag{configFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runExporter(ctx, cmd.String("configfile"))
		},
	}
}

// loadConfig reads the config file, falling back to built-in defaults
// when no file exists at the default location. An explicit path that
// does not exist is still an error.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) && path == DefaultConfigPath {
		slog.Info("no config file; using defaults", "path", path)
		return config.Defaults(), nil
	}
	return config.Load(path)
}

func runExporter(ctx context.Context, configPath string) error {
	slog.Info("pacs-exporter starting", "version", version, "config", configPath)

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	server, err := cfg.Label()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"server", server,
		"poll_interval", cfg.PollInterval,
		"listen_port", cfg.ListenPort,
	)

	sources, err := collector.Sources(cfg, server)
	if err != nil {
		return err
	}

	reg, err := registry.New(append(collector.Specs(), poll.HealthSpecs(collector.Prefix)...))
	if err != nil {
		return err
	}
	err = reg.Update(registry.Observations{
		"pacs_exporter_info": {{
			Labels: map[string]string{"server": server, "version": version},
			Value:  1,
		}},
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
		Limit:    len(sources),
		Logger:   slog.Default(),
	})
	if err != nil {
		return err
	}

	// Watch the config file so operators see when a restart would pick
	// up changes. Applying them live is not supported.
	if _, err := os.Stat(configPath); err == nil {
		go func() {
			if err := config.Watch(ctx, configPath); err != nil {
				slog.Error("config watcher stopped", "err", err)
			}
		}()
	}

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
	slog.Info("pacs-exporter shutting down")
	return nil
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
