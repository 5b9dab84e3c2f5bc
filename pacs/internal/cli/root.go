package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
)

// DefaultConfigPath is used when --configfile is not given. A missing
// file is not an error; built-in defaults cover a standard install.
const DefaultConfigPath = "/etc/pacswatch/pacs.yaml"

// version is stamped by the build; "dev" for hand builds.
var version = "dev"

func configFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "configfile",
		Usage:   "path to the exporter config file",
		Value:   DefaultConfigPath,
		Sources: cli.EnvVars("PACS_CONFIGFILE"),
	}
}

// Root builds the pacs-exporter command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name:    "pacs-exporter",
		Usage:   "Export PACS application status page metrics in Prometheus format",
		Version: version,
		Commands: []*cli.Command{
			runCmd(),
			installCmd(),
			removeCmd(),
			startCmd(),
			stopCmd(),
		},
		// Bare invocation behaves like run, matching how the systemd
		// unit used to call the exporter before subcommands existed.
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runExporter(ctx, cmd.String("configfile"))
		},
		Flags: []cli.Flag{configFlag()},
	}
}

// Execute parses arguments and runs the selected command. It is the
// only entry point main needs.
func Execute() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := Root().Run(ctx, os.Args); err != nil {
		slog.Error("pacs-exporter failed", "err", err)
		os.Exit(1)
	}
}
