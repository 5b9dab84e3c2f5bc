package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/pacswatch/pacswatch/pacs/internal/service"
)

func installCmd() *cli.Command {
	return &cli.Command{
		Name:  "install",
		Usage: "Install the exporter as a systemd unit",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "startup",
				Usage: `set to "auto" to enable the unit at boot`,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			startup := cmd.String("startup")
			if startup != "" && startup != "auto" {
				return fmt.Errorf("unknown --startup value %q (only \"auto\" is supported)", startup)
			}

			configPath := cmd.String("configfile")
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			bin, err := os.Executable()
			if err != nil {
				return fmt.Errorf("resolve executable path: %w", err)
			}

			id := service.Identity{
				Name:        cfg.Service.Name,
				DisplayName: cfg.Service.DisplayName,
				Description: cfg.Service.Description,
				ExecStart:   fmt.Sprintf("%s run --configfile %s", bin, configPath),
			}
			if err := service.Install(ctx, id, startup == "auto", slog.Default()); err != nil {
				return err
			}
			slog.Info("exporter installed", "unit", service.UnitName(cfg.Service.Name))
			return nil
		},
	}
}

func removeCmd() *cli.Command {
	return &cli.Command{
		Name:  "remove",
		Usage: "Stop and uninstall the systemd unit",
		Flags: []cli.Flag{configFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd.String("configfile"))
			if err != nil {
				return err
			}
			return service.Remove(ctx, cfg.Service.Name, slog.Default())
		},
	}
}

func startCmd() *cli.Command {
	return &cli.Command{
		Name:  "start",
		Usage: "Start the installed systemd unit",
		Flags: []cli.Flag{configFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd.String("configfile"))
			if err != nil {
				return err
			}
			return service.Start(ctx, cfg.Service.Name)
		},
	}
}

func stopCmd() *cli.Command {
	return &cli.Command{
		Name:  "stop",
		Usage: "Stop the installed systemd unit",
		Flags: []cli.Flag{configFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd.String("configfile"))
			if err != nil {
				return err
			}
			return service.Stop(ctx, cfg.Service.Name)
		},
	}
}
