package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/coreos/go-systemd/v22/dbus"
)

// Install writes the unit file for id, reloads the systemd daemon and,
// when startup is true, enables the unit at boot. Installing over an
// existing unit replaces it.
func Install(ctx context.Context, id Identity, startup bool, logger *slog.Logger) error {
	unit, err := RenderUnit(id)
	if err != nil {
		return err
	}
	path := UnitPath(id.Name)
	if err := os.WriteFile(path, unit, 0o644); err != nil {
		return fmt.Errorf("service: write unit file: %w", err)
	}
	logger.Info("unit file written", "path", path)

	conn, err := connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := conn.ReloadContext(ctx); err != nil {
		return fmt.Errorf("service: daemon-reload: %w", err)
	}
	if startup {
		if _, _, err := conn.EnableUnitFilesContext(ctx, []string{path}, false, true); err != nil {
			return fmt.Errorf("service: enable %s: %w", UnitName(id.Name), err)
		}
		logger.Info("unit enabled at boot", "unit", UnitName(id.Name))
	}
	return nil
}

// Remove stops the unit if it is running, disables it and deletes the
// unit file. Removing a unit that was never installed is an error.
func Remove(ctx context.Context, name string, logger *slog.Logger) error {
	path := UnitPath(name)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("service: %s is not installed", UnitName(name))
		}
		return fmt.Errorf("service: stat unit file: %w", err)
	}

	conn, err := connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	// Stop failures on an already-dead unit are not fatal to removal.
	if err := stopUnit(ctx, conn, name); err != nil {
		logger.Warn("stop before removal failed", "unit", UnitName(name), "err", err)
	}
	if _, err := conn.DisableUnitFilesContext(ctx, []string{UnitName(name)}, false); err != nil {
		logger.Warn("disable before removal failed", "unit", UnitName(name), "err", err)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("service: remove unit file: %w", err)
	}
	if err := conn.ReloadContext(ctx); err != nil {
		return fmt.Errorf("service: daemon-reload: %w", err)
	}
	logger.Info("unit removed", "unit", UnitName(name))
	return nil
}

// Start asks systemd to start the installed unit and waits for the job
// to finish.
func Start(ctx context.Context, name string) error {
	if err := installed(name); err != nil {
		return err
	}
	conn, err := connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	done := make(chan string, 1)
	if _, err := conn.StartUnitContext(ctx, UnitName(name), "replace", done); err != nil {
		return fmt.Errorf("service: start %s: %w", UnitName(name), err)
	}
	return await(ctx, name, "start", done)
}

// Stop asks systemd to stop the installed unit and waits for the job
// to finish.
func Stop(ctx context.Context, name string) error {
	if err := installed(name); err != nil {
		return err
	}
	conn, err := connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()
	return stopUnit(ctx, conn, name)
}

func stopUnit(ctx context.Context, conn *dbus.Conn, name string) error {
	done := make(chan string, 1)
	if _, err := conn.StopUnitContext(ctx, UnitName(name), "replace", done); err != nil {
		return fmt.Errorf("service: stop %s: %w", UnitName(name), err)
	}
	return await(ctx, name, "stop", done)
}

func connect(ctx context.Context) (*dbus.Conn, error) {
	conn, err := dbus.NewSystemdConnectionContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: connect to systemd: %w", err)
	}
	return conn, nil
}

func installed(name string) error {
	if _, err := os.Stat(UnitPath(name)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("service: %s is not installed", UnitName(name))
		}
		return fmt.Errorf("service: stat unit file: %w", err)
	}
	return nil
}

// await blocks until the queued systemd job reports its result.
func await(ctx context.Context, name, op string, done <-chan string) error {
	select {
	case result := <-done:
		if result != "done" && result != "skipped" {
			return fmt.Errorf("service: %s %s: job result %q", op, UnitName(name), result)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("service: %s %s: %w", op, UnitName(name), ctx.Err())
	}
}
