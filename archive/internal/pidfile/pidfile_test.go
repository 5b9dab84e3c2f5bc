package pidfile

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTakeover_FreshFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exporter.pid")
	if err := Takeover(path, quiet()); err != nil {
		t.Fatalf("Takeover: %v", err)
	}
	pid, err := read(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if pid != os.Getpid() {
		t.Errorf("recorded pid = %d, want %d", pid, os.Getpid())
	}
}

func TestTakeover_StalePID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exporter.pid")
	// A PID far above any live process on a test box.
	if err := os.WriteFile(path, []byte("4194000\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := Takeover(path, quiet()); err != nil {
		t.Fatalf("Takeover over stale pid: %v", err)
	}
	pid, _ := read(path)
	if pid != os.Getpid() {
		t.Errorf("recorded pid = %d, want %d", pid, os.Getpid())
	}
}

func TestTakeover_GarbageFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exporter.pid")
	if err := os.WriteFile(path, []byte("not a pid"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := Takeover(path, quiet()); err != nil {
		t.Fatalf("Takeover over garbage: %v", err)
	}
}

func TestRemove_OnlyOwnPID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exporter.pid")
	other := []byte("4194000\n")
	if err := os.WriteFile(path, other, 0o644); err != nil {
		t.Fatal(err)
	}
	Remove(path)
	if _, err := os.Stat(path); err != nil {
		t.Fatal("Remove deleted a file recording another instance")
	}

	if err := Takeover(path, quiet()); err != nil {
		t.Fatal(err)
	}
	Remove(path)
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("Remove left our own file behind")
	}
}
